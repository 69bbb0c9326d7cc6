package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/anonto42/picfeed/internal/repositories"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errBackend = errs.Wrap(errs.Unavailable, "backend", errors.New("connection reset"))

func TestFlipIsAnInvolution(t *testing.T) {
	members := []string{"u1", "u2"}

	once, op := Flip(members, "u3")
	assert.Equal(t, models.OpAdd, op)
	assert.Equal(t, []string{"u1", "u2", "u3"}, once)

	twice, op := Flip(once, "u3")
	assert.Equal(t, models.OpRemove, op)
	assert.Equal(t, members, twice)
	assert.Equal(t, []string{"u1", "u2"}, members, "input must not change")
}

func TestFlipCommutesAcrossActors(t *testing.T) {
	start := []string{"u1"}

	ab, _ := Flip(start, "a")
	ab, _ = Flip(ab, "b")
	ba, _ := Flip(start, "b")
	ba, _ = Flip(ba, "a")

	assert.ElementsMatch(t, ab, ba)
}

func newMemoryPost(t *testing.T, store *repositories.MemoryStore, likes ...string) string {
	t.Helper()
	ctx := context.Background()
	id, err := store.CreatePost(ctx, "https://img.example/a.png", "author", "Author")
	require.NoError(t, err)
	for _, u := range likes {
		require.NoError(t, store.MutateMembership(ctx, id, models.SetLikes, u, models.OpAdd))
	}
	return id
}

func TestTogglerLikeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	postID := newMemoryPost(t, store, "u1", "u2")
	metrics := NewMetrics(nil)
	toggler := NewToggler(store, models.SetLikes, zaptest.NewLogger(t), metrics)

	likes, err := toggler.Toggle(ctx, postID, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, likes)

	likes, err = toggler.Toggle(ctx, postID, "u2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, likes)

	stored, err := store.GetMembers(ctx, postID, models.SetLikes)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, stored)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.toggles.WithLabelValues("likes", "remove", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.toggles.WithLabelValues("likes", "add", "ok")))
}

func TestTogglerConcurrentActorsBothLand(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	postID := newMemoryPost(t, store)
	toggler := NewToggler(store, models.SetLikes, zaptest.NewLogger(t), NewMetrics(nil))

	done := make(chan error, 2)
	for _, actor := range []string{"a", "b"} {
		go func(actor string) {
			_, err := toggler.Toggle(ctx, postID, actor)
			done <- err
		}(actor)
	}
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	likes, err := store.GetMembers(ctx, postID, models.SetLikes)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, likes)
}

func TestTogglerReadFailureWritesNothing(t *testing.T) {
	store := new(mockStore)
	store.On("GetMembers", mock.Anything, "p1", models.SetLikes).Return(nil, errBackend)
	toggler := NewToggler(store, models.SetLikes, zaptest.NewLogger(t), NewMetrics(nil))

	_, err := toggler.Toggle(context.Background(), "p1", "u1")

	require.Error(t, err)
	assert.True(t, errs.IsRetryable(err))
	store.AssertNotCalled(t, "MutateMembership", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTogglerWriteFailure(t *testing.T) {
	store := new(mockStore)
	store.On("GetMembers", mock.Anything, "p1", models.SetLikes).Return([]string{"u1"}, nil)
	store.On("MutateMembership", mock.Anything, "p1", models.SetLikes, "u1", models.OpRemove).Return(errBackend)
	toggler := NewToggler(store, models.SetLikes, zaptest.NewLogger(t), NewMetrics(nil))

	likes, err := toggler.Toggle(context.Background(), "p1", "u1")

	require.Error(t, err)
	assert.Nil(t, likes)
	store.AssertExpectations(t)
}

func TestTogglerMissingPost(t *testing.T) {
	toggler := NewToggler(repositories.NewMemoryStore(), models.SetLikes, zaptest.NewLogger(t), NewMetrics(nil))

	_, err := toggler.Toggle(context.Background(), "missing", "u1")

	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestTogglerRequiresActor(t *testing.T) {
	store := new(mockStore)
	toggler := NewToggler(store, models.SetLikes, zaptest.NewLogger(t), NewMetrics(nil))

	_, err := toggler.Toggle(context.Background(), "p1", "")

	assert.True(t, errors.Is(err, errs.ErrUnauthenticated))
	store.AssertNotCalled(t, "GetMembers", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveTogglerMaintainsJoinRecord(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	postID := newMemoryPost(t, store)
	saves := NewSaveToggler(store, store, zaptest.NewLogger(t), NewMetrics(nil))

	savedBy, err := saves.Toggle(ctx, postID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, savedBy)
	ids, err := store.ListSavedPostIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{postID}, ids)

	savedBy, err = saves.Toggle(ctx, postID, "u1")
	require.NoError(t, err)
	assert.Empty(t, savedBy)
	ids, err = store.ListSavedPostIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSaveTogglerCompensatesFailedJoinWrite(t *testing.T) {
	store := new(mockStore)
	store.On("GetMembers", mock.Anything, "p1", models.SetSavedBy).Return([]string{}, nil)
	store.On("MutateMembership", mock.Anything, "p1", models.SetSavedBy, "u1", models.OpAdd).Return(nil).Once()
	store.On("PutSavedRecord", mock.Anything, "u1", "p1").Return(errBackend)
	store.On("MutateMembership", mock.Anything, "p1", models.SetSavedBy, "u1", models.OpRemove).Return(nil).Once()
	metrics := NewMetrics(nil)
	saves := NewSaveToggler(store, store, zaptest.NewLogger(t), metrics)

	_, err := saves.Toggle(context.Background(), "p1", "u1")

	require.Error(t, err)
	assert.True(t, errs.IsRetryable(err))
	assert.False(t, errors.Is(err, errs.ErrPartialWrite))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.partialWrites))
	store.AssertExpectations(t)
}

func TestSaveTogglerReportsPartialWrite(t *testing.T) {
	store := new(mockStore)
	store.On("GetMembers", mock.Anything, "p1", models.SetSavedBy).Return([]string{"u1"}, nil)
	store.On("MutateMembership", mock.Anything, "p1", models.SetSavedBy, "u1", models.OpRemove).Return(nil).Once()
	store.On("DeleteSavedRecord", mock.Anything, "u1", "p1").Return(errBackend)
	store.On("MutateMembership", mock.Anything, "p1", models.SetSavedBy, "u1", models.OpAdd).Return(errBackend).Once()
	metrics := NewMetrics(nil)
	saves := NewSaveToggler(store, store, zaptest.NewLogger(t), metrics)

	_, err := saves.Toggle(context.Background(), "p1", "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPartialWrite))
	assert.Equal(t, errs.PartialWrite, errs.CodeOf(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.partialWrites))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.toggles.WithLabelValues("savedBy", "remove", "partial_write")))
	store.AssertExpectations(t)
}

func TestSaveTogglerPrimaryFailureSkipsJoin(t *testing.T) {
	store := new(mockStore)
	store.On("GetMembers", mock.Anything, "p1", models.SetSavedBy).Return([]string{}, nil)
	store.On("MutateMembership", mock.Anything, "p1", models.SetSavedBy, "u1", models.OpAdd).Return(errBackend)
	saves := NewSaveToggler(store, store, zaptest.NewLogger(t), NewMetrics(nil))

	_, err := saves.Toggle(context.Background(), "p1", "u1")

	require.Error(t, err)
	store.AssertNotCalled(t, "PutSavedRecord", mock.Anything, mock.Anything, mock.Anything)
}

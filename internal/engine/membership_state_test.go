package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipStateFailureKeepsPriorValue(t *testing.T) {
	state := NewMembershipState("p1", "u1", []string{"u1"})
	require.True(t, state.IsMember())

	err := state.Toggle(context.Background(), func(ctx context.Context, postID, actorID string) ([]string, error) {
		return nil, errBackend
	})

	require.Error(t, err)
	assert.True(t, state.IsMember())
	assert.Equal(t, []string{"u1"}, state.Members())
	assert.False(t, state.Pending())
}

func TestMembershipStateAppliesResult(t *testing.T) {
	state := NewMembershipState("p1", "u2", []string{"u1"})

	err := state.Toggle(context.Background(), func(ctx context.Context, postID, actorID string) ([]string, error) {
		assert.Equal(t, "p1", postID)
		assert.Equal(t, "u2", actorID)
		return []string{"u1", "u2"}, nil
	})

	require.NoError(t, err)
	assert.True(t, state.IsMember())
	assert.Equal(t, []string{"u1", "u2"}, state.Members())
}

func TestMembershipStateRejectsWhilePending(t *testing.T) {
	state := NewMembershipState("p1", "u1", nil)
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- state.Toggle(context.Background(), func(ctx context.Context, postID, actorID string) ([]string, error) {
			close(entered)
			<-release
			return []string{"u1"}, nil
		})
	}()
	<-entered
	assert.True(t, state.Pending())

	calls := 0
	err := state.Toggle(context.Background(), func(ctx context.Context, postID, actorID string) ([]string, error) {
		calls++
		return nil, nil
	})
	assert.True(t, errors.Is(err, errs.ErrTogglePending))
	assert.Zero(t, calls)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, state.IsMember())
	assert.False(t, state.Pending())
}

func TestMembershipStateWithoutActor(t *testing.T) {
	state := NewMembershipState("p1", "", []string{""})

	assert.False(t, state.IsMember())
	err := state.Toggle(context.Background(), func(ctx context.Context, postID, actorID string) ([]string, error) {
		t.Fatal("toggle must not run without an actor")
		return nil, nil
	})
	assert.True(t, errors.Is(err, errs.ErrUnauthenticated))
}

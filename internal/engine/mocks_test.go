package engine

import (
	"context"

	"github.com/anonto42/picfeed/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetPostPage(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error) {
	args := m.Called(ctx, cursor, pageSize)
	return args.Get(0).(models.PostPage), args.Error(1)
}

func (m *mockStore) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *mockStore) CreatePost(ctx context.Context, imageURL, authorID, authorName string) (string, error) {
	args := m.Called(ctx, imageURL, authorID, authorName)
	return args.String(0), args.Error(1)
}

func (m *mockStore) DeletePost(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *mockStore) GetMembers(ctx context.Context, postID string, set models.MemberSet) ([]string, error) {
	args := m.Called(ctx, postID, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) MutateMembership(ctx context.Context, postID string, set models.MemberSet, actorID string, op models.MembershipOp) error {
	return m.Called(ctx, postID, set, actorID, op).Error(0)
}

func (m *mockStore) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *mockStore) CreateComment(ctx context.Context, postID string, parentID *string, text, authorID, authorName string) (*models.Comment, error) {
	args := m.Called(ctx, postID, parentID, text, authorID, authorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *mockStore) PutSavedRecord(ctx context.Context, actorID, postID string) error {
	return m.Called(ctx, actorID, postID).Error(0)
}

func (m *mockStore) DeleteSavedRecord(ctx context.Context, actorID, postID string) error {
	return m.Called(ctx, actorID, postID).Error(0)
}

func (m *mockStore) ListSavedPostIDs(ctx context.Context, actorID string) ([]string, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, data []byte, contentType, ext string) (string, error) {
	args := m.Called(ctx, data, contentType, ext)
	return args.String(0), args.Error(1)
}

// pagerFunc adapts a function to Pager
type pagerFunc func(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error)

func (f pagerFunc) GetPostPage(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error) {
	return f(ctx, cursor, pageSize)
}

func postsWithIDs(ids ...string) []models.Post {
	out := make([]models.Post, len(ids))
	for i, id := range ids {
		out[i] = models.Post{ID: id}
	}
	return out
}

func postIDs(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

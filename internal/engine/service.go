// Package engine implements the feed and interaction rules: threaded comments, like and save
// toggles, and cursor-paginated feeds with infinite-scroll triggering.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/media"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/anonto42/picfeed/internal/repositories"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Options configures a Service. Zero values fall back to a no-op logger, unregistered metrics
// and the default page size.
type Options struct {
	Logger   *zap.Logger
	Metrics  *Metrics
	PageSize int
}

// Service runs the engine operations against a Store and an Uploader.
type Service struct {
	store    repositories.Store
	media    media.Uploader
	logger   *zap.Logger
	metrics  *Metrics
	pageSize int

	likes *Toggler
	saves *SaveToggler
}

func NewService(store repositories.Store, uploader media.Uploader, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	return &Service{
		store:    store,
		media:    uploader,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		pageSize: repositories.NormalizePageSize(opts.PageSize),
		likes:    NewToggler(store, models.SetLikes, opts.Logger, opts.Metrics),
		saves:    NewSaveToggler(store, store, opts.Logger, opts.Metrics),
	}
}

// PageSize is the page size used when a caller does not ask for one.
func (s *Service) PageSize() int {
	return s.pageSize
}

// CommentTree returns the threaded comments of a post. Storage failures are logged and yield
// an empty tree.
func (s *Service) CommentTree(ctx context.Context, postID string) []*models.Comment {
	flat, err := s.store.ListComments(ctx, postID)
	s.metrics.commentTrees.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		s.logger.Error("failed to load comments", zap.String("post_id", postID), zap.Error(err))
		return []*models.Comment{}
	}
	return BuildCommentTree(flat)
}

// AddComment stores a comment or a reply. A nil or empty parentID makes a root comment.
func (s *Service) AddComment(ctx context.Context, postID string, parentID *string, text string, actor models.Actor) (*models.Comment, error) {
	if actor.ID == "" {
		return nil, errs.New(errs.Unauthenticated, "sign in to comment")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.New(errs.Validation, "comment text is required")
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	c, err := s.store.CreateComment(ctx, postID, parentID, text, actor.ID, actor.Name())
	if err != nil {
		return nil, fmt.Errorf("create comment on post %s: %w", postID, err)
	}
	c.Replies = []*models.Comment{}
	return c, nil
}

// ToggleLike flips actorID in the post's likes and returns the new set.
func (s *Service) ToggleLike(ctx context.Context, postID, actorID string) ([]string, error) {
	return s.likes.Toggle(ctx, postID, actorID)
}

// ToggleSave flips actorID in the post's savedBy together with the saved-post record.
func (s *Service) ToggleSave(ctx context.Context, postID, actorID string) ([]string, error) {
	return s.saves.Toggle(ctx, postID, actorID)
}

// SavedPosts lists the posts actorID saved, most recent save first. Records whose post has
// since been deleted are skipped.
func (s *Service) SavedPosts(ctx context.Context, actorID string) ([]models.Post, error) {
	if actorID == "" {
		return nil, errs.New(errs.Unauthenticated, "sign in to see saved posts")
	}
	ids, err := s.store.ListSavedPostIDs(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list saved posts: %w", err)
	}

	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		p, err := s.store.GetPost(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			s.logger.Debug("skipping saved record of deleted post", zap.String("post_id", id))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load saved post %s: %w", id, err)
		}
		posts = append(posts, *p)
	}
	return posts, nil
}

// PublishPost uploads an image and creates a post for it. The content must sniff as an image.
func (s *Service) PublishPost(ctx context.Context, actor models.Actor, image []byte) (*models.Post, error) {
	if actor.ID == "" {
		return nil, errs.New(errs.Unauthenticated, "sign in to post")
	}
	if len(image) == 0 {
		return nil, errs.New(errs.Validation, "an image is required")
	}
	mtype := mimetype.Detect(image)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, errs.Newf(errs.Validation, "unsupported file type %s", mtype.String())
	}

	url, err := s.media.Upload(ctx, image, mtype.String(), mtype.Extension())
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	id, err := s.store.CreatePost(ctx, url, actor.ID, actor.Name())
	if err != nil {
		s.logger.Warn("image uploaded but post not created", zap.String("image_url", url), zap.Error(err))
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.logger.Info("post published", zap.String("post_id", id), zap.String("author_id", actor.ID))

	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read back post %s: %w", id, err)
	}
	return post, nil
}

// DeletePost removes a post. Only its author may do so.
func (s *Service) DeletePost(ctx context.Context, postID, actorID string) error {
	if actorID == "" {
		return errs.New(errs.Unauthenticated, "sign in to delete posts")
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return errs.New(errs.Forbidden, "only the author can delete this post")
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}
	s.logger.Info("post deleted", zap.String("post_id", postID))
	return nil
}

// PostsByAuthor lists authorID's posts, newest first.
func (s *Service) PostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	if authorID == "" {
		return nil, errs.New(errs.Unauthenticated, "sign in to see your posts")
	}
	posts, err := s.store.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, nil
}

// GetPostPage fetches one feed page. pageSize <= 0 means the service default.
func (s *Service) GetPostPage(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	page, err := s.store.GetPostPage(ctx, cursor, repositories.NormalizePageSize(pageSize))
	switch {
	case err != nil:
		s.metrics.pageFetches.WithLabelValues(resultLabel(err)).Inc()
		return models.PostPage{}, fmt.Errorf("get post page: %w", err)
	case len(page.Items) == 0:
		s.metrics.pageFetches.WithLabelValues("empty").Inc()
	default:
		s.metrics.pageFetches.WithLabelValues("ok").Inc()
	}
	if page.Items == nil {
		page.Items = []models.Post{}
	}
	return page, nil
}

// NewFeed starts a feed session over this service.
func (s *Service) NewFeed() *Feed {
	return NewFeed(s, s.pageSize, s.logger)
}

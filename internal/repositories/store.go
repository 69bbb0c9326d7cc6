package repositories

import (
	"context"

	"github.com/anonto42/picfeed/internal/models"
)

// PostRepository defines the post operations, including the like/save actor sets stored on each post
type PostRepository interface {
	GetPostPage(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	CreatePost(ctx context.Context, imageURL, authorID, authorName string) (string, error)
	DeletePost(ctx context.Context, postID string) error
	MembershipRepository
}

// MembershipRepository reads and mutates one actor set of a post.
// MutateMembership must be a set-algebra update (union or difference), never an overwrite.
type MembershipRepository interface {
	GetMembers(ctx context.Context, postID string, set models.MemberSet) ([]string, error)
	MutateMembership(ctx context.Context, postID string, set models.MemberSet, actorID string, op models.MembershipOp) error
}

// CommentRepository defines the comment operations. ListComments returns ascending creation time.
type CommentRepository interface {
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID string, parentID *string, text, authorID, authorName string) (*models.Comment, error)
}

// SavedPostRepository defines the per-actor join records. Both writes are idempotent.
type SavedPostRepository interface {
	PutSavedRecord(ctx context.Context, actorID, postID string) error
	DeleteSavedRecord(ctx context.Context, actorID, postID string) error
	ListSavedPostIDs(ctx context.Context, actorID string) ([]string, error)
}

// Store bundles every repository the engine needs.
type Store interface {
	PostRepository
	CommentRepository
	SavedPostRepository
}

// Composite assembles a Store from repositories living in different databases.
type Composite struct {
	PostRepository
	CommentRepository
	SavedPostRepository
}

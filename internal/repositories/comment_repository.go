package repositories

import (
	"context"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, postID string, parentID *string, text, authorID, authorName string) (*models.Comment, error) {
	comment := &models.Comment{
		ID:         uuid.NewString(),
		PostID:     postID,
		ParentID:   parentID,
		Text:       text,
		AuthorID:   authorID,
		AuthorName: authorName,
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, errs.Wrap(errs.Unavailable, "insert comment", err)
	}
	return comment, nil
}

// ListComments retrieves all comments for a post, oldest first
func (r *PostgresCommentRepository) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "list comments", err)
	}
	return comments, nil
}

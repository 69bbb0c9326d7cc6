package repositories

import (
	"context"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresSavedPostRepository implements SavedPostRepository
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// PutSavedRecord inserts the join record; an existing pair is left alone
func (r *PostgresSavedPostRepository) PutSavedRecord(ctx context.Context, actorID, postID string) error {
	record := &models.SavedPost{UserID: actorID, PostID: postID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
	return errs.Wrap(errs.Unavailable, "save post", err)
}

// DeleteSavedRecord removes the join record; a missing pair is not an error
func (r *PostgresSavedPostRepository) DeleteSavedRecord(ctx context.Context, actorID, postID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", actorID, postID).
		Delete(&models.SavedPost{}).Error
	return errs.Wrap(errs.Unavailable, "unsave post", err)
}

func (r *PostgresSavedPostRepository) ListSavedPostIDs(ctx context.Context, actorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.SavedPost{}).
		Where("user_id = ?", actorID).
		Order("created_at DESC").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "list saved posts", err)
	}
	return ids, nil
}

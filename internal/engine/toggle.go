package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/anonto42/picfeed/internal/repositories"
	"go.uber.org/zap"
)

// Flip returns members with actorID's membership inverted, and the set-algebra write that
// performs the same change on storage. members is not modified.
func Flip(members []string, actorID string) ([]string, models.MembershipOp) {
	if models.Contains(members, actorID) {
		next := make([]string, 0, len(members))
		for _, m := range members {
			if m != actorID {
				next = append(next, m)
			}
		}
		return next, models.OpRemove
	}
	next := make([]string, 0, len(members)+1)
	next = append(next, members...)
	return append(next, actorID), models.OpAdd
}

func inverse(op models.MembershipOp) models.MembershipOp {
	if op == models.OpAdd {
		return models.OpRemove
	}
	return models.OpAdd
}

// Toggler flips one actor's membership in one set of a post. The decision is made against a
// fresh read of storage, never against a cached copy.
type Toggler struct {
	repo    repositories.MembershipRepository
	set     models.MemberSet
	logger  *zap.Logger
	metrics *Metrics
}

func NewToggler(repo repositories.MembershipRepository, set models.MemberSet, logger *zap.Logger, metrics *Metrics) *Toggler {
	return &Toggler{repo: repo, set: set, logger: logger, metrics: metrics}
}

// Toggle returns the set as it is after the flip.
func (t *Toggler) Toggle(ctx context.Context, postID, actorID string) ([]string, error) {
	next, op, err := t.toggle(ctx, postID, actorID)
	t.metrics.toggles.WithLabelValues(string(t.set), op.String(), resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (t *Toggler) toggle(ctx context.Context, postID, actorID string) ([]string, models.MembershipOp, error) {
	if actorID == "" {
		return nil, models.OpAdd, errs.New(errs.Unauthenticated, "sign in to toggle "+string(t.set))
	}
	if postID == "" {
		return nil, models.OpAdd, errs.New(errs.Validation, "post id is required")
	}

	members, err := t.repo.GetMembers(ctx, postID, t.set)
	if err != nil {
		return nil, models.OpAdd, fmt.Errorf("read %s of post %s: %w", t.set, postID, err)
	}
	next, op := Flip(members, actorID)
	if err := t.repo.MutateMembership(ctx, postID, t.set, actorID, op); err != nil {
		return nil, op, fmt.Errorf("%s %s on post %s: %w", op, t.set, postID, err)
	}

	t.logger.Debug("membership toggled",
		zap.String("post_id", postID),
		zap.String("set", string(t.set)),
		zap.String("op", op.String()),
	)
	return next, op, nil
}

// SaveToggler toggles savedBy and keeps the actor's saved-post join record in step with it.
// When the join write fails the savedBy write is undone; if that fails as well the error
// carries the PartialWrite code.
type SaveToggler struct {
	primary *Toggler
	joins   repositories.SavedPostRepository
	logger  *zap.Logger
	metrics *Metrics
}

func NewSaveToggler(posts repositories.MembershipRepository, joins repositories.SavedPostRepository, logger *zap.Logger, metrics *Metrics) *SaveToggler {
	return &SaveToggler{
		primary: NewToggler(posts, models.SetSavedBy, logger, metrics),
		joins:   joins,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *SaveToggler) Toggle(ctx context.Context, postID, actorID string) ([]string, error) {
	next, op, err := s.toggle(ctx, postID, actorID)
	s.metrics.toggles.WithLabelValues(string(models.SetSavedBy), op.String(), resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (s *SaveToggler) toggle(ctx context.Context, postID, actorID string) ([]string, models.MembershipOp, error) {
	next, op, err := s.primary.toggle(ctx, postID, actorID)
	if err != nil {
		return nil, op, err
	}

	var joinErr error
	if op == models.OpAdd {
		joinErr = s.joins.PutSavedRecord(ctx, actorID, postID)
	} else {
		joinErr = s.joins.DeleteSavedRecord(ctx, actorID, postID)
	}
	if joinErr == nil {
		return next, op, nil
	}

	fields := []zap.Field{
		zap.String("post_id", postID),
		zap.String("actor_id", actorID),
		zap.String("op", op.String()),
		zap.Error(joinErr),
	}
	if undoErr := s.primary.repo.MutateMembership(ctx, postID, models.SetSavedBy, actorID, inverse(op)); undoErr != nil {
		s.metrics.partialWrites.Inc()
		s.logger.Error("saved post join record diverged from savedBy", append(fields, zap.NamedError("undo_error", undoErr))...)
		return nil, op, &errs.AppError{
			Code:    errs.PartialWrite,
			Message: fmt.Sprintf("save state of post %s is inconsistent", postID),
			Err:     errors.Join(joinErr, undoErr),
		}
	}
	s.logger.Warn("saved post join record failed, savedBy restored", fields...)
	return nil, op, fmt.Errorf("%s saved record for post %s: %w", op, postID, joinErr)
}

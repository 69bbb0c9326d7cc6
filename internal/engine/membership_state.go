package engine

import (
	"context"
	"sync"

	"github.com/anonto42/picfeed/internal/errs"
)

// ToggleFunc performs a toggle against storage and returns the resulting member set.
// Toggler.Toggle, SaveToggler.Toggle and the service's ToggleLike/ToggleSave all fit.
type ToggleFunc func(ctx context.Context, postID, actorID string) ([]string, error)

// MembershipState is the caller-side view of one actor's membership in one post's set.
// The member set only ever changes to a value returned by a successful toggle.
type MembershipState struct {
	postID  string
	actorID string

	mu      sync.Mutex
	members []string
	pending bool
}

func NewMembershipState(postID, actorID string, members []string) *MembershipState {
	return &MembershipState{
		postID:  postID,
		actorID: actorID,
		members: append([]string{}, members...),
	}
}

func (s *MembershipState) Members() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.members...)
}

// IsMember reports whether the current actor is in the set. Always false without an actor.
func (s *MembershipState) IsMember() bool {
	if s.actorID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m == s.actorID {
			return true
		}
	}
	return false
}

func (s *MembershipState) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Toggle runs fn unless a toggle is already in flight, in which case it fails fast with
// TogglePending. On error the member set keeps its previous value.
func (s *MembershipState) Toggle(ctx context.Context, fn ToggleFunc) error {
	if s.actorID == "" {
		return errs.New(errs.Unauthenticated, "sign in to toggle")
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return errs.New(errs.TogglePending, "a toggle is already in flight")
	}
	s.pending = true
	s.mu.Unlock()

	next, err := fn(ctx, s.postID, s.actorID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		return err
	}
	s.members = append([]string{}, next...)
	return nil
}

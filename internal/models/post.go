package models

import "time"

// Post is an image post. Likes and SavedBy are sets of actor ids; storage keeps them duplicate-free.
type Post struct {
	ID         string    `json:"id" firestore:"-"`
	AuthorID   string    `json:"user_id" firestore:"userId"`
	AuthorName string    `json:"username" firestore:"username"`
	ImageURL   string    `json:"image_url" firestore:"imageURL"`
	Likes      []string  `json:"likes" firestore:"likes"`
	SavedBy    []string  `json:"saved_by" firestore:"savedBy"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

// Cursor marks the last item of a fetched page. The empty cursor means "from the top".
type Cursor string

// IsZero reports whether c is the null cursor.
func (c Cursor) IsZero() bool {
	return c == ""
}

// PostPage is one bounded slice of the feed. Cursor is empty iff Items is empty.
type PostPage struct {
	Items  []Post `json:"posts"`
	Cursor Cursor `json:"next_cursor"`
}

// MemberSet names one of the per-post actor sets.
type MemberSet string

const (
	SetLikes   MemberSet = "likes"
	SetSavedBy MemberSet = "savedBy"
)

// MembershipOp is a set-algebra write: union with or difference by a single actor.
type MembershipOp int

const (
	OpAdd MembershipOp = iota
	OpRemove
)

func (op MembershipOp) String() string {
	if op == OpRemove {
		return "remove"
	}
	return "add"
}

// Contains reports whether actorID is in members.
func Contains(members []string, actorID string) bool {
	for _, m := range members {
		if m == actorID {
			return true
		}
	}
	return false
}

// FeedQuery is the query string of a page request
type FeedQuery struct {
	Cursor string `query:"cursor"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

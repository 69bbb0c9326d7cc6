package models

import "time"

// Comment is a comment on a post. A nil ParentID marks a root comment.
// Replies is rebuilt at read time and never stored.
type Comment struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(64)" firestore:"-"`
	PostID     string     `json:"post_id" gorm:"index;type:varchar(64)" firestore:"-"`
	ParentID   *string    `json:"parent_id" gorm:"index;type:varchar(64)" firestore:"parentId"`
	Text       string     `json:"text" gorm:"type:text" firestore:"text"`
	AuthorID   string     `json:"user_id" gorm:"index" firestore:"userId"`
	AuthorName string     `json:"username" firestore:"username"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index" firestore:"createdAt,serverTimestamp"`
	Replies    []*Comment `json:"replies" gorm:"-" firestore:"-"`
}

// CreateCommentRequest defines the request body for creating a comment or a reply
type CreateCommentRequest struct {
	ParentID *string `json:"parent_id" validate:"omitempty,min=1"`
	Text     string  `json:"text" validate:"required,min=1,max=500"`
}

package models

import "time"

// Feedback is a free-form message to management. Anonymous submissions
// carry no author link at all.
type Feedback struct {
	ID          string    `db:"id" json:"id"`
	UserID      *string   `db:"user_id" json:"userId,omitempty"`
	Message     string    `db:"message" json:"message"`
	IsAnonymous bool      `db:"is_anonymous" json:"isAnonymous"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`

	AuthorEmail *string `db:"author_email" json:"authorEmail,omitempty"`
	AuthorRole  *string `db:"author_role" json:"authorRole,omitempty"`
}

package models

import "time"

// AnnouncementAudience defines who can see an announcement.
type AnnouncementAudience string

const (
	AnnouncementAudienceAll       AnnouncementAudience = "ALL"
	AnnouncementAudienceEmployees AnnouncementAudience = "EMPLOYEES"
	AnnouncementAudienceManagers  AnnouncementAudience = "MANAGERS"
)

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID             string               `db:"id" json:"id"`
	Title          string               `db:"title" json:"title"`
	Message        string               `db:"message" json:"message"`
	IsPinned       bool                 `db:"is_pinned" json:"isPinned"`
	TargetAudience AnnouncementAudience `db:"target_audience" json:"targetAudience"`
	AuthorID       string               `db:"author_id" json:"authorId"`
	CreatedAt      time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time            `db:"updated_at" json:"updatedAt"`

	AuthorEmail *string `db:"author_email" json:"authorEmail,omitempty"`
	AuthorRole  *string `db:"author_role" json:"authorRole,omitempty"`
}

package models

import "time"

// ReviewStatus captures the lifecycle of a reviewable request.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

// Terminal reports whether the status permits no further transition.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewStatusApproved || s == ReviewStatusRejected
}

// ReviewState holds the columns shared by every reviewable request.
// ReviewerID and ReviewedAt are set together, atomically with the
// PENDING -> APPROVED/REJECTED transition, and never change afterwards.
type ReviewState struct {
	Status     ReviewStatus `db:"status" json:"status"`
	ReviewerID *string      `db:"reviewer_id" json:"reviewerId,omitempty"`
	ReviewedAt *time.Time   `db:"reviewed_at" json:"reviewedAt,omitempty"`
}

// RequesterInfo columns are populated only by review-queue queries that
// join the users table; they stay empty on plain reads.
type RequesterInfo struct {
	RequesterEmail *string `db:"requester_email" json:"requesterEmail,omitempty"`
	RequesterName  *string `db:"requester_name" json:"requesterName,omitempty"`
	RequesterRole  *string `db:"requester_role" json:"requesterRole,omitempty"`
}

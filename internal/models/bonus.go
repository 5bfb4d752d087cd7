package models

import "time"

// Bonus is a manager-assigned award for a beneficiary, pending review.
// UserID is the beneficiary, not the assigning manager: "my bonuses" means
// bonuses awarded to the caller.
type Bonus struct {
	ID     string    `db:"id" json:"id"`
	UserID string    `db:"user_id" json:"userId"`
	Amount float64   `db:"amount" json:"amount"`
	Type   string    `db:"type" json:"type"`
	Reason string    `db:"reason" json:"reason"`
	Period time.Time `db:"period" json:"period"`
	ReviewState
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	RequesterInfo
	ReviewerEmail *string `db:"reviewer_email" json:"reviewerEmail,omitempty"`
}

// RequestID implements workflow.Request.
func (b *Bonus) RequestID() string { return b.ID }

// RequesterID implements workflow.Request.
func (b *Bonus) RequesterID() string { return b.UserID }

// Review implements workflow.Request.
func (b *Bonus) Review() *ReviewState { return &b.ReviewState }

// BonusStats aggregates the bonus ledger for the manager dashboard.
type BonusStats struct {
	TotalApproved  float64 `db:"total_approved" json:"totalApproved"`
	TotalPending   float64 `db:"total_pending" json:"totalPending"`
	TotalAllocated float64 `json:"totalAllocated"`
	PendingCount   int     `db:"pending_count" json:"pendingCount"`
}

package models

import "time"

// OvertimeRequest is a request for extra hours on a single calendar date.
// At most one request may exist per requester and date; the uniqueness is
// enforced by the (user_id, date) index at insert time.
type OvertimeRequest struct {
	ID      string    `db:"id" json:"id"`
	UserID  string    `db:"user_id" json:"userId"`
	Date    time.Time `db:"date" json:"date"`
	Hours   float64   `db:"hours" json:"hours"`
	Reason  string    `db:"reason" json:"reason"`
	Remarks *string   `db:"remarks" json:"remarks,omitempty"`
	ReviewState
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	RequesterInfo
}

// RequestID implements workflow.Request.
func (r *OvertimeRequest) RequestID() string { return r.ID }

// RequesterID implements workflow.Request.
func (r *OvertimeRequest) RequesterID() string { return r.UserID }

// Review implements workflow.Request.
func (r *OvertimeRequest) Review() *ReviewState { return &r.ReviewState }

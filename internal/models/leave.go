package models

import "time"

// LeaveType enumerates supported leave categories.
type LeaveType string

const (
	LeaveTypeAnnual LeaveType = "ANNUAL"
	LeaveTypeSick   LeaveType = "SICK"
	LeaveTypeUnpaid LeaveType = "UNPAID"
	LeaveTypeOther  LeaveType = "OTHER"
)

// LeaveRequest is an employee's request for time off awaiting review.
type LeaveRequest struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Type      LeaveType `db:"type" json:"type"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`
	Reason    string    `db:"reason" json:"reason"`
	ReviewState
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	RequesterInfo
}

// RequestID implements workflow.Request.
func (r *LeaveRequest) RequestID() string { return r.ID }

// RequesterID implements workflow.Request.
func (r *LeaveRequest) RequesterID() string { return r.UserID }

// Review implements workflow.Request.
func (r *LeaveRequest) Review() *ReviewState { return &r.ReviewState }

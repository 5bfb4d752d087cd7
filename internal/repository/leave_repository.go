package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flowdash/hr-ops-api/internal/models"
)

// LeaveRepository persists leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// Insert stores a new leave request.
func (r *LeaveRepository) Insert(ctx context.Context, req *models.LeaveRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO leave_requests (id, user_id, type, start_date, end_date, reason, status, reviewer_id, reviewed_at, created_at)
VALUES (:id, :user_id, :type, :start_date, :end_date, :reason, :status, :reviewer_id, :reviewed_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// FindByID fetches a leave request by identifier.
func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	const query = `SELECT id, user_id, type, start_date, end_date, reason, status, reviewer_id, reviewed_at, created_at
FROM leave_requests WHERE id = $1`
	var req models.LeaveRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByRequester returns the requester's leave history, newest first.
func (r *LeaveRepository) ListByRequester(ctx context.Context, requesterID string) ([]*models.LeaveRequest, error) {
	const query = `SELECT id, user_id, type, start_date, end_date, reason, status, reviewer_id, reviewed_at, created_at
FROM leave_requests WHERE user_id = $1 ORDER BY created_at DESC`
	var requests []*models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, requesterID); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return requests, nil
}

// ListPending returns the review queue oldest first, with the requester's
// directory info joined in for display.
func (r *LeaveRepository) ListPending(ctx context.Context) ([]*models.LeaveRequest, error) {
	const query = `SELECT l.id, l.user_id, l.type, l.start_date, l.end_date, l.reason, l.status, l.reviewer_id, l.reviewed_at, l.created_at,
       u.email AS requester_email, u.full_name AS requester_name, u.role AS requester_role
FROM leave_requests l
JOIN users u ON u.id = l.user_id
WHERE l.status = 'PENDING'
ORDER BY l.created_at ASC`
	var requests []*models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list pending leave requests: %w", err)
	}
	return requests, nil
}

// MarkDecided finalizes a pending request. The status predicate makes the
// update race-safe: a second decision sees zero rows and gets ErrNoRows.
func (r *LeaveRepository) MarkDecided(ctx context.Context, id string, status models.ReviewStatus, reviewerID string, decidedAt time.Time, _ *string) error {
	const query = `UPDATE leave_requests SET status = $2, reviewer_id = $3, reviewed_at = $4
WHERE id = $1 AND status = 'PENDING'`
	result, err := r.db.ExecContext(ctx, query, id, status, reviewerID, decidedAt)
	if err != nil {
		return fmt.Errorf("decide leave request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check leave decision rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Remove deletes a leave request. Present for store symmetry; leave has no
// cancel capability so the engine never reaches it.
func (r *LeaveRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM leave_requests WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete leave request: %w", err)
	}
	return nil
}

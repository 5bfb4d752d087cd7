package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/flowdash/hr-ops-api/internal/models"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

const pqUniqueViolation = "23505"

// OvertimeRepository persists overtime requests. The table carries a
// UNIQUE (user_id, date) index so the one-request-per-day guard is checked
// by the insert itself, not by a read-then-write.
type OvertimeRepository struct {
	db *sqlx.DB
}

// NewOvertimeRepository constructs the repository.
func NewOvertimeRepository(db *sqlx.DB) *OvertimeRepository {
	return &OvertimeRepository{db: db}
}

// Insert stores a new overtime request, mapping unique-index violations to
// the typed duplicate error.
func (r *OvertimeRepository) Insert(ctx context.Context, req *models.OvertimeRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO overtime_requests (id, user_id, date, hours, reason, remarks, status, reviewer_id, reviewed_at, created_at)
VALUES (:id, :user_id, :date, :hours, :reason, :remarks, :status, :reviewer_id, :reviewed_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return appErrors.Clone(appErrors.ErrDuplicateRequest, "overtime request already exists for this date")
		}
		return fmt.Errorf("create overtime request: %w", err)
	}
	return nil
}

// FindByID fetches an overtime request by identifier.
func (r *OvertimeRepository) FindByID(ctx context.Context, id string) (*models.OvertimeRequest, error) {
	const query = `SELECT id, user_id, date, hours, reason, remarks, status, reviewer_id, reviewed_at, created_at
FROM overtime_requests WHERE id = $1`
	var req models.OvertimeRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByRequester returns the requester's overtime history, newest first.
func (r *OvertimeRepository) ListByRequester(ctx context.Context, requesterID string) ([]*models.OvertimeRequest, error) {
	const query = `SELECT id, user_id, date, hours, reason, remarks, status, reviewer_id, reviewed_at, created_at
FROM overtime_requests WHERE user_id = $1 ORDER BY created_at DESC`
	var requests []*models.OvertimeRequest
	if err := r.db.SelectContext(ctx, &requests, query, requesterID); err != nil {
		return nil, fmt.Errorf("list overtime requests: %w", err)
	}
	return requests, nil
}

// ListPending returns the review queue oldest first with requester info.
func (r *OvertimeRepository) ListPending(ctx context.Context) ([]*models.OvertimeRequest, error) {
	const query = `SELECT o.id, o.user_id, o.date, o.hours, o.reason, o.remarks, o.status, o.reviewer_id, o.reviewed_at, o.created_at,
       u.email AS requester_email, u.full_name AS requester_name, u.role AS requester_role
FROM overtime_requests o
JOIN users u ON u.id = o.user_id
WHERE o.status = 'PENDING'
ORDER BY o.created_at ASC`
	var requests []*models.OvertimeRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list pending overtime requests: %w", err)
	}
	return requests, nil
}

// MarkDecided finalizes a pending request, storing the reviewer's remarks
// when present. Conditional on the row still being PENDING.
func (r *OvertimeRepository) MarkDecided(ctx context.Context, id string, status models.ReviewStatus, reviewerID string, decidedAt time.Time, note *string) error {
	const query = `UPDATE overtime_requests SET status = $2, reviewer_id = $3, reviewed_at = $4, remarks = COALESCE($5, remarks)
WHERE id = $1 AND status = 'PENDING'`
	result, err := r.db.ExecContext(ctx, query, id, status, reviewerID, decidedAt, note)
	if err != nil {
		return fmt.Errorf("decide overtime request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check overtime decision rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Remove deletes an overtime request (requester cancellation).
func (r *OvertimeRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM overtime_requests WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete overtime request: %w", err)
	}
	return nil
}

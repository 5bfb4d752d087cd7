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

// BonusRepository persists bonus awards.
type BonusRepository struct {
	db *sqlx.DB
}

// NewBonusRepository constructs the repository.
func NewBonusRepository(db *sqlx.DB) *BonusRepository {
	return &BonusRepository{db: db}
}

// Insert stores a new bonus award.
func (r *BonusRepository) Insert(ctx context.Context, bonus *models.Bonus) error {
	if bonus.ID == "" {
		bonus.ID = uuid.NewString()
	}
	if bonus.CreatedAt.IsZero() {
		bonus.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO bonuses (id, user_id, amount, type, reason, period, status, reviewer_id, reviewed_at, created_at)
VALUES (:id, :user_id, :amount, :type, :reason, :period, :status, :reviewer_id, :reviewed_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, bonus); err != nil {
		return fmt.Errorf("create bonus: %w", err)
	}
	return nil
}

// FindByID fetches a bonus by identifier.
func (r *BonusRepository) FindByID(ctx context.Context, id string) (*models.Bonus, error) {
	const query = `SELECT id, user_id, amount, type, reason, period, status, reviewer_id, reviewed_at, created_at
FROM bonuses WHERE id = $1`
	var bonus models.Bonus
	if err := r.db.GetContext(ctx, &bonus, query, id); err != nil {
		return nil, err
	}
	return &bonus, nil
}

// ListByRequester returns bonuses awarded to the given user, newest first.
func (r *BonusRepository) ListByRequester(ctx context.Context, requesterID string) ([]*models.Bonus, error) {
	const query = `SELECT id, user_id, amount, type, reason, period, status, reviewer_id, reviewed_at, created_at
FROM bonuses WHERE user_id = $1 ORDER BY created_at DESC`
	var bonuses []*models.Bonus
	if err := r.db.SelectContext(ctx, &bonuses, query, requesterID); err != nil {
		return nil, fmt.Errorf("list bonuses: %w", err)
	}
	return bonuses, nil
}

// ListPending returns the review queue oldest first with beneficiary info.
func (r *BonusRepository) ListPending(ctx context.Context) ([]*models.Bonus, error) {
	const query = `SELECT b.id, b.user_id, b.amount, b.type, b.reason, b.period, b.status, b.reviewer_id, b.reviewed_at, b.created_at,
       u.email AS requester_email, u.full_name AS requester_name, u.role AS requester_role
FROM bonuses b
JOIN users u ON u.id = b.user_id
WHERE b.status = 'PENDING'
ORDER BY b.created_at ASC`
	var bonuses []*models.Bonus
	if err := r.db.SelectContext(ctx, &bonuses, query); err != nil {
		return nil, fmt.Errorf("list pending bonuses: %w", err)
	}
	return bonuses, nil
}

// ListAll returns the full ledger newest first, with beneficiary and
// reviewer info joined in for the manager view.
func (r *BonusRepository) ListAll(ctx context.Context) ([]*models.Bonus, error) {
	const query = `SELECT b.id, b.user_id, b.amount, b.type, b.reason, b.period, b.status, b.reviewer_id, b.reviewed_at, b.created_at,
       u.email AS requester_email, u.full_name AS requester_name, u.role AS requester_role,
       rev.email AS reviewer_email
FROM bonuses b
JOIN users u ON u.id = b.user_id
LEFT JOIN users rev ON rev.id = b.reviewer_id
ORDER BY b.created_at DESC`
	var bonuses []*models.Bonus
	if err := r.db.SelectContext(ctx, &bonuses, query); err != nil {
		return nil, fmt.Errorf("list all bonuses: %w", err)
	}
	return bonuses, nil
}

// Stats aggregates approved and pending totals for the dashboard.
func (r *BonusRepository) Stats(ctx context.Context) (*models.BonusStats, error) {
	const query = `SELECT
       COALESCE(SUM(amount) FILTER (WHERE status = 'APPROVED'), 0) AS total_approved,
       COALESCE(SUM(amount) FILTER (WHERE status = 'PENDING'), 0)  AS total_pending,
       COUNT(*) FILTER (WHERE status = 'PENDING')                  AS pending_count
FROM bonuses`
	var stats models.BonusStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("bonus stats: %w", err)
	}
	stats.TotalAllocated = stats.TotalApproved + stats.TotalPending
	return &stats, nil
}

// MarkDecided finalizes a pending bonus. Conditional on PENDING status.
func (r *BonusRepository) MarkDecided(ctx context.Context, id string, status models.ReviewStatus, reviewerID string, decidedAt time.Time, _ *string) error {
	const query = `UPDATE bonuses SET status = $2, reviewer_id = $3, reviewed_at = $4
WHERE id = $1 AND status = 'PENDING'`
	result, err := r.db.ExecContext(ctx, query, id, status, reviewerID, decidedAt)
	if err != nil {
		return fmt.Errorf("decide bonus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check bonus decision rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Remove deletes a bonus. Present for store symmetry; bonuses have no
// cancel capability so the engine never reaches it.
func (r *BonusRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM bonuses WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete bonus: %w", err)
	}
	return nil
}

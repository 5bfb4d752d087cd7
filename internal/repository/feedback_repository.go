package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flowdash/hr-ops-api/internal/models"
)

// FeedbackRepository persists feedback entries.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs the repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a feedback entry.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO feedback (id, user_id, message, is_anonymous, created_at)
VALUES (:id, :user_id, :message, :is_anonymous, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListAll returns every feedback entry newest first. Anonymous entries
// carry no author columns because user_id is NULL.
func (r *FeedbackRepository) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	const query = `SELECT f.id, f.user_id, f.message, f.is_anonymous, f.created_at,
       u.email AS author_email, u.role AS author_role
FROM feedback f
LEFT JOIN users u ON u.id = f.user_id
ORDER BY f.created_at DESC`
	var entries []*models.Feedback
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/flowdash/hr-ops-api/internal/models"
)

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// ListVisible returns announcements for the given audiences, pinned first
// then newest, with author info joined in.
func (r *AnnouncementRepository) ListVisible(ctx context.Context, audiences []models.AnnouncementAudience) ([]*models.Announcement, error) {
	values := make([]string, 0, len(audiences))
	for _, audience := range audiences {
		values = append(values, string(audience))
	}
	const query = `SELECT a.id, a.title, a.message, a.is_pinned, a.target_audience, a.author_id, a.created_at, a.updated_at,
       u.email AS author_email, u.role AS author_role
FROM announcements a
JOIN users u ON u.id = a.author_id
WHERE a.target_audience = ANY($1)
ORDER BY a.is_pinned DESC, a.created_at DESC`
	var announcements []*models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, pq.Array(values)); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// GetByID returns an announcement by identifier.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	const query = `SELECT id, title, message, is_pinned, target_audience, author_id, created_at, updated_at
FROM announcements WHERE id = $1`
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = now
	}
	announcement.UpdatedAt = now
	const query = `INSERT INTO announcements (id, title, message, is_pinned, target_audience, author_id, created_at, updated_at)
VALUES (:id, :title, :message, :is_pinned, :target_audience, :author_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// SetPinned toggles the pinned flag.
func (r *AnnouncementRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	const query = `UPDATE announcements SET is_pinned = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, pinned, time.Now().UTC()); err != nil {
		return fmt.Errorf("pin announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/workflow"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

type announcementStore interface {
	ListVisible(ctx context.Context, audiences []models.AnnouncementAudience) ([]*models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	Delete(ctx context.Context, id string) error
}

type announcementCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheObserver interface {
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveCacheWrite(duration time.Duration)
}

const announcementCachePrefix = "announcements:v1:"

// CreateAnnouncementRequest describes the create payload.
type CreateAnnouncementRequest struct {
	Title          string `json:"title" validate:"required"`
	Message        string `json:"message" validate:"required"`
	IsPinned       bool   `json:"isPinned"`
	TargetAudience string `json:"targetAudience" validate:"required,audience"`
}

// AnnouncementService serves the audience-scoped board with a Redis
// read-through cache in front of the repository.
type AnnouncementService struct {
	repo      announcementStore
	cache     announcementCache
	metrics   cacheObserver
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service. A nil cache disables the
// read-through layer entirely.
func NewAnnouncementService(repo announcementStore, cache announcementCache, metrics cacheObserver, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	svc := &AnnouncementService{
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
	svc.validator.RegisterValidation("audience", func(fl validator.FieldLevel) bool {
		switch models.AnnouncementAudience(strings.ToUpper(fl.Field().String())) {
		case models.AnnouncementAudienceAll, models.AnnouncementAudienceEmployees, models.AnnouncementAudienceManagers:
			return true
		default:
			return false
		}
	})
	return svc
}

// audiencesFor maps a role onto the audience segments it may read.
func audiencesFor(role models.UserRole) []models.AnnouncementAudience {
	if workflow.CanReview(role) {
		return []models.AnnouncementAudience{models.AnnouncementAudienceAll, models.AnnouncementAudienceManagers}
	}
	return []models.AnnouncementAudience{models.AnnouncementAudienceAll, models.AnnouncementAudienceEmployees}
}

// ListFor returns the announcements visible to the actor, pinned first.
// The second return value reports whether the result came from cache.
func (s *AnnouncementService) ListFor(ctx context.Context, actor *models.JWTClaims) ([]*models.Announcement, bool, error) {
	if actor == nil {
		return nil, false, appErrors.ErrUnauthorized
	}
	audiences := audiencesFor(actor.Role)
	key := s.cacheKey(audiences)

	if s.cache != nil {
		started := time.Now()
		var cached []*models.Announcement
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true, time.Since(started))
			}
			return cached, true, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false, time.Since(started))
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("announcement cache read failed", zap.Error(err))
		}
	}

	announcements, err := s.repo.ListVisible(ctx, audiences)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}

	if s.cache != nil {
		started := time.Now()
		if err := s.cache.Set(ctx, key, announcements, s.cacheTTL); err != nil {
			s.logger.Warn("announcement cache write failed", zap.Error(err))
		} else if s.metrics != nil {
			s.metrics.ObserveCacheWrite(time.Since(started))
		}
	}
	return announcements, false, nil
}

// Create publishes a new announcement authored by the actor.
func (s *AnnouncementService) Create(ctx context.Context, actor *models.JWTClaims, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !workflow.CanAuthor(actor.Role, workflow.CapabilityAnnouncement) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can publish announcements")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	announcement := &models.Announcement{
		Title:          req.Title,
		Message:        req.Message,
		IsPinned:       req.IsPinned,
		TargetAudience: models.AnnouncementAudience(strings.ToUpper(req.TargetAudience)),
		AuthorID:       actor.UserID,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.invalidate(ctx)
	return announcement, nil
}

// SetPinned toggles an announcement's pinned flag.
func (s *AnnouncementService) SetPinned(ctx context.Context, actor *models.JWTClaims, id string, pinned bool) (*models.Announcement, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !workflow.CanAuthor(actor.Role, workflow.CapabilityAnnouncement) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can pin announcements")
	}
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	if err := s.repo.SetPinned(ctx, id, pinned); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pin announcement")
	}
	announcement.IsPinned = pinned
	s.invalidate(ctx)
	return announcement, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !workflow.CanAuthor(actor.Role, workflow.CapabilityAnnouncement) {
		return appErrors.Clone(appErrors.ErrForbidden, "only managers can delete announcements")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	s.invalidate(ctx)
	return nil
}

func (s *AnnouncementService) cacheKey(audiences []models.AnnouncementAudience) string {
	parts := make([]string, 0, len(audiences))
	for _, audience := range audiences {
		parts = append(parts, string(audience))
	}
	return announcementCachePrefix + strings.Join(parts, ",")
}

func (s *AnnouncementService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, announcementCachePrefix+"*"); err != nil {
		s.logger.Warn("announcement cache invalidation failed", zap.Error(err))
	}
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/workflow"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

type feedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListAll(ctx context.Context) ([]*models.Feedback, error)
}

// CreateFeedbackRequest describes the submit payload.
type CreateFeedbackRequest struct {
	Message     string `json:"message" validate:"required"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// FeedbackService stores employee feedback. Anonymous submissions drop the
// author link before the row is written, so even the database cannot name
// the author.
type FeedbackService struct {
	repo      feedbackStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs the service.
func NewFeedbackService(repo feedbackStore, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, validator: validate, logger: logger}
}

// Submit stores a feedback entry from the actor.
func (s *FeedbackService) Submit(ctx context.Context, actor *models.JWTClaims, req CreateFeedbackRequest) (*models.Feedback, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	feedback := &models.Feedback{
		Message:     req.Message,
		IsAnonymous: req.IsAnonymous,
	}
	if !req.IsAnonymous {
		userID := actor.UserID
		feedback.UserID = &userID
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}
	return feedback, nil
}

// All returns every feedback entry for managers, newest first.
func (s *FeedbackService) All(ctx context.Context, actor *models.JWTClaims) ([]*models.Feedback, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !workflow.CanReview(actor.Role) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can read feedback")
	}
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return entries, nil
}

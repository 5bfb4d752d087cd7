package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/workflow"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

// CreateOvertimeRequest describes the submit payload. Hours are bounded at
// a full day; the one-request-per-date rule is enforced by the store.
type CreateOvertimeRequest struct {
	Date   time.Time `json:"date" validate:"required"`
	Hours  float64   `json:"hours" validate:"required,gt=0,lte=24"`
	Reason string    `json:"reason" validate:"required"`
}

// OvertimeService validates overtime payloads and delegates the lifecycle
// to the workflow engine. Requesters may cancel while still pending.
type OvertimeService struct {
	engine    *workflow.Engine[*models.OvertimeRequest]
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOvertimeService constructs the service.
func NewOvertimeService(engine *workflow.Engine[*models.OvertimeRequest], validate *validator.Validate, logger *zap.Logger) *OvertimeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OvertimeService{engine: engine, validator: validate, logger: logger}
}

// Submit files a new overtime request on behalf of the actor.
func (s *OvertimeService) Submit(ctx context.Context, actor *models.JWTClaims, req CreateOvertimeRequest) (*models.OvertimeRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid overtime payload")
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	overtime := &models.OvertimeRequest{
		UserID: actor.UserID,
		Date:   req.Date,
		Hours:  req.Hours,
		Reason: req.Reason,
	}
	if err := s.engine.Submit(ctx, actor, overtime); err != nil {
		return nil, err
	}
	return overtime, nil
}

// Mine lists the actor's own overtime requests.
func (s *OvertimeService) Mine(ctx context.Context, actor *models.JWTClaims) ([]*models.OvertimeRequest, error) {
	return s.engine.ListMine(ctx, actor)
}

// Pending lists the review queue for managers.
func (s *OvertimeService) Pending(ctx context.Context, actor *models.JWTClaims) ([]*models.OvertimeRequest, error) {
	return s.engine.ListPending(ctx, actor)
}

// Decide approves or rejects a pending overtime request, storing optional
// reviewer remarks alongside the decision.
func (s *OvertimeService) Decide(ctx context.Context, actor *models.JWTClaims, id string, req DecideRequest) (*models.OvertimeRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	return s.engine.Decide(ctx, actor, id, req.Status, req.Remarks)
}

// Cancel deletes the actor's own still-pending overtime request.
func (s *OvertimeService) Cancel(ctx context.Context, actor *models.JWTClaims, id string) error {
	return s.engine.Cancel(ctx, actor, id)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/workflow"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

// CreateLeaveRequest describes the submit payload.
type CreateLeaveRequest struct {
	Type      string    `json:"type" validate:"required,leave_type"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

// DecideRequest carries a review decision for any request type.
type DecideRequest struct {
	Status  string  `json:"status" validate:"required"`
	Remarks *string `json:"remarks,omitempty"`
}

// LeaveService validates leave payloads and delegates the lifecycle to the
// workflow engine.
type LeaveService struct {
	engine    *workflow.Engine[*models.LeaveRequest]
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs the service.
func NewLeaveService(engine *workflow.Engine[*models.LeaveRequest], validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &LeaveService{engine: engine, validator: validate, logger: logger}
	svc.validator.RegisterValidation("leave_type", func(fl validator.FieldLevel) bool {
		switch models.LeaveType(strings.ToUpper(fl.Field().String())) {
		case models.LeaveTypeAnnual, models.LeaveTypeSick, models.LeaveTypeUnpaid, models.LeaveTypeOther:
			return true
		default:
			return false
		}
	})
	return svc
}

// Submit files a new leave request on behalf of the actor.
func (s *LeaveService) Submit(ctx context.Context, actor *models.JWTClaims, req CreateLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	leave := &models.LeaveRequest{
		UserID:    actor.UserID,
		Type:      models.LeaveType(strings.ToUpper(req.Type)),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	}
	if err := s.engine.Submit(ctx, actor, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

// Mine lists the actor's own leave requests.
func (s *LeaveService) Mine(ctx context.Context, actor *models.JWTClaims) ([]*models.LeaveRequest, error) {
	return s.engine.ListMine(ctx, actor)
}

// Pending lists the review queue for managers.
func (s *LeaveService) Pending(ctx context.Context, actor *models.JWTClaims) ([]*models.LeaveRequest, error) {
	return s.engine.ListPending(ctx, actor)
}

// Decide approves or rejects a pending leave request.
func (s *LeaveService) Decide(ctx context.Context, actor *models.JWTClaims, id string, req DecideRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	return s.engine.Decide(ctx, actor, id, req.Status, nil)
}

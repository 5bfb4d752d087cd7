package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/workflow"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
	"github.com/flowdash/hr-ops-api/pkg/export"
)

type bonusLedger interface {
	ListAll(ctx context.Context) ([]*models.Bonus, error)
	Stats(ctx context.Context) (*models.BonusStats, error)
}

type candidateDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
}

// CreateBonusRequest describes the assignment payload. UserID names the
// beneficiary, not the assigning manager.
type CreateBonusRequest struct {
	UserID string    `json:"userId" validate:"required"`
	Amount float64   `json:"amount" validate:"required,gt=0"`
	Type   string    `json:"type" validate:"required"`
	Reason string    `json:"reason" validate:"required"`
	Period time.Time `json:"period" validate:"required"`
}

// BonusService validates bonus payloads, delegates the lifecycle to the
// workflow engine and serves the manager-side ledger views.
type BonusService struct {
	engine    *workflow.Engine[*models.Bonus]
	ledger    bonusLedger
	directory candidateDirectory
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBonusService constructs the service.
func NewBonusService(engine *workflow.Engine[*models.Bonus], ledger bonusLedger, directory candidateDirectory, validate *validator.Validate, logger *zap.Logger) *BonusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BonusService{
		engine:    engine,
		ledger:    ledger,
		directory: directory,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// Assign creates a pending bonus for the named beneficiary.
func (s *BonusService) Assign(ctx context.Context, actor *models.JWTClaims, req CreateBonusRequest) (*models.Bonus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bonus payload")
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if _, err := s.directory.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "beneficiary not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify beneficiary")
	}
	bonus := &models.Bonus{
		UserID: req.UserID,
		Amount: req.Amount,
		Type:   strings.ToUpper(req.Type),
		Reason: req.Reason,
		Period: req.Period,
	}
	if err := s.engine.Submit(ctx, actor, bonus); err != nil {
		return nil, err
	}
	return bonus, nil
}

// Mine lists bonuses awarded to the actor.
func (s *BonusService) Mine(ctx context.Context, actor *models.JWTClaims) ([]*models.Bonus, error) {
	return s.engine.ListMine(ctx, actor)
}

// Pending lists the review queue for managers.
func (s *BonusService) Pending(ctx context.Context, actor *models.JWTClaims) ([]*models.Bonus, error) {
	return s.engine.ListPending(ctx, actor)
}

// Decide approves or rejects a pending bonus.
func (s *BonusService) Decide(ctx context.Context, actor *models.JWTClaims, id string, req DecideRequest) (*models.Bonus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	return s.engine.Decide(ctx, actor, id, req.Status, nil)
}

// All returns the full bonus ledger for managers.
func (s *BonusService) All(ctx context.Context, actor *models.JWTClaims) ([]*models.Bonus, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !workflow.CanReview(actor.Role) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can view the bonus ledger")
	}
	bonuses, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bonuses")
	}
	return bonuses, nil
}

// Stats returns ledger aggregates for the manager dashboard.
func (s *BonusService) Stats(ctx context.Context, actor *models.JWTClaims) (*models.BonusStats, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !workflow.CanReview(actor.Role) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can view bonus statistics")
	}
	stats, err := s.ledger.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute bonus statistics")
	}
	return stats, nil
}

// Candidates returns active users selectable as beneficiaries.
func (s *BonusService) Candidates(ctx context.Context, actor *models.JWTClaims) ([]models.Candidate, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !workflow.CanReview(actor.Role) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can list candidates")
	}
	candidates, err := s.directory.ListCandidates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list candidates")
	}
	return candidates, nil
}

// Export renders the full ledger as CSV or PDF bytes.
func (s *BonusService) Export(ctx context.Context, actor *models.JWTClaims, format string) ([]byte, string, error) {
	bonuses, err := s.All(ctx, actor)
	if err != nil {
		return nil, "", err
	}
	dataset := export.Dataset{
		Headers: []string{"Beneficiary", "Amount", "Type", "Period", "Status", "Reviewer", "Created"},
	}
	for _, bonus := range bonuses {
		beneficiary := bonus.UserID
		if bonus.RequesterName != nil {
			beneficiary = *bonus.RequesterName
		}
		reviewer := ""
		if bonus.ReviewerEmail != nil {
			reviewer = *bonus.ReviewerEmail
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Beneficiary": beneficiary,
			"Amount":      fmt.Sprintf("%.2f", bonus.Amount),
			"Type":        bonus.Type,
			"Period":      bonus.Period.Format("2006-01"),
			"Status":      string(bonus.Status),
			"Reviewer":    reviewer,
			"Created":     bonus.CreatedAt.Format(time.RFC3339),
		})
	}
	switch strings.ToLower(format) {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Bonus Ledger")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

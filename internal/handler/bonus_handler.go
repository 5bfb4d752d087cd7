package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/service"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
	"github.com/flowdash/hr-ops-api/pkg/response"
)

type bonusService interface {
	Assign(ctx context.Context, actor *models.JWTClaims, req service.CreateBonusRequest) (*models.Bonus, error)
	Mine(ctx context.Context, actor *models.JWTClaims) ([]*models.Bonus, error)
	Pending(ctx context.Context, actor *models.JWTClaims) ([]*models.Bonus, error)
	Decide(ctx context.Context, actor *models.JWTClaims, id string, req service.DecideRequest) (*models.Bonus, error)
	All(ctx context.Context, actor *models.JWTClaims) ([]*models.Bonus, error)
	Stats(ctx context.Context, actor *models.JWTClaims) (*models.BonusStats, error)
	Candidates(ctx context.Context, actor *models.JWTClaims) ([]models.Candidate, error)
	Export(ctx context.Context, actor *models.JWTClaims, format string) ([]byte, string, error)
}

// BonusHandler exposes REST endpoints for the bonus workflow.
type BonusHandler struct {
	service bonusService
}

// NewBonusHandler constructs the handler.
func NewBonusHandler(service bonusService) *BonusHandler {
	return &BonusHandler{service: service}
}

// Create godoc
// @Summary Assign a bonus to a beneficiary
// @Tags Bonuses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateBonusRequest true "Bonus payload"
// @Success 201 {object} response.Envelope
// @Router /bonuses [post]
func (h *BonusHandler) Create(c *gin.Context) {
	var req service.CreateBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bonus payload"))
		return
	}
	bonus, err := h.service.Assign(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, bonus, nil)
}

// Mine godoc
// @Summary List bonuses awarded to the caller
// @Tags Bonuses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /bonuses/my [get]
func (h *BonusHandler) Mine(c *gin.Context) {
	bonuses, err := h.service.Mine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bonuses, nil)
}

// Pending godoc
// @Summary List pending bonuses for review
// @Tags Bonuses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /bonuses/pending [get]
func (h *BonusHandler) Pending(c *gin.Context) {
	bonuses, err := h.service.Pending(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bonuses, nil)
}

// All godoc
// @Summary List the full bonus ledger
// @Tags Bonuses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /bonuses [get]
func (h *BonusHandler) All(c *gin.Context) {
	bonuses, err := h.service.All(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bonuses, nil)
}

// Stats godoc
// @Summary Bonus ledger aggregates
// @Tags Bonuses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /bonuses/stats [get]
func (h *BonusHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Candidates godoc
// @Summary List beneficiary candidates
// @Tags Bonuses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /bonuses/candidates [get]
func (h *BonusHandler) Candidates(c *gin.Context) {
	candidates, err := h.service.Candidates(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}

// Decide godoc
// @Summary Approve or reject a pending bonus
// @Tags Bonuses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bonus ID"
// @Param payload body service.DecideRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /bonuses/{id}/status [patch]
func (h *BonusHandler) Decide(c *gin.Context) {
	var req service.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	bonus, err := h.service.Decide(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bonus, nil)
}

// Export godoc
// @Summary Export the bonus ledger
// @Tags Bonuses
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /bonuses/export [get]
func (h *BonusHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.Export(c.Request.Context(), claimsFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("bonuses-%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/service"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
	"github.com/flowdash/hr-ops-api/pkg/response"
)

type overtimeService interface {
	Submit(ctx context.Context, actor *models.JWTClaims, req service.CreateOvertimeRequest) (*models.OvertimeRequest, error)
	Mine(ctx context.Context, actor *models.JWTClaims) ([]*models.OvertimeRequest, error)
	Pending(ctx context.Context, actor *models.JWTClaims) ([]*models.OvertimeRequest, error)
	Decide(ctx context.Context, actor *models.JWTClaims, id string, req service.DecideRequest) (*models.OvertimeRequest, error)
	Cancel(ctx context.Context, actor *models.JWTClaims, id string) error
}

// OvertimeHandler exposes REST endpoints for the overtime workflow.
type OvertimeHandler struct {
	service overtimeService
}

// NewOvertimeHandler constructs the handler.
func NewOvertimeHandler(service overtimeService) *OvertimeHandler {
	return &OvertimeHandler{service: service}
}

// Create godoc
// @Summary Submit an overtime request
// @Tags Overtime
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateOvertimeRequest true "Overtime payload"
// @Success 201 {object} response.Envelope
// @Router /overtime [post]
func (h *OvertimeHandler) Create(c *gin.Context) {
	var req service.CreateOvertimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid overtime payload"))
		return
	}
	overtime, err := h.service.Submit(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, overtime, nil)
}

// Mine godoc
// @Summary List the caller's overtime requests
// @Tags Overtime
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /overtime/my [get]
func (h *OvertimeHandler) Mine(c *gin.Context) {
	requests, err := h.service.Mine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Pending godoc
// @Summary List pending overtime requests for review
// @Tags Overtime
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /overtime/pending [get]
func (h *OvertimeHandler) Pending(c *gin.Context) {
	requests, err := h.service.Pending(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Decide godoc
// @Summary Approve or reject an overtime request
// @Tags Overtime
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Overtime request ID"
// @Param payload body service.DecideRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /overtime/{id}/status [patch]
func (h *OvertimeHandler) Decide(c *gin.Context) {
	var req service.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	overtime, err := h.service.Decide(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overtime, nil)
}

// Cancel godoc
// @Summary Cancel the caller's pending overtime request
// @Tags Overtime
// @Security BearerAuth
// @Param id path string true "Overtime request ID"
// @Success 204
// @Router /overtime/{id} [delete]
func (h *OvertimeHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

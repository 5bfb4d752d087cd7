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

type leaveService interface {
	Submit(ctx context.Context, actor *models.JWTClaims, req service.CreateLeaveRequest) (*models.LeaveRequest, error)
	Mine(ctx context.Context, actor *models.JWTClaims) ([]*models.LeaveRequest, error)
	Pending(ctx context.Context, actor *models.JWTClaims) ([]*models.LeaveRequest, error)
	Decide(ctx context.Context, actor *models.JWTClaims, id string, req service.DecideRequest) (*models.LeaveRequest, error)
}

// LeaveHandler exposes REST endpoints for the leave workflow.
type LeaveHandler struct {
	service leaveService
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(service leaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

// Create godoc
// @Summary Submit a leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	var req service.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave payload"))
		return
	}
	leave, err := h.service.Submit(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, leave, nil)
}

// Mine godoc
// @Summary List the caller's leave requests
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /leaves/my [get]
func (h *LeaveHandler) Mine(c *gin.Context) {
	leaves, err := h.service.Mine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// Pending godoc
// @Summary List pending leave requests for review
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /leaves/pending [get]
func (h *LeaveHandler) Pending(c *gin.Context) {
	leaves, err := h.service.Pending(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// Decide godoc
// @Summary Approve or reject a leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave request ID"
// @Param payload body service.DecideRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/status [patch]
func (h *LeaveHandler) Decide(c *gin.Context) {
	var req service.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	leave, err := h.service.Decide(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

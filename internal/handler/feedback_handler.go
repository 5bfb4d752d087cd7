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

type feedbackService interface {
	Submit(ctx context.Context, actor *models.JWTClaims, req service.CreateFeedbackRequest) (*models.Feedback, error)
	All(ctx context.Context, actor *models.JWTClaims) ([]*models.Feedback, error)
}

// FeedbackHandler exposes REST endpoints for employee feedback.
type FeedbackHandler struct {
	service feedbackService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(service feedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Create godoc
// @Summary Submit feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateFeedbackRequest true "Feedback payload"
// @Success 201 {object} response.Envelope
// @Router /feedback [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	var req service.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid feedback payload"))
		return
	}
	feedback, err := h.service.Submit(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, feedback, nil)
}

// All godoc
// @Summary List all feedback entries
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /feedback [get]
func (h *FeedbackHandler) All(c *gin.Context) {
	entries, err := h.service.All(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowdash/hr-ops-api/internal/middleware"
	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/service"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
	"github.com/flowdash/hr-ops-api/pkg/response"
)

type announcementService interface {
	ListFor(ctx context.Context, actor *models.JWTClaims) ([]*models.Announcement, bool, error)
	Create(ctx context.Context, actor *models.JWTClaims, req service.CreateAnnouncementRequest) (*models.Announcement, error)
	SetPinned(ctx context.Context, actor *models.JWTClaims, id string, pinned bool) (*models.Announcement, error)
	Delete(ctx context.Context, actor *models.JWTClaims, id string) error
}

type pinRequest struct {
	IsPinned bool `json:"isPinned"`
}

// AnnouncementHandler exposes REST endpoints for the announcement board.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// List godoc
// @Summary List announcements visible to the caller
// @Tags Announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	announcements, cacheHit, err := h.service.ListFor(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, announcements, nil, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Publish an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid announcement payload"))
		return
	}
	announcement, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, announcement, nil)
}

// Pin godoc
// @Summary Pin or unpin an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Param payload body pinRequest true "Pin flag"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/pin [patch]
func (h *AnnouncementHandler) Pin(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pin payload"))
		return
	}
	announcement, err := h.service.SetPinned(c.Request.Context(), claimsFromContext(c), c.Param("id"), req.IsPinned)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement, nil)
}

// Delete godoc
// @Summary Delete an announcement
// @Tags Announcements
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Success 204
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/models"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
	"github.com/planify-app/planify-api/pkg/response"
)

type selectionService interface {
	View(ctx context.Context, userID string) (*dto.SelectionView, error)
	Toggle(ctx context.Context, userID string, section models.Section) (*dto.SelectionView, error)
	Replace(ctx context.Context, userID string, sections []models.Section) (*dto.SelectionView, error)
	Clear(ctx context.Context, userID string) (*dto.SelectionView, error)
	Conflicts(ctx context.Context, userID string) ([]models.Conflict, error)
	Stats(ctx context.Context, userID string) (*models.ScheduleStats, error)
}

// SelectionHandler exposes the per-user working selection.
type SelectionHandler struct {
	service selectionService
}

// NewSelectionHandler constructs the handler.
func NewSelectionHandler(service selectionService) *SelectionHandler {
	return &SelectionHandler{service: service}
}

// View godoc
// @Summary Current selection with conflicts and stats
// @Tags Selection
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /selection [get]
func (h *SelectionHandler) View(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.View(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Toggle godoc
// @Summary Toggle a section in the selection
// @Description Adds the section when absent, removes it when present. Identity is code plus class.
// @Tags Selection
// @Accept json
// @Produce json
// @Param payload body dto.ToggleSectionRequest true "Section to toggle"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /selection/toggle [post]
func (h *SelectionHandler) Toggle(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ToggleSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid toggle payload"))
		return
	}

	view, err := h.service.Toggle(c.Request.Context(), claims.UserID, req.Section)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Replace godoc
// @Summary Replace the whole selection
// @Tags Selection
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceSelectionRequest true "New selection"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /selection [put]
func (h *SelectionHandler) Replace(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ReplaceSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}

	view, err := h.service.Replace(c.Request.Context(), claims.UserID, req.Sections)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Clear godoc
// @Summary Clear the selection
// @Tags Selection
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /selection [delete]
func (h *SelectionHandler) Clear(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.Clear(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Conflicts godoc
// @Summary Pairwise time conflicts in the selection
// @Tags Selection
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /selection/conflicts [get]
func (h *SelectionHandler) Conflicts(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	conflicts, err := h.service.Conflicts(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// Stats godoc
// @Summary Load statistics for the selection
// @Tags Selection
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /selection/stats [get]
func (h *SelectionHandler) Stats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

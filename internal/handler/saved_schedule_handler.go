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

type savedScheduleService interface {
	Save(ctx context.Context, userID string, req dto.SaveScheduleRequest) (*models.SavedSchedule, error)
	List(ctx context.Context, userID string) ([]models.SavedSchedule, error)
	Get(ctx context.Context, userID, id string) (*models.SavedSchedule, error)
	Load(ctx context.Context, userID, id string) (*dto.SelectionView, error)
	Delete(ctx context.Context, userID, id string) error
}

// SavedScheduleHandler exposes persisted schedule snapshots.
type SavedScheduleHandler struct {
	service savedScheduleService
}

// NewSavedScheduleHandler constructs the handler.
func NewSavedScheduleHandler(service savedScheduleService) *SavedScheduleHandler {
	return &SavedScheduleHandler{service: service}
}

// List godoc
// @Summary List saved schedules
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules [get]
func (h *SavedScheduleHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	schedules, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Save godoc
// @Summary Save a schedule snapshot
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.SaveScheduleRequest true "Schedule to save"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules [post]
func (h *SavedScheduleHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	schedule, err := h.service.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Get godoc
// @Summary Get one saved schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/{id} [get]
func (h *SavedScheduleHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	schedule, err := h.service.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Load godoc
// @Summary Load a saved schedule into the selection
// @Description Replaces the live selection with the saved snapshot.
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/{id}/load [post]
func (h *SavedScheduleHandler) Load(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.Load(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Delete godoc
// @Summary Delete a saved schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/{id} [delete]
func (h *SavedScheduleHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

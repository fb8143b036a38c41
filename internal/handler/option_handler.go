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

type optionService interface {
	Normalize(ctx context.Context, userID string, req dto.NormalizeOptionsRequest) (*models.OptionBatchResult, error)
	Apply(ctx context.Context, userID string, req dto.ApplyOptionRequest) (*dto.SelectionView, error)
}

// OptionHandler exposes candidate schedule normalization.
type OptionHandler struct {
	service optionService
}

// NewOptionHandler constructs the handler.
func NewOptionHandler(service optionService) *OptionHandler {
	return &OptionHandler{service: service}
}

// Normalize godoc
// @Summary Normalize candidate schedules
// @Description Validates a batch of externally generated schedules. Malformed options are rejected individually while their siblings go through.
// @Tags Options
// @Accept json
// @Produce json
// @Param payload body dto.NormalizeOptionsRequest true "Candidate schedule batch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /options/normalize [post]
func (h *OptionHandler) Normalize(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.NormalizeOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid options payload"))
		return
	}

	result, err := h.service.Normalize(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Apply godoc
// @Summary Apply a normalized option
// @Description Replaces the live selection with a previously normalized option.
// @Tags Options
// @Accept json
// @Produce json
// @Param payload body dto.ApplyOptionRequest true "Option ordinal"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /options/apply [post]
func (h *OptionHandler) Apply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ApplyOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid apply payload"))
		return
	}

	view, err := h.service.Apply(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

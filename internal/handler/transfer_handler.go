package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/service"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
	"github.com/planify-app/planify-api/pkg/response"
)

type transferService interface {
	Export(ctx context.Context, userID, scheduleName string, format service.ExportFormat) (*service.ExportFile, error)
	Import(ctx context.Context, userID string, payload []byte, target dto.ImportTarget) (*dto.ImportResult, error)
}

// TransferHandler moves schedules in and out of the application.
type TransferHandler struct {
	service transferService
}

// NewTransferHandler constructs the handler.
func NewTransferHandler(service transferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// Export godoc
// @Summary Export the current selection
// @Description Renders the selection as a downloadable json, csv or pdf file.
// @Tags Transfer
// @Produce json
// @Param format query string false "Export format: json, csv or pdf" default(json)
// @Param name query string false "Schedule name embedded in the export"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /transfer/export [get]
func (h *TransferHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "json"))
	file, err := h.service.Export(c.Request.Context(), claims.UserID, c.Query("name"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Import godoc
// @Summary Import a schedule or catalog file
// @Description Schedule files replace the live selection; catalog files upsert sections. The two file shapes are not interchangeable.
// @Tags Transfer
// @Accept json
// @Produce json
// @Param target query string true "Import target: schedule or catalog"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /transfer/import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read payload"))
		return
	}
	if len(payload) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "empty payload"))
		return
	}

	target := dto.ImportTarget(c.DefaultQuery("target", string(dto.ImportTargetSchedule)))
	result, err := h.service.Import(c.Request.Context(), claims.UserID, payload, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

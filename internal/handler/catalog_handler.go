package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/planify-app/planify-api/internal/models"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
	"github.com/planify-app/planify-api/pkg/response"
)

type catalogService interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.Section, *models.Pagination, bool, error)
	Grouped(ctx context.Context, filter models.SectionFilter) ([]models.SectionGroup, error)
	Section(ctx context.Context, id string) (*models.Section, error)
	Import(ctx context.Context, sections []models.Section) (int, error)
}

// CatalogHandler exposes the course section catalog.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func catalogFilterFromQuery(c *gin.Context) models.SectionFilter {
	var filter models.SectionFilter
	filter.Search = c.Query("search")
	filter.Semester = c.Query("semester")
	filter.Class = c.Query("class")
	filter.Day = c.Query("day")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// List godoc
// @Summary List catalog sections
// @Tags Catalog
// @Produce json
// @Param search query string false "Search by name, code or lecturer"
// @Param semester query string false "Filter by semester, 'all' disables the filter"
// @Param class query string false "Filter by class label, 'all' disables the filter"
// @Param day query string false "Filter by day"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	sections, pagination, cacheHit, err := h.service.List(c.Request.Context(), catalogFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, pagination, map[string]interface{}{"cache_hit": cacheHit})
}

// Grouped godoc
// @Summary List catalog sections grouped by course code
// @Tags Catalog
// @Produce json
// @Param search query string false "Search by name, code or lecturer"
// @Param semester query string false "Filter by semester"
// @Param day query string false "Filter by day"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog/grouped [get]
func (h *CatalogHandler) Grouped(c *gin.Context) {
	groups, err := h.service.Grouped(c.Request.Context(), catalogFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Get godoc
// @Summary Get one catalog section
// @Tags Catalog
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	section, err := h.service.Section(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Import godoc
// @Summary Bulk import catalog sections
// @Description Upsert section records into the catalog. Admin only.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body []models.Section true "Sections"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog/import [post]
func (h *CatalogHandler) Import(c *gin.Context) {
	var sections []models.Section
	if err := c.ShouldBindJSON(&sections); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
		return
	}

	count, err := h.service.Import(c.Request.Context(), sections)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": count}, nil)
}

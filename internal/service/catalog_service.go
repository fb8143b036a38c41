package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/planify-app/planify-api/pkg/errors"

	"github.com/planify-app/planify-api/internal/models"
	"github.com/planify-app/planify-api/internal/timetable"
)

// CatalogRepository describes the persistence layer required by CatalogService.
type CatalogRepository interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.Section, int, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
	BulkUpsert(ctx context.Context, sections []models.Section) error
}

// CatalogService provides read-optimised access to the section catalog with
// cache integration, plus bulk import for catalog refreshes.
type CatalogService struct {
	repo     CatalogRepository
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewCatalogService constructs a catalog service.
func NewCatalogService(repo CatalogRepository, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL}
}

type catalogPage struct {
	Sections []models.Section `json:"sections"`
	Total    int              `json:"total"`
}

// List returns a filtered, paginated slice of the catalog. The boolean
// indicates whether data originated from cache.
func (s *CatalogService) List(ctx context.Context, filter models.SectionFilter) ([]models.Section, *models.Pagination, bool, error) {
	cacheKey := makeCatalogCacheKey("list",
		filter.Search, filter.Semester, filter.Class, filter.Day,
		strconv.Itoa(filter.Page), strconv.Itoa(filter.PageSize),
		filter.SortBy, filter.SortOrder)

	var cached catalogPage
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, nil, false, fmt.Errorf("get catalog cache: %w", err)
		} else if hit {
			return cached.Sections, s.pagination(filter, cached.Total), true, nil
		}
	}

	start := time.Now()
	sections, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catalog")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("catalog_list", time.Since(start))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, catalogPage{Sections: sections, Total: total}, s.cacheTTL); err != nil {
			s.logger.Warn("cache catalog list", zap.Error(err))
		}
	}
	return sections, s.pagination(filter, total), false, nil
}

// Grouped returns the filtered catalog grouped by course code, each group
// carrying its class sections sorted by label.
func (s *CatalogService) Grouped(ctx context.Context, filter models.SectionFilter) ([]models.SectionGroup, error) {
	filter.Page = 1
	filter.PageSize = 200
	cacheKey := makeCatalogCacheKey("grouped", filter.Search, filter.Semester, filter.Class, filter.Day)

	var cached []models.SectionGroup
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, fmt.Errorf("get grouped cache: %w", err)
		} else if hit {
			return cached, nil
		}
	}

	start := time.Now()
	sections, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catalog")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("catalog_grouped", time.Since(start))
	}

	groups := timetable.GroupByCode(sections)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, groups, s.cacheTTL); err != nil {
			s.logger.Warn("cache catalog groups", zap.Error(err))
		}
	}
	return groups, nil
}

// Section returns a single catalog entry by id.
func (s *CatalogService) Section(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}

// Import upserts the provided sections into the catalog and invalidates the
// catalog cache. All records are validated up front; a single malformed
// record rejects the whole batch.
func (s *CatalogService) Import(ctx context.Context, sections []models.Section) (int, error) {
	if len(sections) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no sections to import")
	}
	if issues := validateSections(sections); len(issues) > 0 {
		return 0, malformedSectionError(issues)
	}

	start := time.Now()
	if err := s.repo.BulkUpsert(ctx, sections); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import sections")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("catalog_import", time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "catalog:*"); err != nil {
			s.logger.Warn("invalidate catalog cache", zap.Error(err))
		}
	}
	s.logger.Info("catalog import completed", zap.Int("sections", len(sections)))
	return len(sections), nil
}

func (s *CatalogService) pagination(filter models.SectionFilter, total int) *models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 50
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

func makeCatalogCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("catalog")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}

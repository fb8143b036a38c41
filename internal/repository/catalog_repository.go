package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/planify-app/planify-api/internal/models"
)

const sectionColumns = "id, code, name, lecturer, credits, room, day, start_time, end_time, semester, category, class, created_at, updated_at"

// CatalogRepository provides persistence for the course-section catalog.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// List returns catalog sections with optional filtering and pagination.
func (r *CatalogRepository) List(ctx context.Context, filter models.SectionFilter) ([]models.Section, int, error) {
	base := "FROM course_sections WHERE 1=1"
	var conditions []string
	var args []interface{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d OR lecturer ILIKE $%d OR code || '-' || class ILIKE $%d)", idx, idx, idx, idx))
		args = append(args, "%"+search+"%")
	}
	if filter.Semester != "" && !strings.EqualFold(filter.Semester, "all") {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Class != "" && !strings.EqualFold(filter.Class, "all") {
		conditions = append(conditions, fmt.Sprintf("class = $%d", len(args)+1))
		args = append(args, filter.Class)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(day) = LOWER($%d)", len(args)+1))
		args = append(args, strings.TrimSpace(filter.Day))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"code":     true,
		"semester": true,
		"day":      true,
		"credits":  true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "code"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY semester ASC, %s %s, class ASC LIMIT %d OFFSET %d", sectionColumns, base, sortBy, order, size, offset)
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list catalog sections: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count catalog sections: %w", err)
	}

	return sections, total, nil
}

// FindByID loads one catalog section.
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*models.Section, error) {
	query := fmt.Sprintf("SELECT %s FROM course_sections WHERE id = $1", sectionColumns)
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// BulkUpsert inserts or refreshes catalog sections within a transaction,
// used by catalog imports.
func (r *CatalogRepository) BulkUpsert(ctx context.Context, sections []models.Section) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range sections {
		payload := sections[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err = tx.NamedExecContext(ctx, `INSERT INTO course_sections (id, code, name, lecturer, credits, room, day, start_time, end_time, semester, category, class, created_at, updated_at)
			VALUES (:id, :code, :name, :lecturer, :credits, :room, :day, :start_time, :end_time, :semester, :category, :class, :created_at, :updated_at)
			ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name, lecturer = EXCLUDED.lecturer, credits = EXCLUDED.credits, room = EXCLUDED.room, day = EXCLUDED.day, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, semester = EXCLUDED.semester, category = EXCLUDED.category, class = EXCLUDED.class, updated_at = EXCLUDED.updated_at`, &payload); err != nil {
			return fmt.Errorf("upsert catalog section: %w", err)
		}
		sections[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog upsert: %w", err)
	}
	return nil
}

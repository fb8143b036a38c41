package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/planify-app/planify-api/internal/models"
)

// SavedScheduleRepository persists named schedule snapshots per user.
type SavedScheduleRepository struct {
	db *sqlx.DB
}

// NewSavedScheduleRepository creates a saved-schedule repository.
func NewSavedScheduleRepository(db *sqlx.DB) *SavedScheduleRepository {
	return &SavedScheduleRepository{db: db}
}

// ListByUser returns the schedules saved by one user, newest first.
func (r *SavedScheduleRepository) ListByUser(ctx context.Context, userID string) ([]models.SavedSchedule, error) {
	const query = `SELECT id, user_id, name, total_credits, schedule_data, created_at, updated_at FROM saved_schedules WHERE user_id = $1 ORDER BY updated_at DESC`
	var schedules []models.SavedSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, userID); err != nil {
		return nil, fmt.Errorf("list saved schedules: %w", err)
	}
	return schedules, nil
}

// FindByID loads one saved schedule.
func (r *SavedScheduleRepository) FindByID(ctx context.Context, id string) (*models.SavedSchedule, error) {
	const query = `SELECT id, user_id, name, total_credits, schedule_data, created_at, updated_at FROM saved_schedules WHERE id = $1`
	var schedule models.SavedSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create stores a new saved schedule.
func (r *SavedScheduleRepository) Create(ctx context.Context, schedule *models.SavedSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO saved_schedules (id, user_id, name, total_credits, schedule_data, created_at, updated_at) VALUES (:id, :user_id, :name, :total_credits, :schedule_data, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create saved schedule: %w", err)
	}
	return nil
}

// Delete removes a saved schedule by id.
func (r *SavedScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved schedule: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

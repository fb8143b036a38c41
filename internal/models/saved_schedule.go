package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SavedSchedule is a named, persisted snapshot of a selection. The section
// payload is stored verbatim so a load replaces the live selection without
// translation.
type SavedSchedule struct {
	ID           string         `db:"id" json:"id"`
	UserID       string         `db:"user_id" json:"user_id"`
	Name         string         `db:"name" json:"schedule_name"`
	TotalCredits int            `db:"total_credits" json:"total_credits"`
	ScheduleData types.JSONText `db:"schedule_data" json:"schedule_data"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

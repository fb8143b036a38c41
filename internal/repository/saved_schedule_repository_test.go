package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planify-app/planify-api/internal/models"
)

func TestSavedScheduleRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "total_credits", "schedule_data", "created_at", "updated_at"}).
		AddRow("sch-1", "user-1", "Semester 3", 18, types.JSONText(`[]`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, total_credits, schedule_data, created_at, updated_at FROM saved_schedules WHERE user_id = $1 ORDER BY updated_at DESC")).
		WithArgs("user-1").
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Semester 3", list[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	mock.ExpectExec("INSERT INTO saved_schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))

	payload := &models.SavedSchedule{
		UserID:       "user-1",
		Name:         "Semester 3",
		TotalCredits: 18,
		ScheduleData: types.JSONText(`[]`),
	}
	err := repo.Create(context.Background(), payload)
	require.NoError(t, err)
	assert.NotEmpty(t, payload.ID)
	assert.False(t, payload.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_schedules WHERE id = $1")).
		WithArgs("sch-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "sch-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSavedScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_schedules WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(1, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

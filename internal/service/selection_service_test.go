package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/planify-app/planify-api/internal/models"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
)

type stubCacheRepo struct {
	store map[string][]byte
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	s.store = nil
	return nil
}

func fixtureSection(id, code, class, day, start, end string, credits int) models.Section {
	return models.Section{
		ID:        id,
		Code:      code,
		Name:      "Mata Kuliah " + code,
		Lecturer:  "Dr. Test",
		Credits:   credits,
		Room:      "R101",
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Semester:  "1",
		Category:  models.CategoryWajib,
		Class:     class,
	}
}

func newSelectionFixture() *SelectionService {
	return NewSelectionService(nil, nil, time.Hour, 40, zap.NewNop())
}

func TestSelectionToggleAddsAndRemoves(t *testing.T) {
	svc := newSelectionFixture()
	ctx := context.Background()
	section := fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3)

	view, err := svc.Toggle(ctx, "user-1", section)
	require.NoError(t, err)
	require.Len(t, view.Sections, 1)
	assert.Equal(t, 3, view.Stats.TotalCredits)

	view, err = svc.Toggle(ctx, "user-1", section)
	require.NoError(t, err)
	assert.Empty(t, view.Sections)
	assert.Equal(t, 0, view.Stats.TotalCredits)
}

func TestSelectionToggleMatchesByCodeAndClass(t *testing.T) {
	svc := newSelectionFixture()
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))
	require.NoError(t, err)

	// Same code and class but a different row id still toggles off.
	twin := fixtureSection("s2", "IF101", "A", "Selasa", "13:00", "15:00", 3)
	view, err := svc.Toggle(ctx, "user-1", twin)
	require.NoError(t, err)
	assert.Empty(t, view.Sections)
}

func TestSelectionToggleAllowsConflictingAdds(t *testing.T) {
	svc := newSelectionFixture()
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))
	require.NoError(t, err)

	view, err := svc.Toggle(ctx, "user-1", fixtureSection("s2", "IF102", "B", "Senin", "09:00", "11:00", 3))
	require.NoError(t, err)
	require.Len(t, view.Sections, 2)
	require.Len(t, view.Conflicts, 1)
	assert.Equal(t, "Senin", view.Conflicts[0].Day)
	assert.Equal(t, 1, view.Stats.Conflicts)
}

func TestSelectionToggleRejectsMalformed(t *testing.T) {
	svc := newSelectionFixture()
	bad := fixtureSection("s1", "IF101", "A", "Senin", "8am", "10:00", 3)

	_, err := svc.Toggle(context.Background(), "user-1", bad)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrMalformedSection.Code, appErr.Code)
}

func TestSelectionReplaceAndClear(t *testing.T) {
	svc := newSelectionFixture()
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))
	require.NoError(t, err)

	view, err := svc.Replace(ctx, "user-1", []models.Section{
		fixtureSection("s2", "IF201", "B", "Selasa", "10:00", "12:00", 2),
		fixtureSection("s3", "IF202", "A", "Rabu", "08:00", "09:00", 2),
	})
	require.NoError(t, err)
	require.Len(t, view.Sections, 2)
	assert.Equal(t, 4, view.Stats.TotalCredits)

	view, err = svc.Clear(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Sections)

	// Clearing an already empty selection is a no-op.
	view, err = svc.Clear(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Sections)
}

func TestSelectionIsolatedPerUser(t *testing.T) {
	svc := newSelectionFixture()
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))
	require.NoError(t, err)

	view, err := svc.View(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, view.Sections)
}

func TestSelectionRestoresFromSnapshot(t *testing.T) {
	cacheRepo := &stubCacheRepo{}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewSelectionService(cacheSvc, nil, time.Hour, 40, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))
	require.NoError(t, err)

	// Drop the in-memory state to simulate a restart; the cache snapshot
	// should bring the selection back.
	svc.store.Delete("user-1")

	view, err := svc.View(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "IF101", view.Sections[0].Code)
}

func TestSelectionStatsAndConflictsAccessors(t *testing.T) {
	svc := newSelectionFixture()
	ctx := context.Background()

	_, err := svc.Replace(ctx, "user-1", []models.Section{
		fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3),
		fixtureSection("s2", "IF102", "B", "Senin", "09:00", "11:00", 3),
	})
	require.NoError(t, err)

	conflicts, err := svc.Conflicts(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)

	stats, err := svc.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalCredits)
	assert.Equal(t, "Senin", stats.BusiestDay.Day)
}

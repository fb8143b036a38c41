package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/planify-app/planify-api/pkg/errors"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/models"
	"github.com/planify-app/planify-api/internal/timetable"
)

// SelectionService manages the per-user working selection of sections and
// derives conflicts and load statistics from it. State lives in memory with a
// TTL; when a cache backend is available each mutation also snapshots the
// selection so it survives restarts.
type SelectionService struct {
	store   *selectionStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	stats   timetable.StatsOptions
}

// NewSelectionService constructs a SelectionService.
func NewSelectionService(cache *CacheService, metrics *MetricsService, ttl time.Duration, weeklyHourBudget int, logger *zap.Logger) *SelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SelectionService{
		store:   newSelectionStore(ttl),
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		stats:   timetable.StatsOptions{WeeklyHourBudget: weeklyHourBudget},
	}
}

// View returns the current selection with derived conflicts and statistics.
func (s *SelectionService) View(ctx context.Context, userID string) (*dto.SelectionView, error) {
	sections := s.load(ctx, userID)
	return s.buildView(sections)
}

// Sections returns a copy of the raw selection without derived data.
func (s *SelectionService) Sections(ctx context.Context, userID string) ([]models.Section, error) {
	sections := s.load(ctx, userID)
	out := make([]models.Section, len(sections))
	copy(out, sections)
	return out, nil
}

// Toggle adds the section when absent and removes it when present. Identity
// is the code plus class label, so re-toggling the same payload is a no-op
// pair. Conflicting additions are allowed; conflicts are reported, never
// blocked.
func (s *SelectionService) Toggle(ctx context.Context, userID string, section models.Section) (*dto.SelectionView, error) {
	if issues := validateSection(section, 1); len(issues) > 0 {
		return nil, malformedSectionError(issues)
	}

	sections := s.load(ctx, userID)
	label := strings.ToLower(section.Label())
	next := make([]models.Section, 0, len(sections)+1)
	removed := false
	for _, existing := range sections {
		if strings.ToLower(existing.Label()) == label {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	if !removed {
		next = append(next, section)
	}

	s.persist(ctx, userID, next)
	s.logger.Debug("selection toggled",
		zap.String("userId", userID),
		zap.String("section", section.Label()),
		zap.Bool("removed", removed),
		zap.Int("size", len(next)))
	return s.buildView(next)
}

// Replace swaps the entire selection for the provided sections.
func (s *SelectionService) Replace(ctx context.Context, userID string, sections []models.Section) (*dto.SelectionView, error) {
	if issues := validateSections(sections); len(issues) > 0 {
		return nil, malformedSectionError(issues)
	}

	next := make([]models.Section, len(sections))
	copy(next, sections)
	s.persist(ctx, userID, next)
	s.logger.Debug("selection replaced", zap.String("userId", userID), zap.Int("size", len(next)))
	return s.buildView(next)
}

// Clear empties the selection. Clearing an already empty selection succeeds.
func (s *SelectionService) Clear(ctx context.Context, userID string) (*dto.SelectionView, error) {
	s.store.Delete(userID)
	if err := s.cache.Invalidate(ctx, s.snapshotKey(userID)); err != nil {
		s.logger.Warn("failed to drop selection snapshot", zap.String("userId", userID), zap.Error(err))
	}
	return s.buildView(nil)
}

// Conflicts returns only the pairwise conflicts of the current selection.
func (s *SelectionService) Conflicts(ctx context.Context, userID string) ([]models.Conflict, error) {
	view, err := s.View(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view.Conflicts, nil
}

// Stats returns only the load statistics of the current selection.
func (s *SelectionService) Stats(ctx context.Context, userID string) (*models.ScheduleStats, error) {
	view, err := s.View(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &view.Stats, nil
}

func (s *SelectionService) buildView(sections []models.Section) (*dto.SelectionView, error) {
	sorted := timetable.SortSections(sections)

	conflicts, err := timetable.DetectConflicts(sorted)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if s.metrics != nil {
		s.metrics.RecordConflictCheck(len(conflicts))
	}

	stats, err := timetable.ComputeStats(sorted, s.stats)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	return &dto.SelectionView{Sections: sorted, Conflicts: conflicts, Stats: stats}, nil
}

func (s *SelectionService) load(ctx context.Context, userID string) []models.Section {
	if sections, ok := s.store.Get(userID); ok {
		return sections
	}
	var snapshot []models.Section
	hit, err := s.cache.Get(ctx, s.snapshotKey(userID), &snapshot)
	if err != nil || !hit {
		return nil
	}
	s.store.Save(userID, snapshot)
	return snapshot
}

func (s *SelectionService) persist(ctx context.Context, userID string, sections []models.Section) {
	s.store.Save(userID, sections)
	if err := s.cache.Set(ctx, s.snapshotKey(userID), sections, s.store.ttl); err != nil {
		s.logger.Warn("failed to snapshot selection", zap.String("userId", userID), zap.Error(err))
	}
}

func (s *SelectionService) snapshotKey(userID string) string {
	return "selection:" + userID
}

type selectionEntry struct {
	sections  []models.Section
	touchedAt time.Time
}

type selectionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]selectionEntry
}

func newSelectionStore(ttl time.Duration) *selectionStore {
	return &selectionStore{
		ttl:   ttl,
		items: make(map[string]selectionEntry),
	}
}

func (s *selectionStore) Save(userID string, sections []models.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = selectionEntry{sections: sections, touchedAt: time.Now()}
}

func (s *selectionStore) Get(userID string) ([]models.Section, bool) {
	s.mu.RLock()
	entry, ok := s.items[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(entry.touchedAt) > s.ttl {
		s.Delete(userID)
		return nil, false
	}
	return entry.sections, true
}

func (s *selectionStore) Delete(userID string) {
	s.mu.Lock()
	delete(s.items, userID)
	s.mu.Unlock()
}

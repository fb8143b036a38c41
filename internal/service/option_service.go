package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/planify-app/planify-api/pkg/errors"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/models"
	"github.com/planify-app/planify-api/internal/timetable"
)

// selectionReplacer is the slice of SelectionService that OptionService needs
// to promote an accepted option into the live selection.
type selectionReplacer interface {
	Replace(ctx context.Context, userID string, sections []models.Section) (*dto.SelectionView, error)
}

// OptionService normalizes externally generated candidate schedules into the
// internal section model. Normalization is partial-success: a malformed
// option is rejected with its ordinal and offending field while well-formed
// siblings still go through.
type OptionService struct {
	selection selectionReplacer
	store     *optionStore
	validator *validator.Validate
	logger    *zap.Logger
	stats     timetable.StatsOptions
	maxBatch  int
}

// NewOptionService constructs an OptionService.
func NewOptionService(selection selectionReplacer, validate *validator.Validate, ttl time.Duration, weeklyHourBudget, maxBatch int, logger *zap.Logger) *OptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxBatch <= 0 {
		maxBatch = 10
	}
	return &OptionService{
		selection: selection,
		store:     newOptionStore(ttl),
		validator: validate,
		logger:    logger,
		stats:     timetable.StatsOptions{WeeklyHourBudget: weeklyHourBudget},
		maxBatch:  maxBatch,
	}
}

// Normalize converts a batch of candidate schedules. Ordinals are 1-based
// positions in the input batch and are stable across accepted and rejected
// options, so a rejection for ordinal 2 always refers to the second option
// submitted.
func (s *OptionService) Normalize(ctx context.Context, userID string, req dto.NormalizeOptionsRequest) (*models.OptionBatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid normalize payload")
	}
	if len(req.Options) > s.maxBatch {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d options per batch", s.maxBatch))
	}

	result := &models.OptionBatchResult{
		Accepted: make([]models.ScheduleOption, 0, len(req.Options)),
		Rejected: make([]models.OptionRejection, 0),
	}

	for i, candidates := range req.Options {
		ordinal := i + 1
		sections, rejection := s.normalizeOption(ordinal, candidates)
		if rejection != nil {
			result.Rejected = append(result.Rejected, *rejection)
			continue
		}

		option, err := s.buildOption(ordinal, sections)
		if err != nil {
			return nil, err
		}
		result.Accepted = append(result.Accepted, *option)
	}

	s.store.Save(userID, result.Accepted)
	s.logger.Info("candidate options normalized",
		zap.String("userId", userID),
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Rejected)))
	return result, nil
}

// Apply promotes a previously normalized option into the live selection,
// replacing it wholesale.
func (s *OptionService) Apply(ctx context.Context, userID string, req dto.ApplyOptionRequest) (*dto.SelectionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apply payload")
	}

	options, ok := s.store.Get(userID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no normalized options available, normalize a batch first")
	}
	for _, option := range options {
		if option.Ordinal == req.Ordinal {
			return s.selection.Replace(ctx, userID, option.Sections)
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("option %d not found in the last normalized batch", req.Ordinal))
}

// normalizeOption converts one candidate schedule. The first malformed field
// rejects the whole option; the rejection names the 1-based record index and
// the field so the caller can trace it back to the generator output.
func (s *OptionService) normalizeOption(ordinal int, candidates []dto.CandidateSection) ([]models.Section, *models.OptionRejection) {
	if len(candidates) == 0 {
		return nil, &models.OptionRejection{Ordinal: ordinal, Index: 0, Field: "sections", Reason: "option has no sections"}
	}

	sections := make([]models.Section, 0, len(candidates))
	for i, candidate := range candidates {
		section, field, reason := normalizeCandidate(candidate)
		if field != "" {
			return nil, &models.OptionRejection{Ordinal: ordinal, Index: i + 1, Field: field, Reason: reason}
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func (s *OptionService) buildOption(ordinal int, sections []models.Section) (*models.ScheduleOption, error) {
	sorted := timetable.SortSections(sections)
	conflicts, err := timetable.DetectConflicts(sorted)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	stats, err := timetable.ComputeStats(sorted, s.stats)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return &models.ScheduleOption{
		Ordinal:      ordinal,
		Sections:     sorted,
		TotalCredits: stats.TotalCredits,
		FreeDays:     timetable.FreeDays(sorted),
		Conflicts:    conflicts,
		Stats:        stats,
	}, nil
}

// normalizeCandidate maps a loosely-typed candidate record onto a Section.
// It returns the offending field name and reason when the record is unusable.
func normalizeCandidate(candidate dto.CandidateSection) (models.Section, string, string) {
	var section models.Section

	requireString := func(value *string) (string, bool) {
		if value == nil || strings.TrimSpace(*value) == "" {
			return "", false
		}
		return strings.TrimSpace(*value), true
	}

	code, ok := requireString(candidate.Code)
	if !ok {
		return section, "code", "missing course code"
	}
	name, ok := requireString(candidate.Name)
	if !ok {
		return section, "name", "missing course name"
	}
	class, ok := requireString(candidate.Class)
	if !ok {
		return section, "class", "missing class label"
	}

	if candidate.Day == nil {
		return section, "day", "missing day"
	}
	day, ok := timetable.CanonicalDay(*candidate.Day)
	if !ok {
		return section, "day", fmt.Sprintf("unknown day %q", *candidate.Day)
	}

	if candidate.StartTime == nil {
		return section, "startTime", "missing start time"
	}
	start, err := timetable.ToMinutes(*candidate.StartTime)
	if err != nil {
		return section, "startTime", fmt.Sprintf("invalid time %q", *candidate.StartTime)
	}
	if candidate.EndTime == nil {
		return section, "endTime", "missing end time"
	}
	end, err := timetable.ToMinutes(*candidate.EndTime)
	if err != nil {
		return section, "endTime", fmt.Sprintf("invalid time %q", *candidate.EndTime)
	}
	if start >= end {
		return section, "endTime", "must be after startTime"
	}

	if candidate.Credits == nil {
		return section, "credits", "missing credits"
	}
	if *candidate.Credits != math.Trunc(*candidate.Credits) {
		return section, "credits", "credits must be a whole number"
	}
	credits := int(*candidate.Credits)
	if credits < models.MinCredits || credits > models.MaxCredits {
		return section, "credits", fmt.Sprintf("must be between %d and %d", models.MinCredits, models.MaxCredits)
	}

	category := models.CategoryPilihan
	if candidate.Category != nil && strings.TrimSpace(*candidate.Category) != "" {
		category = models.SectionCategory(strings.ToLower(strings.TrimSpace(*candidate.Category)))
		if !category.Valid() {
			return section, "category", fmt.Sprintf("unknown category %q", *candidate.Category)
		}
	}

	section = models.Section{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		Credits:   credits,
		Day:       day,
		StartTime: *candidate.StartTime,
		EndTime:   *candidate.EndTime,
		Category:  category,
		Class:     class,
	}
	if candidate.ID != nil && strings.TrimSpace(*candidate.ID) != "" {
		section.ID = strings.TrimSpace(*candidate.ID)
	}
	if candidate.Lecturer != nil {
		section.Lecturer = strings.TrimSpace(*candidate.Lecturer)
	}
	if candidate.Room != nil {
		section.Room = strings.TrimSpace(*candidate.Room)
	}
	if candidate.Semester != nil {
		section.Semester = strings.TrimSpace(*candidate.Semester)
	}
	return section, "", ""
}

type optionEntry struct {
	options   []models.ScheduleOption
	touchedAt time.Time
}

type optionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]optionEntry
}

func newOptionStore(ttl time.Duration) *optionStore {
	return &optionStore{
		ttl:   ttl,
		items: make(map[string]optionEntry),
	}
}

func (s *optionStore) Save(userID string, options []models.ScheduleOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = optionEntry{options: options, touchedAt: time.Now()}
}

func (s *optionStore) Get(userID string) ([]models.ScheduleOption, bool) {
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
	return entry.options, true
}

func (s *optionStore) Delete(userID string) {
	s.mu.Lock()
	delete(s.items, userID)
	s.mu.Unlock()
}

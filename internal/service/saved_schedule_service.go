package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/planify-app/planify-api/pkg/errors"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/models"
	"github.com/planify-app/planify-api/internal/timetable"
)

// SavedScheduleRepository describes the persistence layer required by
// SavedScheduleService.
type SavedScheduleRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.SavedSchedule, error)
	FindByID(ctx context.Context, id string) (*models.SavedSchedule, error)
	Create(ctx context.Context, schedule *models.SavedSchedule) error
	Delete(ctx context.Context, id string) error
}

// SavedScheduleService persists named snapshots of a selection and loads
// them back into the live selection.
type SavedScheduleService struct {
	repo        SavedScheduleRepository
	selection   selectionReplacer
	validator   *validator.Validate
	logger      *zap.Logger
	creditLimit int
}

// NewSavedScheduleService constructs a SavedScheduleService.
func NewSavedScheduleService(repo SavedScheduleRepository, selection selectionReplacer, validate *validator.Validate, creditLimit int, logger *zap.Logger) *SavedScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if creditLimit <= 0 {
		creditLimit = 24
	}
	return &SavedScheduleService{repo: repo, selection: selection, validator: validate, logger: logger, creditLimit: creditLimit}
}

// Save validates and persists the given sections under a name. Schedules over
// the credit limit are rejected before touching storage.
func (s *SavedScheduleService) Save(ctx context.Context, userID string, req dto.SaveScheduleRequest) (*models.SavedSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save payload")
	}
	if issues := validateSections(req.ScheduleData); len(issues) > 0 {
		return nil, malformedSectionError(issues)
	}
	if timetable.ExceedsCreditLimit(req.ScheduleData, s.creditLimit) {
		return nil, appErrors.Clone(appErrors.ErrCreditLimit, fmt.Sprintf("schedule exceeds the %d credit limit", s.creditLimit))
	}

	payload, err := json.Marshal(timetable.SortSections(req.ScheduleData))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule")
	}

	schedule := &models.SavedSchedule{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         req.ScheduleName,
		TotalCredits: timetable.TotalCredits(req.ScheduleData),
		ScheduleData: payload,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}

	s.logger.Info("schedule saved",
		zap.String("userId", userID),
		zap.String("scheduleId", schedule.ID),
		zap.Int("credits", schedule.TotalCredits))
	return schedule, nil
}

// List returns the user's saved schedules, most recently updated first.
func (s *SavedScheduleService) List(ctx context.Context, userID string) ([]models.SavedSchedule, error) {
	schedules, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// Get returns one saved schedule after checking ownership.
func (s *SavedScheduleService) Get(ctx context.Context, userID, id string) (*models.SavedSchedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if schedule.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "schedule does not belong to user")
	}
	return schedule, nil
}

// Load replaces the live selection with a saved schedule's sections.
func (s *SavedScheduleService) Load(ctx context.Context, userID, id string) (*dto.SelectionView, error) {
	schedule, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.Sections(schedule)
	if err != nil {
		return nil, err
	}
	view, err := s.selection.Replace(ctx, userID, sections)
	if err != nil {
		return nil, err
	}
	s.logger.Info("schedule loaded into selection", zap.String("userId", userID), zap.String("scheduleId", id))
	return view, nil
}

// Delete removes a saved schedule after checking ownership.
func (s *SavedScheduleService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

// Sections decodes the stored section payload.
func (s *SavedScheduleService) Sections(schedule *models.SavedSchedule) ([]models.Section, error) {
	var sections []models.Section
	if err := json.Unmarshal(schedule.ScheduleData, &sections); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored schedule payload is corrupt")
	}
	return sections, nil
}

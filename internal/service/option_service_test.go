package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/models"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
)

type fakeReplacer struct {
	replaced []models.Section
	calls    int
	err      error
}

func (f *fakeReplacer) Replace(_ context.Context, _ string, sections []models.Section) (*dto.SelectionView, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.replaced = sections
	return &dto.SelectionView{Sections: sections}, nil
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func candidateFixture(code, class, day, start, end string, credits float64) dto.CandidateSection {
	return dto.CandidateSection{
		Code:      strPtr(code),
		Name:      strPtr("Mata Kuliah " + code),
		Lecturer:  strPtr("Dr. Test"),
		Credits:   floatPtr(credits),
		Room:      strPtr("R101"),
		Day:       strPtr(day),
		StartTime: strPtr(start),
		EndTime:   strPtr(end),
		Semester:  strPtr("1"),
		Category:  strPtr("wajib"),
		Class:     strPtr(class),
	}
}

func newOptionFixture(selection selectionReplacer) *OptionService {
	return NewOptionService(selection, nil, time.Hour, 40, 10, zap.NewNop())
}

func TestNormalizeAcceptsWellFormedOptions(t *testing.T) {
	svc := newOptionFixture(&fakeReplacer{})

	result, err := svc.Normalize(context.Background(), "user-1", dto.NormalizeOptionsRequest{
		Options: [][]dto.CandidateSection{
			{
				candidateFixture("IF101", "A", "Senin", "08:00", "10:00", 3),
				candidateFixture("IF102", "B", "Selasa", "10:00", "12:00", 2),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Accepted, 1)
	assert.Empty(t, result.Rejected)

	option := result.Accepted[0]
	assert.Equal(t, 1, option.Ordinal)
	assert.Equal(t, 5, option.TotalCredits)
	assert.Empty(t, option.Conflicts)
	assert.ElementsMatch(t, []string{"Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}, option.FreeDays)
}

func TestNormalizePartialSuccess(t *testing.T) {
	svc := newOptionFixture(&fakeReplacer{})

	result, err := svc.Normalize(context.Background(), "user-1", dto.NormalizeOptionsRequest{
		Options: [][]dto.CandidateSection{
			{candidateFixture("IF101", "A", "Senin", "08:00", "10:00", 3)},
			{candidateFixture("IF102", "B", "Selasa", "10:00", "12:00", 0)},
			{candidateFixture("IF103", "C", "Rabu", "13:00", "15:00", 2)},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Accepted, 2)
	require.Len(t, result.Rejected, 1)

	rejection := result.Rejected[0]
	assert.Equal(t, 2, rejection.Ordinal)
	assert.Equal(t, 1, rejection.Index)
	assert.Equal(t, "credits", rejection.Field)

	// Ordinals keep their batch positions even around a rejection.
	assert.Equal(t, 1, result.Accepted[0].Ordinal)
	assert.Equal(t, 3, result.Accepted[1].Ordinal)
}

func TestNormalizeRejectsMissingAndInvalidFields(t *testing.T) {
	svc := newOptionFixture(&fakeReplacer{})
	cases := []struct {
		name   string
		mutate func(*dto.CandidateSection)
		field  string
	}{
		{"missing code", func(c *dto.CandidateSection) { c.Code = nil }, "code"},
		{"blank name", func(c *dto.CandidateSection) { c.Name = strPtr("  ") }, "name"},
		{"unknown day", func(c *dto.CandidateSection) { c.Day = strPtr("Funday") }, "day"},
		{"missing start", func(c *dto.CandidateSection) { c.StartTime = nil }, "startTime"},
		{"bad end", func(c *dto.CandidateSection) { c.EndTime = strPtr("25:00") }, "endTime"},
		{"inverted times", func(c *dto.CandidateSection) { c.EndTime = strPtr("07:00") }, "endTime"},
		{"fractional credits", func(c *dto.CandidateSection) { c.Credits = floatPtr(2.5) }, "credits"},
		{"credits out of range", func(c *dto.CandidateSection) { c.Credits = floatPtr(21) }, "credits"},
		{"unknown category", func(c *dto.CandidateSection) { c.Category = strPtr("umum") }, "category"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := candidateFixture("IF101", "A", "Senin", "08:00", "10:00", 3)
			tc.mutate(&candidate)

			result, err := svc.Normalize(context.Background(), "user-1", dto.NormalizeOptionsRequest{
				Options: [][]dto.CandidateSection{{candidate}},
			})
			require.NoError(t, err)
			assert.Empty(t, result.Accepted)
			require.Len(t, result.Rejected, 1)
			assert.Equal(t, tc.field, result.Rejected[0].Field)
		})
	}
}

func TestNormalizeFillsOptionalFields(t *testing.T) {
	svc := newOptionFixture(&fakeReplacer{})
	candidate := candidateFixture("IF101", "A", "senin", "08:00", "10:00", 3)
	candidate.ID = nil
	candidate.Lecturer = nil
	candidate.Room = nil
	candidate.Category = nil

	result, err := svc.Normalize(context.Background(), "user-1", dto.NormalizeOptionsRequest{
		Options: [][]dto.CandidateSection{{candidate}},
	})
	require.NoError(t, err)
	require.Len(t, result.Accepted, 1)

	section := result.Accepted[0].Sections[0]
	assert.NotEmpty(t, section.ID)
	assert.Equal(t, "Senin", section.Day)
	assert.Equal(t, models.CategoryPilihan, section.Category)
}

func TestNormalizeDetectsConflictsInOption(t *testing.T) {
	svc := newOptionFixture(&fakeReplacer{})

	result, err := svc.Normalize(context.Background(), "user-1", dto.NormalizeOptionsRequest{
		Options: [][]dto.CandidateSection{
			{
				candidateFixture("IF101", "A", "Senin", "08:00", "10:00", 3),
				candidateFixture("IF102", "B", "Senin", "09:00", "11:00", 3),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Accepted, 1)
	assert.Len(t, result.Accepted[0].Conflicts, 1)
	assert.Equal(t, 1, result.Accepted[0].Stats.Conflicts)
}

func TestNormalizeEnforcesBatchLimit(t *testing.T) {
	svc := NewOptionService(&fakeReplacer{}, nil, time.Hour, 40, 2, zap.NewNop())

	options := make([][]dto.CandidateSection, 3)
	for i := range options {
		options[i] = []dto.CandidateSection{candidateFixture("IF101", "A", "Senin", "08:00", "10:00", 3)}
	}
	_, err := svc.Normalize(context.Background(), "user-1", dto.NormalizeOptionsRequest{Options: options})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestApplyPromotesOptionIntoSelection(t *testing.T) {
	replacer := &fakeReplacer{}
	svc := newOptionFixture(replacer)
	ctx := context.Background()

	_, err := svc.Normalize(ctx, "user-1", dto.NormalizeOptionsRequest{
		Options: [][]dto.CandidateSection{
			{candidateFixture("IF101", "A", "Senin", "08:00", "10:00", 3)},
			{candidateFixture("IF102", "B", "Selasa", "10:00", "12:00", 2)},
		},
	})
	require.NoError(t, err)

	view, err := svc.Apply(ctx, "user-1", dto.ApplyOptionRequest{Ordinal: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, replacer.calls)
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "IF102", view.Sections[0].Code)
}

func TestApplyUnknownOrdinal(t *testing.T) {
	svc := newOptionFixture(&fakeReplacer{})
	ctx := context.Background()

	_, err := svc.Normalize(ctx, "user-1", dto.NormalizeOptionsRequest{
		Options: [][]dto.CandidateSection{{candidateFixture("IF101", "A", "Senin", "08:00", "10:00", 3)}},
	})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, "user-1", dto.ApplyOptionRequest{Ordinal: 7})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestApplyWithoutNormalizedBatch(t *testing.T) {
	svc := newOptionFixture(&fakeReplacer{})

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyOptionRequest{Ordinal: 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

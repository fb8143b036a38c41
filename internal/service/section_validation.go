package service

import (
	"fmt"
	"strings"

	appErrors "github.com/planify-app/planify-api/pkg/errors"

	"github.com/planify-app/planify-api/internal/models"
	"github.com/planify-app/planify-api/internal/timetable"
)

// validateSection checks every field of a section record. Record indexes in
// the returned issues are 1-based so they match user facing positions.
func validateSection(section models.Section, index int) []models.SectionIssue {
	var issues []models.SectionIssue
	add := func(field, reason string) {
		issues = append(issues, models.SectionIssue{Index: index, Field: field, Reason: reason})
	}

	required := []struct {
		field string
		value string
	}{
		{"id", section.ID},
		{"code", section.Code},
		{"name", section.Name},
		{"class", section.Class},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			add(item.field, "must not be empty")
		}
	}

	if _, ok := timetable.CanonicalDay(section.Day); !ok {
		add("day", fmt.Sprintf("unknown day %q", section.Day))
	}

	start, startErr := timetable.ToMinutes(section.StartTime)
	if startErr != nil {
		add("startTime", fmt.Sprintf("invalid time %q", section.StartTime))
	}
	end, endErr := timetable.ToMinutes(section.EndTime)
	if endErr != nil {
		add("endTime", fmt.Sprintf("invalid time %q", section.EndTime))
	}
	if startErr == nil && endErr == nil && start >= end {
		add("endTime", "must be after startTime")
	}

	if section.Credits < models.MinCredits || section.Credits > models.MaxCredits {
		add("credits", fmt.Sprintf("must be between %d and %d", models.MinCredits, models.MaxCredits))
	}

	if !section.Category.Valid() {
		add("category", fmt.Sprintf("unknown category %q", section.Category))
	}

	return issues
}

// validateSections collects issues across all records instead of stopping at
// the first malformed one.
func validateSections(sections []models.Section) []models.SectionIssue {
	var issues []models.SectionIssue
	for i, section := range sections {
		issues = append(issues, validateSection(section, i+1)...)
	}
	return issues
}

func malformedSectionError(issues []models.SectionIssue) error {
	if len(issues) == 0 {
		return nil
	}
	cause := &models.SectionValidationError{Message: "malformed section data", Issues: issues}
	return appErrors.Wrap(cause, appErrors.ErrMalformedSection.Code, appErrors.ErrMalformedSection.Status, cause.Error())
}

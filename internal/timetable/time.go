// Package timetable holds the pure schedule-construction primitives:
// clock-time arithmetic, overlap detection, load statistics and the derived
// views the planner exposes. Everything here is side-effect free and
// operates on whatever in-memory section list it is given.
package timetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/planify-app/planify-api/internal/models"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
)

// ToMinutes converts an "HH:MM" 24-hour clock string to minutes since
// midnight. A trailing seconds component is tolerated and ignored.
func ToMinutes(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	parts := strings.Split(trimmed, ":")
	if len(parts) == 3 {
		parts = parts[:2]
	}
	if len(parts) != 2 {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("invalid time %q: expected HH:MM", raw))
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, fmt.Sprintf("invalid hour in %q", raw))
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, fmt.Sprintf("invalid minute in %q", raw))
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("time %q out of range", raw))
	}

	return hour*60 + minute, nil
}

// Overlaps applies the half-open interval test: back-to-back spans sharing
// only a boundary minute do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// NormalizeDay lower-cases and trims a weekday for comparison.
func NormalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}

// SameDay reports whether two weekday labels refer to the same day,
// ignoring case and surrounding whitespace.
func SameDay(a, b string) bool {
	return NormalizeDay(a) == NormalizeDay(b)
}

// CanonicalDay resolves a weekday label to its canonical casing. The second
// return is false when the label is not one of the seven known days.
func CanonicalDay(day string) (string, bool) {
	normalized := NormalizeDay(day)
	for _, canonical := range models.CanonicalDays {
		if NormalizeDay(canonical) == normalized {
			return canonical, true
		}
	}
	return "", false
}

// displayTime trims a raw time string to HH:MM for presentation.
func displayTime(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > 5 {
		return trimmed[:5]
	}
	return trimmed
}

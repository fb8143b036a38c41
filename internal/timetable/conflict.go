package timetable

import (
	"fmt"

	"github.com/planify-app/planify-api/internal/models"
)

// DetectConflicts returns every unordered pair of sections sharing a weekday
// with overlapping time spans. Output order follows pair generation (outer
// index ascending, then inner), so it is deterministic for a fixed input
// order. Section counts are small enough that the exhaustive pairwise scan
// is fine.
func DetectConflicts(sections []models.Section) ([]models.Conflict, error) {
	conflicts := make([]models.Conflict, 0)
	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			a, b := sections[i], sections[j]
			if !SameDay(a.Day, b.Day) {
				continue
			}

			aStart, err := ToMinutes(a.StartTime)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", a.ID, err)
			}
			aEnd, err := ToMinutes(a.EndTime)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", a.ID, err)
			}
			bStart, err := ToMinutes(b.StartTime)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", b.ID, err)
			}
			bEnd, err := ToMinutes(b.EndTime)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", b.ID, err)
			}

			if !Overlaps(aStart, aEnd, bStart, bEnd) {
				continue
			}

			day := a.Day
			if canonical, ok := CanonicalDay(a.Day); ok {
				day = canonical
			}
			conflicts = append(conflicts, models.Conflict{
				Course1: a,
				Course2: b,
				Day:     day,
				Time: fmt.Sprintf("%s %s-%s bentrok dengan %s-%s", day,
					displayTime(a.StartTime), displayTime(a.EndTime),
					displayTime(b.StartTime), displayTime(b.EndTime)),
			})
		}
	}
	return conflicts, nil
}

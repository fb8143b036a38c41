package timetable

import (
	"fmt"

	"github.com/planify-app/planify-api/internal/models"
)

// DefaultWeeklyHourBudget is the assumed weekly working-hours budget used
// for the free-hours estimate when no override is configured.
const DefaultWeeklyHourBudget = 40

// StatsOptions tunes statistics aggregation.
type StatsOptions struct {
	WeeklyHourBudget int
}

// ComputeStats aggregates load statistics over a set of sections. Ties for
// the busiest day resolve to the earliest canonical weekday, independent of
// input order.
func ComputeStats(sections []models.Section, opts StatsOptions) (models.ScheduleStats, error) {
	budget := opts.WeeklyHourBudget
	if budget <= 0 {
		budget = DefaultWeeklyHourBudget
	}

	stats := models.ScheduleStats{
		TotalSections: len(sections),
		CreditsPerDay: make(map[string]int),
	}

	counts := make(map[string]int)
	earliest, latest := -1, -1
	for _, section := range sections {
		stats.TotalCredits += section.Credits

		day := NormalizeDay(section.Day)
		stats.CreditsPerDay[day] += section.Credits
		counts[day]++

		start, err := ToMinutes(section.StartTime)
		if err != nil {
			return models.ScheduleStats{}, fmt.Errorf("section %s: %w", section.ID, err)
		}
		end, err := ToMinutes(section.EndTime)
		if err != nil {
			return models.ScheduleStats{}, fmt.Errorf("section %s: %w", section.ID, err)
		}

		if earliest < 0 || start < earliest {
			earliest = start
			stats.TimeSpan.Earliest = displayTime(section.StartTime)
		}
		if end > latest {
			latest = end
			stats.TimeSpan.Latest = displayTime(section.EndTime)
		}

		stats.BusyHours += float64(end-start) / 60
	}

	stats.DailyDistribution = make([]models.DayLoad, 0, len(models.CanonicalDays))
	for _, day := range models.CanonicalDays {
		key := NormalizeDay(day)
		load := models.DayLoad{
			Day:         day,
			Credits:     stats.CreditsPerDay[key],
			CourseCount: counts[key],
		}
		stats.DailyDistribution = append(stats.DailyDistribution, load)
		if load.Credits > stats.BusiestDay.Credits {
			stats.BusiestDay = models.BusiestDay{Day: day, Credits: load.Credits}
		}
	}

	stats.FreeHours = float64(budget) - stats.BusyHours
	if stats.FreeHours < 0 {
		stats.FreeHours = 0
	}

	conflicts, err := DetectConflicts(sections)
	if err != nil {
		return models.ScheduleStats{}, err
	}
	stats.Conflicts = len(conflicts)

	return stats, nil
}

// TotalCredits sums the credit weight of the given sections.
func TotalCredits(sections []models.Section) int {
	total := 0
	for _, section := range sections {
		total += section.Credits
	}
	return total
}

// ExceedsCreditLimit reports whether the summed credits exceed the limit.
// A schedule at exactly the limit is accepted.
func ExceedsCreditLimit(sections []models.Section, limit int) bool {
	return TotalCredits(sections) > limit
}

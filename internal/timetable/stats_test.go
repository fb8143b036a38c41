package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planify-app/planify-api/internal/models"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats, err := ComputeStats(nil, StatsOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalCredits)
	assert.Equal(t, 0, stats.TotalSections)
	assert.Empty(t, stats.CreditsPerDay)
	assert.Equal(t, "", stats.TimeSpan.Earliest)
	assert.Equal(t, "", stats.TimeSpan.Latest)
	assert.Equal(t, float64(40), stats.FreeHours)
	require.Len(t, stats.DailyDistribution, 7)
	for _, load := range stats.DailyDistribution {
		assert.Equal(t, 0, load.Credits)
		assert.Equal(t, 0, load.CourseCount)
	}
}

func TestComputeStatsAggregates(t *testing.T) {
	sections := []models.Section{
		{ID: "1", Credits: 3, Day: "Senin", StartTime: "08:00", EndTime: "10:00"},
		{ID: "2", Credits: 2, Day: "senin", StartTime: "13:00", EndTime: "14:30"},
		{ID: "3", Credits: 4, Day: "Rabu", StartTime: "07:00", EndTime: "09:00"},
	}

	stats, err := ComputeStats(sections, StatsOptions{WeeklyHourBudget: 40})
	require.NoError(t, err)

	assert.Equal(t, 9, stats.TotalCredits)
	assert.Equal(t, 3, stats.TotalSections)
	assert.Equal(t, 5, stats.CreditsPerDay["senin"])
	assert.Equal(t, 4, stats.CreditsPerDay["rabu"])
	assert.Equal(t, "Senin", stats.BusiestDay.Day)
	assert.Equal(t, 5, stats.BusiestDay.Credits)
	assert.Equal(t, "07:00", stats.TimeSpan.Earliest)
	assert.Equal(t, "14:30", stats.TimeSpan.Latest)
	assert.InDelta(t, 5.5, stats.BusyHours, 0.001)
	assert.InDelta(t, 34.5, stats.FreeHours, 0.001)
	assert.Equal(t, 0, stats.Conflicts)

	require.Len(t, stats.DailyDistribution, 7)
	assert.Equal(t, models.DayLoad{Day: "Senin", Credits: 5, CourseCount: 2}, stats.DailyDistribution[0])
	assert.Equal(t, models.DayLoad{Day: "Selasa", Credits: 0, CourseCount: 0}, stats.DailyDistribution[1])
	assert.Equal(t, models.DayLoad{Day: "Rabu", Credits: 4, CourseCount: 1}, stats.DailyDistribution[2])
}

func TestComputeStatsBusiestDayTieBreak(t *testing.T) {
	// Rabu appears first in the input but Senin wins the tie because ties
	// resolve to the earliest canonical weekday.
	sections := []models.Section{
		{ID: "1", Credits: 3, Day: "Rabu", StartTime: "08:00", EndTime: "09:00"},
		{ID: "2", Credits: 3, Day: "Senin", StartTime: "08:00", EndTime: "09:00"},
	}

	stats, err := ComputeStats(sections, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Senin", stats.BusiestDay.Day)
}

func TestComputeStatsCountsConflicts(t *testing.T) {
	sections := []models.Section{
		{ID: "1", Credits: 3, Day: "Senin", StartTime: "08:00", EndTime: "10:00"},
		{ID: "2", Credits: 3, Day: "Senin", StartTime: "09:00", EndTime: "11:00"},
	}

	stats, err := ComputeStats(sections, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Conflicts)
}

func TestComputeStatsFreeHoursFloored(t *testing.T) {
	sections := []models.Section{
		{ID: "1", Credits: 2, Day: "Senin", StartTime: "07:00", EndTime: "12:00"},
	}

	stats, err := ComputeStats(sections, StatsOptions{WeeklyHourBudget: 4})
	require.NoError(t, err)
	assert.Equal(t, float64(0), stats.FreeHours)
}

func TestComputeStatsPropagatesTimeErrors(t *testing.T) {
	sections := []models.Section{
		{ID: "1", Credits: 2, Day: "Senin", StartTime: "oops", EndTime: "12:00"},
	}

	_, err := ComputeStats(sections, StatsOptions{})
	require.Error(t, err)
}

func TestTotalCreditsAdditivity(t *testing.T) {
	assert.Equal(t, 0, TotalCredits(nil))

	sections := []models.Section{
		{ID: "1", Credits: 3}, {ID: "2", Credits: 4}, {ID: "3", Credits: 2},
	}
	assert.Equal(t, 9, TotalCredits(sections))
}

func TestExceedsCreditLimit(t *testing.T) {
	at := []models.Section{{Credits: 12}, {Credits: 12}}
	over := []models.Section{{Credits: 12}, {Credits: 13}}

	assert.False(t, ExceedsCreditLimit(at, 24))
	assert.True(t, ExceedsCreditLimit(over, 24))
}

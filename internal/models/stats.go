package models

// DayLoad reports credits and section count for one canonical weekday.
type DayLoad struct {
	Day         string `json:"day"`
	Credits     int    `json:"credits"`
	CourseCount int    `json:"courseCount"`
}

// BusiestDay is the weekday carrying the highest summed credits.
type BusiestDay struct {
	Day     string `json:"day"`
	Credits int    `json:"credits"`
}

// TimeSpan marks the earliest start and latest end across a selection.
// Both fields are empty for an empty selection.
type TimeSpan struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// ScheduleStats aggregates load statistics over a set of sections.
type ScheduleStats struct {
	TotalCredits      int            `json:"totalCredits"`
	TotalSections     int            `json:"totalSections"`
	CreditsPerDay     map[string]int `json:"creditsPerDay"`
	BusiestDay        BusiestDay     `json:"busiestDay"`
	DailyDistribution []DayLoad      `json:"dailyDistribution"`
	TimeSpan          TimeSpan       `json:"timeSpan"`
	BusyHours         float64        `json:"busyHours"`
	FreeHours         float64        `json:"freeHours"`
	Conflicts         int            `json:"conflicts"`
}

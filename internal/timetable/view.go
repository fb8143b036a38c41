package timetable

import (
	"sort"
	"strings"

	"github.com/planify-app/planify-api/internal/models"
)

// FilterAll is the sentinel filter value that disables a filter dimension.
const FilterAll = "all"

// SortSections orders sections by semester, course code, then class label
// for deterministic display. The input is not mutated.
func SortSections(sections []models.Section) []models.Section {
	sorted := make([]models.Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Semester != sorted[j].Semester {
			return sorted[i].Semester < sorted[j].Semester
		}
		if sorted[i].Code != sorted[j].Code {
			return sorted[i].Code < sorted[j].Code
		}
		return classLabelLess(sorted[i].Class, sorted[j].Class)
	})
	return sorted
}

// classLabelLess orders class labels length-first then lexicographically,
// so "A" < "B" < "AA" < "BB".
func classLabelLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// FilterCatalog returns the sections matching the given criteria. Search is
// a case-insensitive substring match against name, code, lecturer and the
// composed code-class label; semester and class filters are exact matches
// unless empty or the "all" sentinel.
func FilterCatalog(sections []models.Section, filter models.SectionFilter) []models.Section {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]models.Section, 0, len(sections))
	for _, section := range sections {
		if search != "" && !matchesSearch(section, search) {
			continue
		}
		if !matchesExact(filter.Semester, section.Semester) {
			continue
		}
		if !matchesExact(filter.Class, section.Class) {
			continue
		}
		if filter.Day != "" && !SameDay(filter.Day, section.Day) {
			continue
		}
		matched = append(matched, section)
	}
	return matched
}

func matchesSearch(section models.Section, search string) bool {
	return strings.Contains(strings.ToLower(section.Name), search) ||
		strings.Contains(strings.ToLower(section.Code), search) ||
		strings.Contains(strings.ToLower(section.Lecturer), search) ||
		strings.Contains(strings.ToLower(section.Label()), search)
}

func matchesExact(filter, value string) bool {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return true
	}
	return filter == value
}

// GroupByCode groups sections by course code. Courses inside each group are
// sorted by class label (length-first), groups by code.
func GroupByCode(sections []models.Section) []models.SectionGroup {
	byCode := make(map[string][]models.Section)
	for _, section := range sections {
		byCode[section.Code] = append(byCode[section.Code], section)
	}

	groups := make([]models.SectionGroup, 0, len(byCode))
	for code, courses := range byCode {
		sort.SliceStable(courses, func(i, j int) bool {
			return classLabelLess(courses[i].Class, courses[j].Class)
		})
		groups = append(groups, models.SectionGroup{
			Code:         code,
			Courses:      courses,
			TotalClasses: len(courses),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Code < groups[j].Code })
	return groups
}

// FreeDays returns the canonical days not used by any of the sections.
func FreeDays(sections []models.Section) []string {
	used := make(map[string]bool, len(sections))
	for _, section := range sections {
		used[NormalizeDay(section.Day)] = true
	}

	free := make([]string, 0, len(models.CanonicalDays))
	for _, day := range models.CanonicalDays {
		if !used[NormalizeDay(day)] {
			free = append(free, day)
		}
	}
	return free
}

package models

import (
	"fmt"
	"time"
)

// SectionCategory distinguishes mandatory from elective sections.
type SectionCategory string

const (
	CategoryWajib   SectionCategory = "wajib"
	CategoryPilihan SectionCategory = "pilihan"
)

// Valid reports whether the category is one of the known values.
func (c SectionCategory) Valid() bool {
	return c == CategoryWajib || c == CategoryPilihan
}

// CanonicalDays lists the weekday canon in display order, Monday first.
var CanonicalDays = []string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

// MinCredits and MaxCredits bound the accepted credit weight of a section.
const (
	MinCredits = 1
	MaxCredits = 20
)

// Section is one schedulable class instance of a course. Sections are
// immutable value objects inside the planner; mutation happens only on the
// selection they belong to.
type Section struct {
	ID        string          `db:"id" json:"id"`
	Code      string          `db:"code" json:"code"`
	Name      string          `db:"name" json:"name"`
	Lecturer  string          `db:"lecturer" json:"lecturer"`
	Credits   int             `db:"credits" json:"credits"`
	Room      string          `db:"room" json:"room"`
	Day       string          `db:"day" json:"day"`
	StartTime string          `db:"start_time" json:"startTime"`
	EndTime   string          `db:"end_time" json:"endTime"`
	Semester  string          `db:"semester" json:"semester"`
	Category  SectionCategory `db:"category" json:"category"`
	Class     string          `db:"class" json:"class"`
	CreatedAt time.Time       `db:"created_at" json:"-"`
	UpdatedAt time.Time       `db:"updated_at" json:"-"`
}

// Label returns the composed "code-class" identity shown to users.
func (s Section) Label() string {
	return fmt.Sprintf("%s-%s", s.Code, s.Class)
}

// SectionFilter describes catalog listing criteria.
type SectionFilter struct {
	Search    string
	Semester  string
	Class     string
	Day       string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SectionGroup collects the sections of a single course code.
type SectionGroup struct {
	Code         string    `json:"code"`
	Courses      []Section `json:"courses"`
	TotalClasses int       `json:"totalClasses"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

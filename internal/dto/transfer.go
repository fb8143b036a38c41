package dto

import "github.com/planify-app/planify-api/internal/models"

// ScheduleEnvelopeType tags exported schedule files.
const ScheduleEnvelopeType = "planify-schedule"

// ScheduleEnvelopeVersion is the current export format version.
const ScheduleEnvelopeVersion = 1

// ScheduleEnvelope is the schedule export/import file format. Catalog-only
// imports use a bare section array instead; the two shapes must not be
// cross-fed.
type ScheduleEnvelope struct {
	Type         string           `json:"type"`
	Version      int              `json:"version"`
	ScheduleName string           `json:"scheduleName"`
	Data         []models.Section `json:"data"`
}

// SaveScheduleRequest persists the given sections under a name.
type SaveScheduleRequest struct {
	ScheduleName string           `json:"schedule_name" validate:"required"`
	ScheduleData []models.Section `json:"schedule_data" validate:"required,min=1"`
}

// ImportTarget selects which import path a payload is meant for.
type ImportTarget string

const (
	ImportTargetSchedule ImportTarget = "schedule"
	ImportTargetCatalog  ImportTarget = "catalog"
)

// ImportResult summarises a completed import.
type ImportResult struct {
	Target       ImportTarget     `json:"target"`
	ScheduleName string           `json:"scheduleName,omitempty"`
	Sections     []models.Section `json:"sections"`
	Count        int              `json:"count"`
}

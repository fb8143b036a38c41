package dto

import "github.com/planify-app/planify-api/internal/models"

// ToggleSectionRequest carries the section to toggle in or out of the
// current selection.
type ToggleSectionRequest struct {
	Section models.Section `json:"section" validate:"required"`
}

// ReplaceSelectionRequest replaces the selection wholesale.
type ReplaceSelectionRequest struct {
	Sections []models.Section `json:"sections" validate:"required"`
}

// SelectionView is the derived state of a selection: the sorted sections
// plus conflicts and statistics recomputed from them.
type SelectionView struct {
	Sections  []models.Section     `json:"sections"`
	Conflicts []models.Conflict    `json:"conflicts"`
	Stats     models.ScheduleStats `json:"stats"`
}

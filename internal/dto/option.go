package dto

// CandidateSection is a loosely-typed section record from an AI-generated
// candidate schedule. Field presence is not guaranteed, so every field is a
// pointer and validation happens during normalization.
type CandidateSection struct {
	ID        *string  `json:"id"`
	Code      *string  `json:"code"`
	Name      *string  `json:"name"`
	Lecturer  *string  `json:"lecturer"`
	Credits   *float64 `json:"credits"`
	Room      *string  `json:"room"`
	Day       *string  `json:"day"`
	StartTime *string  `json:"startTime"`
	EndTime   *string  `json:"endTime"`
	Semester  *string  `json:"semester"`
	Category  *string  `json:"category"`
	Class     *string  `json:"class"`
}

// NormalizeOptionsRequest carries a batch of candidate schedules.
type NormalizeOptionsRequest struct {
	Options [][]CandidateSection `json:"options" validate:"required,min=1"`
}

// ApplyOptionRequest promotes one previously normalized option into the
// live selection.
type ApplyOptionRequest struct {
	Ordinal int `json:"ordinal" validate:"min=1"`
}

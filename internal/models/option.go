package models

// ScheduleOption is one externally generated candidate schedule, normalized
// into the internal section model for uniform preview.
type ScheduleOption struct {
	Ordinal      int           `json:"ordinal"`
	Sections     []Section     `json:"sections"`
	TotalCredits int           `json:"totalCredits"`
	FreeDays     []string      `json:"freeDays"`
	Conflicts    []Conflict    `json:"conflicts"`
	Stats        ScheduleStats `json:"stats"`
}

// OptionRejection explains why one candidate schedule failed normalization.
type OptionRejection struct {
	Ordinal int    `json:"ordinal"`
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Reason  string `json:"reason"`
}

// OptionBatchResult carries partial-success output of batch normalization:
// accepted options plus rejections for their malformed siblings.
type OptionBatchResult struct {
	Accepted []ScheduleOption  `json:"accepted"`
	Rejected []OptionRejection `json:"rejected"`
}

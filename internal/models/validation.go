package models

import "fmt"

// SectionIssue describes a single malformed field on a section record.
type SectionIssue struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// SectionValidationError is returned when one or more section records are malformed.
type SectionValidationError struct {
	Message string         `json:"message"`
	Issues  []SectionIssue `json:"issues"`
}

// Error implements the error interface for section validation failures.
func (e *SectionValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Issues) == 0 {
		return e.Message
	}
	first := e.Issues[0]
	return fmt.Sprintf("%s: record %d field %s %s", e.Message, first.Index, first.Field, first.Reason)
}

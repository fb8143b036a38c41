package models

// Conflict pairs two selected sections whose day and time intervals overlap.
// Conflicts are derived values, recomputed from the current selection and
// never stored.
type Conflict struct {
	Course1 Section `json:"course1"`
	Course2 Section `json:"course2"`
	Day     string  `json:"day"`
	Time    string  `json:"time"`
}

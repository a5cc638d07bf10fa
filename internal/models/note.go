package models

import "time"

// Timestamp is a Unix time in milliseconds, the unit the browser store used.
type Timestamp int64

// TimestampOf converts t to a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time converts the timestamp back to a local time.Time.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

// Note is a study note owned by the notes store.
type Note struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Subject      Subject   `json:"subject"`
	Content      string    `json:"content"`
	Created      Timestamp `json:"created"`
	LastModified Timestamp `json:"lastModified"`
}

// Goals are the weekly study targets.
type Goals struct {
	StudyHours int `json:"studyHours"`
	Flashcards int `json:"flashcards"`
	Notes      int `json:"notes"`
}

// DefaultGoals returns the goals used before the user sets any.
func DefaultGoals() Goals {
	return Goals{StudyHours: 20, Flashcards: 60, Notes: 15}
}

package notes

import (
	"time"

	"github.com/starford/scistudy/internal/clock"
	"github.com/starford/scistudy/internal/models"
)

// PreviewLength is the number of runes kept by Preview.
const PreviewLength = 150

// SubjectCount is the number of notes tagged with a subject.
type SubjectCount struct {
	Subject models.Subject `json:"subject"`
	Name    string         `json:"name"`
	Count   int            `json:"count"`
}

// DayCount is the number of notes created on one day.
type DayCount struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CalendarDay is one day cell of a month view.
type CalendarDay struct {
	Day      int  `json:"day"`
	HasNotes bool `json:"hasNotes"`
	Today    bool `json:"today"`
}

// MonthView is a calendar month. LeadingBlanks is the number of empty cells
// before day 1 in a Sunday-first grid.
type MonthView struct {
	Label         string        `json:"label"`
	LeadingBlanks int           `json:"leadingBlanks"`
	Days          []CalendarDay `json:"days"`
}

// Summary is the notes overview shown next to the list.
type Summary struct {
	Total               int            `json:"total"`
	ThisWeek            int            `json:"thisWeek"`
	FavoriteSubject     models.Subject `json:"favoriteSubject"`
	FavoriteSubjectName string         `json:"favoriteSubjectName"`
}

// AggregateBySubject counts notes per subject, in the order each subject is
// first encountered in the collection.
func (s *Store) AggregateBySubject() []SubjectCount {
	var out []SubjectCount
	pos := make(map[models.Subject]int)
	for _, n := range s.notes {
		i, ok := pos[n.Subject]
		if !ok {
			i = len(out)
			pos[n.Subject] = i
			out = append(out, SubjectCount{Subject: n.Subject, Name: n.Subject.DisplayName()})
		}
		out[i].Count++
	}
	return out
}

// FavoriteSubject returns the most frequent subject. Ties go to the subject
// encountered first; an empty collection yields biology.
func (s *Store) FavoriteSubject() models.Subject {
	fav, best := models.SubjectBiology, 0
	for _, c := range s.AggregateBySubject() {
		if c.Count > best {
			fav, best = c.Subject, c.Count
		}
	}
	return fav
}

// CountCreatedBetween counts notes with start <= created < end.
func (s *Store) CountCreatedBetween(start, end time.Time) int {
	lo, hi := models.TimestampOf(start), models.TimestampOf(end)
	count := 0
	for _, n := range s.notes {
		if n.Created >= lo && n.Created < hi {
			count++
		}
	}
	return count
}

// CountThisWeek counts notes created since the start of now's week (Sunday).
func (s *Store) CountThisWeek(now time.Time) int {
	start := clock.StartOfWeek(now)
	count := 0
	for _, n := range s.notes {
		if n.Created >= models.TimestampOf(start) {
			count++
		}
	}
	return count
}

// DailyCounts returns per-day creation counts for the last days days ending
// today, oldest first.
func (s *Store) DailyCounts(now time.Time, days int) []DayCount {
	if days <= 0 {
		return nil
	}
	today := clock.StartOfDay(now)
	out := make([]DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		out = append(out, DayCount{
			Date:  clock.DateKey(day),
			Label: day.Format("Jan 2"),
			Count: s.CountCreatedBetween(day, day.AddDate(0, 0, 1)),
		})
	}
	return out
}

// Month builds the calendar for now's month.
func (s *Store) Month(now time.Time) MonthView {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	daysIn := first.AddDate(0, 1, -1).Day()

	mv := MonthView{
		Label:         first.Format("January 2006"),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]CalendarDay, daysIn),
	}
	for d := 1; d <= daysIn; d++ {
		start := first.AddDate(0, 0, d-1)
		mv.Days[d-1] = CalendarDay{
			Day:      d,
			HasNotes: s.CountCreatedBetween(start, start.AddDate(0, 0, 1)) > 0,
			Today:    d == now.Day(),
		}
	}
	return mv
}

// Stats summarises the collection as of now.
func (s *Store) Stats(now time.Time) Summary {
	fav := s.FavoriteSubject()
	return Summary{
		Total:               len(s.notes),
		ThisWeek:            s.CountThisWeek(now),
		FavoriteSubject:     fav,
		FavoriteSubjectName: fav.DisplayName(),
	}
}

// Preview truncates content to PreviewLength runes, marking the cut.
func Preview(content string) string {
	r := []rune(content)
	if len(r) <= PreviewLength {
		return content
	}
	return string(r[:PreviewLength]) + "..."
}

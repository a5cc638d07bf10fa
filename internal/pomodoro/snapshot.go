package pomodoro

import (
	"fmt"

	"github.com/starford/scistudy/internal/models"
)

// Snapshot is the render state of the timer.
type Snapshot struct {
	Phase          models.Phase         `json:"phase"`
	PhaseLabel     string               `json:"phaseLabel"`
	Remaining      int                  `json:"remaining"`
	Display        string               `json:"display"`
	SessionCount   int                  `json:"sessionCount"`
	SessionLabel   string               `json:"sessionLabel"`
	StartLabel     string               `json:"startLabel"`
	Running        bool                 `json:"running"`
	Paused         bool                 `json:"paused"`
	Progress       float64              `json:"progress"`
	Subject        models.Subject       `json:"subject"`
	SubjectName    string               `json:"subjectName"`
	SubjectNameAr  string               `json:"subjectNameAr"`
	Settings       models.TimerSettings `json:"settings"`
	Stats          models.StudyStats    `json:"stats"`
	FocusTimeLabel string               `json:"focusTimeLabel"`
	StreakLabel    string               `json:"streakLabel"`
	WeeklyMinutes  [7]int               `json:"weeklyMinutes"`
	SubjectMinutes map[string]int       `json:"subjectMinutes"`
}

// Snapshot returns the render state.
func (t *Timer) Snapshot() Snapshot {
	stats := t.Stats()
	snap := Snapshot{
		Phase:          t.phase,
		PhaseLabel:     t.phase.Label(),
		Remaining:      t.remaining,
		Display:        FormatClock(t.remaining),
		SessionCount:   t.sessionCount,
		Running:        t.running,
		Paused:         t.paused,
		Subject:        t.subject,
		SubjectName:    t.subject.DisplayName(),
		SubjectNameAr:  t.subject.ArabicName(),
		Settings:       t.settings,
		Stats:          stats,
		FocusTimeLabel: fmt.Sprintf("%dh %dm", stats.FocusTimeToday/3600, stats.FocusTimeToday%3600/60),
		StreakLabel:    fmt.Sprintf("%d days", stats.StudyStreak),
		SubjectMinutes: make(map[string]int),
	}

	if d := t.phaseDuration(t.phase); d > 0 {
		snap.Progress = 1 - float64(t.remaining)/float64(d)
	}

	switch t.phase {
	case models.PhaseShortBreak:
		snap.SessionLabel = "Take a quick rest"
		snap.StartLabel = "Start Short Break"
	case models.PhaseLongBreak:
		snap.SessionLabel = "Time for a longer rest"
		snap.StartLabel = "Start Long Break"
	default:
		snap.SessionLabel = fmt.Sprintf("Session %d of %d", t.sessionCount%SessionsPerCycle+1, SessionsPerCycle)
		snap.StartLabel = "Start Focus"
	}

	for i, secs := range stats.WeeklyData {
		snap.WeeklyMinutes[i] = (secs + 30) / 60
	}
	for _, s := range models.Subjects {
		if secs := stats.SubjectData[s]; secs > 0 {
			snap.SubjectMinutes[s.DisplayName()] = (secs + 30) / 60
		}
	}
	return snap
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

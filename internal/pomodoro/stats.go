package pomodoro

import (
	"time"

	"github.com/starford/scistudy/internal/clock"
	"github.com/starford/scistudy/internal/models"
)

// Achievement thresholds.
const (
	firstSessionThreshold = 1
	dailyGoalThreshold    = 4
	weekStreakThreshold   = 7
)

// creditFocus adds a completed focus session of seconds length.
func (t *Timer) creditFocus(seconds int) {
	now := t.cfg.Clock.Now()
	t.rollover(now)

	t.stats.SessionsToday++
	t.stats.FocusTimeToday += seconds
	t.stats.SubjectData[t.subject] += seconds
	t.stats.WeeklyData[int(now.Weekday())] += seconds
}

// rollover starts a new day's counters when the previous session was on an
// earlier date, extending the streak only across consecutive days.
func (t *Timer) rollover(now time.Time) {
	today := clock.DateKey(now)
	if t.stats.LastSessionDate == today {
		return
	}

	streak := 1
	if t.stats.LastSessionDate != "" {
		last, err := time.ParseInLocation(time.DateOnly, t.stats.LastSessionDate, now.Location())
		if err == nil {
			yesterday := clock.StartOfDay(now).AddDate(0, 0, -1)
			if last.Equal(yesterday) {
				streak = t.stats.StudyStreak + 1
			}
			if last.Before(clock.StartOfWeek(now)) {
				t.stats.WeeklyData = [7]int{}
			}
		}
	}

	t.stats.StudyStreak = streak
	t.stats.SessionsToday = 0
	t.stats.FocusTimeToday = 0
	t.stats.LastSessionDate = today
}

func (t *Timer) checkAchievements() {
	if t.stats.SessionsToday == firstSessionThreshold {
		t.cfg.Notify(models.Notification{
			Kind:    models.NotifyAchievement,
			Title:   "First Session Complete! 🎉",
			Message: "You completed your first study session today!",
		})
	}
	if t.stats.SessionsToday == dailyGoalThreshold {
		t.cfg.Notify(models.Notification{
			Kind:    models.NotifyAchievement,
			Title:   "Daily Goal Met! 🎯",
			Message: "You completed 4 focus sessions today!",
		})
	}
	if t.stats.StudyStreak == weekStreakThreshold {
		t.cfg.Notify(models.Notification{
			Kind:    models.NotifyAchievement,
			Title:   "Week Streak! 🔥",
			Message: "You studied for 7 days in a row!",
		})
	}
}

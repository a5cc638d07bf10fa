package models

// StudyStats accumulates completed focus sessions.
type StudyStats struct {
	SessionsToday   int             `json:"sessionsToday"`
	FocusTimeToday  int             `json:"focusTimeToday"`
	StudyStreak     int             `json:"studyStreak"`
	WeeklyData      [7]int          `json:"weeklyData"`
	SubjectData     map[Subject]int `json:"subjectData"`
	LastSessionDate string          `json:"lastSessionDate,omitempty"`
}

// NewStudyStats returns zeroed stats with every subject present.
func NewStudyStats() StudyStats {
	data := make(map[Subject]int, len(Subjects))
	for _, s := range Subjects {
		data[s] = 0
	}
	return StudyStats{SubjectData: data}
}

// TimerSettings holds phase durations in seconds.
type TimerSettings struct {
	FocusDuration      int `json:"focusDuration"`
	ShortBreakDuration int `json:"shortBreakDuration"`
	LongBreakDuration  int `json:"longBreakDuration"`
}

// LearningStats are the translator page counters.
type LearningStats struct {
	TermsLearned int `json:"termsLearned"`
	StudyStreak  int `json:"studyStreak"`
	StudyTime    int `json:"studyTime"`
}

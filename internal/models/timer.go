package models

// Phase is a Pomodoro timer state.
type Phase string

const (
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "shortBreak"
	PhaseLongBreak  Phase = "longBreak"
)

// Label returns the heading shown for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Focus Time"
	}
}

// IsBreak reports whether p is a break phase.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Direction selects which side of a flashcard is the prompt.
type Direction string

const (
	EnglishToArabic Direction = "en-to-ar"
	ArabicToEnglish Direction = "ar-to-en"
)

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == ArabicToEnglish {
		return EnglishToArabic
	}
	return ArabicToEnglish
}

// Label returns the button caption for the direction.
func (d Direction) Label() string {
	if d == ArabicToEnglish {
		return "Arabic → English"
	}
	return "English → Arabic"
}

// Difficulty is a cosmetic self-rating for a flashcard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

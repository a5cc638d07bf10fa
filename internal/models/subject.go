package models

import "fmt"

// Subject tags notes and focus sessions.
type Subject string

const (
	SubjectBiology     Subject = "biology"
	SubjectChemistry   Subject = "chemistry"
	SubjectPhysics     Subject = "physics"
	SubjectMathematics Subject = "mathematics"
	SubjectComputer    Subject = "computer"
	SubjectGeneral     Subject = "general"
)

// Subjects lists every subject in display order.
var Subjects = []Subject{
	SubjectGeneral,
	SubjectBiology,
	SubjectChemistry,
	SubjectPhysics,
	SubjectMathematics,
	SubjectComputer,
}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	switch s {
	case SubjectBiology, SubjectChemistry, SubjectPhysics, SubjectMathematics, SubjectComputer, SubjectGeneral:
		return true
	}
	return false
}

// ParseSubject converts a raw string into a Subject.
func ParseSubject(raw string) (Subject, error) {
	s := Subject(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown subject %q", raw)
	}
	return s, nil
}

// SubjectValues returns the subjects as a slice usable with validation.In.
func SubjectValues() []interface{} {
	out := make([]interface{}, len(Subjects))
	for i, s := range Subjects {
		out[i] = s
	}
	return out
}

// DisplayName returns the English label.
func (s Subject) DisplayName() string {
	switch s {
	case SubjectBiology:
		return "Biology"
	case SubjectChemistry:
		return "Chemistry"
	case SubjectPhysics:
		return "Physics"
	case SubjectMathematics:
		return "Mathematics"
	case SubjectComputer:
		return "Computer Science"
	case SubjectGeneral:
		return "General Study"
	}
	return string(s)
}

// ArabicName returns the Arabic label.
func (s Subject) ArabicName() string {
	switch s {
	case SubjectBiology:
		return "علم الأحياء"
	case SubjectChemistry:
		return "كيمياء"
	case SubjectPhysics:
		return "فيزياء"
	case SubjectMathematics:
		return "رياضيات"
	case SubjectComputer:
		return "علم الحاسوب"
	case SubjectGeneral:
		return "دراسة عامة"
	}
	return string(s)
}

// SubjectFilter selects notes: a subject or FilterAll.
type SubjectFilter string

// ParseSubjectFilter accepts "all" (or empty) or a known subject.
func ParseSubjectFilter(raw string) (SubjectFilter, error) {
	if raw == "" || raw == FilterAll {
		return FilterAll, nil
	}
	if _, err := ParseSubject(raw); err != nil {
		return "", err
	}
	return SubjectFilter(raw), nil
}

// Matches reports whether s passes the filter.
func (f SubjectFilter) Matches(s Subject) bool {
	return f == FilterAll || Subject(f) == s
}

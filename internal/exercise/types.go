// Package exercise defines the exercise record and its two supply paths:
// fast pregenerated pools from the lesson store and slow on-demand
// generation through the model backend.
package exercise

import "fmt"

// MaxHints is the hint budget per exercise.
const MaxHints = 3

// Phase tags an exercise with the lesson stage it belongs to.
type Phase string

const (
	PhaseTheory     Phase = "theory"
	PhasePractice   Phase = "practice"
	PhaseAssessment Phase = "assessment"
)

// Difficulty is the fixed ordered tier set.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Weight is the score value of a correct answer at this tier.
func (d Difficulty) Weight() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

func validDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Exercise is immutable once fetched. The engine never mutates one.
type Exercise struct {
	ID          string
	LessonID    string
	Phase       Phase
	Statement   string
	Answer      string
	Difficulty  Difficulty
	Hints       []string // ordered by increasing specificity, at most MaxHints
	Explanation string
}

// DataIntegrityError marks a malformed exercise. Such exercises are
// skipped and logged, never presented or substituted with placeholders.
type DataIntegrityError struct {
	ID     string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("exercise %q: %s", e.ID, e.Reason)
}

// Validate checks the required fields at the supply boundary.
func (e *Exercise) Validate() error {
	if e.Statement == "" {
		return &DataIntegrityError{ID: e.ID, Reason: "empty statement"}
	}
	if e.Answer == "" {
		return &DataIntegrityError{ID: e.ID, Reason: "empty answer"}
	}
	if len(e.Hints) > MaxHints {
		return &DataIntegrityError{ID: e.ID, Reason: fmt.Sprintf("%d hints exceeds maximum %d", len(e.Hints), MaxHints)}
	}
	if !validDifficulty(e.Difficulty) {
		return &DataIntegrityError{ID: e.ID, Reason: fmt.Sprintf("unknown difficulty %q", e.Difficulty)}
	}
	switch e.Phase {
	case PhaseTheory, PhasePractice, PhaseAssessment:
	default:
		return &DataIntegrityError{ID: e.ID, Reason: fmt.Sprintf("unknown phase %q", e.Phase)}
	}
	return nil
}

// Package lesson holds the pure lesson state machine: phase progression,
// per-exercise answer/hint state, and scoring. It performs no I/O; the
// engine feeds it one Input per tick and executes the returned commands.
package lesson

// Phase is the coarse lesson stage. Progression is monotonic; the only
// backward move is the learner's explicit retry-phase command.
type Phase int

const (
	PhaseTheory Phase = iota
	PhasePractice
	PhaseAssessment
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseTheory:
		return "theory"
	case PhasePractice:
		return "practice"
	case PhaseAssessment:
		return "assessment"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// StepState is the inner state of the current exercise.
type StepState int

const (
	StepIdle StepState = iota
	StepAwaitingAnswer
	StepCorrect
	StepIncorrectRetry
	StepIncorrectExhausted
)

// Mood drives the avatar's expression on the presentation surface.
type Mood string

const (
	MoodNeutral   Mood = "neutral"
	MoodSpeaking  Mood = "speaking"
	MoodHappy     Mood = "happy"
	MoodConcerned Mood = "concerned"
	MoodProud     Mood = "proud"
)

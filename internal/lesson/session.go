package lesson

import (
	"time"

	"github.com/stefego2-arch/Avatar/internal/exercise"
)

// Session is the runtime state of one (user, lesson) run. It is owned
// exclusively by the engine goroutine: leaves never touch it, they only
// emit values the engine feeds into Step.
type Session struct {
	ID       string
	UserID   string
	LessonID string

	Phase     Phase
	StartedAt time.Time

	// TheoryChunks is the narration script, spoken one chunk at a time.
	TheoryChunks []string
	ChunkIndex   int
	ChunkSpoken  bool // current chunk's utterance has been issued

	// Queue holds the exercises staged for the current phase. The engine
	// appends; the machine pops.
	Queue   []*exercise.Exercise
	Current *exercise.Exercise

	HintsShown int
	Step       StepState

	// Held is true between a non-engaged attention edge and the next
	// engaged reading. While held, nothing new is presented or narrated;
	// answers are still scored.
	Held bool

	// PendingAdvance defers moving past the current exercise until the
	// channel is idle and attention is back.
	PendingAdvance bool

	Score       int
	PhaseScores map[Phase]int

	ExercisesServed int
	CorrectCount    int
	AnswerCount     int

	Aborted   bool
	Finalized bool

	encourageIdx int
	praiseIdx    int
}

// NewSession creates a session at the start of the theory phase.
func NewSession(id, userID, lessonID string, theoryChunks []string) *Session {
	return &Session{
		ID:           id,
		UserID:       userID,
		LessonID:     lessonID,
		Phase:        PhaseTheory,
		StartedAt:    time.Now(),
		TheoryChunks: theoryChunks,
		PhaseScores:  make(map[Phase]int),
	}
}

// Duration returns the elapsed session time.
func (s *Session) Duration() time.Duration {
	return time.Since(s.StartedAt)
}

// Accuracy returns the fraction of correct answers, or 0 with no answers.
func (s *Session) Accuracy() float64 {
	if s.AnswerCount == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.AnswerCount)
}

// answerable reports whether a submission is accepted right now: the
// first attempt or a retry after a hint.
func (s *Session) answerable() bool {
	return s.Step == StepAwaitingAnswer || s.Step == StepIncorrectRetry
}

func (s *Session) addScore(points int) {
	s.Score += points
	s.PhaseScores[s.Phase] += points
}

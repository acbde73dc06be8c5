package lesson

import (
	"github.com/stefego2-arch/Avatar/internal/exercise"
	"github.com/stefego2-arch/Avatar/internal/speech"
)

// Command is a side effect the engine must execute after a tick. The
// machine emits at most one speech command per tick; when an interrupt
// and a normal request collide, the interrupt wins and the normal one
// is dropped before Step returns.
type Command interface{ isCommand() }

// SpeakCmd requests an utterance on the voice channel.
type SpeakCmd struct {
	Text     string
	Priority speech.Priority
}

// ShowExerciseCmd presents a new current exercise.
type ShowExerciseCmd struct {
	Exercise *exercise.Exercise
}

// ShowHintCmd reveals the next hint for the current exercise.
type ShowHintCmd struct {
	Text string
}

// ShowFeedbackCmd reports the result of a submission. Answer is set only
// on the exhausted-remediation path and at assessment reveal time.
type ShowFeedbackCmd struct {
	Correct     bool
	Explanation string
	Answer      string
}

// SetMoodCmd updates the avatar expression.
type SetMoodCmd struct {
	Mood Mood
}

// SetPhaseCmd announces a phase change to the presentation surface.
type SetPhaseCmd struct {
	Phase Phase
}

// EnsureExercisesCmd asks the engine to fill the session queue for a
// phase: pregenerated pool first, then an async generative top-up if
// the backend is reachable.
type EnsureExercisesCmd struct {
	Phase exercise.Phase
}

// FinalizeCmd ends the session; the engine persists the result and
// unwinds the tick loop.
type FinalizeCmd struct {
	Aborted bool
}

func (SpeakCmd) isCommand()           {}
func (ShowExerciseCmd) isCommand()    {}
func (ShowHintCmd) isCommand()        {}
func (ShowFeedbackCmd) isCommand()    {}
func (SetMoodCmd) isCommand()         {}
func (SetPhaseCmd) isCommand()        {}
func (EnsureExercisesCmd) isCommand() {}
func (FinalizeCmd) isCommand()        {}

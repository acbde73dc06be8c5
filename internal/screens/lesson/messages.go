package lesson

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/stefego2-arch/Avatar/internal/engine"
	"github.com/stefego2-arch/Avatar/internal/exercise"
	les "github.com/stefego2-arch/Avatar/internal/lesson"
	"github.com/stefego2-arch/Avatar/internal/store"
)

// lessonStartedMsg is sent once the engine is running.
type lessonStartedMsg struct {
	Engine *engine.Engine
	Meta   *store.Lesson
	Cancel context.CancelFunc
}

// lessonFailedMsg is sent when the lesson could not be started.
type lessonFailedMsg struct {
	Err error
}

// Presenter messages, emitted by the engine's tick loop and delivered
// through the screen's update channel.
type showExerciseMsg struct {
	Exercise *exercise.Exercise
}

type showHintMsg struct {
	Text string
}

type showFeedbackMsg struct {
	Correct     bool
	Explanation string
	Answer      string
}

type moodMsg struct {
	Mood les.Mood
}

type phaseMsg struct {
	Phase les.Phase
}

type lessonEndedMsg struct {
	Result *store.SessionResult
}

// presenter implements engine.Presenter by forwarding each call onto
// the screen's update channel. Visual updates are dropped if the buffer
// is full rather than blocking the tick loop; the end-of-lesson message
// always goes through.
type presenter struct {
	ch chan tea.Msg
}

var _ engine.Presenter = presenter{}

func (p presenter) ShowExercise(ex *exercise.Exercise) { p.send(showExerciseMsg{Exercise: ex}) }
func (p presenter) ShowHint(text string)               { p.send(showHintMsg{Text: text}) }
func (p presenter) SetAvatarMood(mood les.Mood)        { p.send(moodMsg{Mood: mood}) }
func (p presenter) SetPhase(phase les.Phase)           { p.send(phaseMsg{Phase: phase}) }

func (p presenter) ShowFeedback(correct bool, explanation, answer string) {
	p.send(showFeedbackMsg{Correct: correct, Explanation: explanation, Answer: answer})
}

func (p presenter) LessonEnded(result *store.SessionResult) {
	p.ch <- lessonEndedMsg{Result: result}
}

func (p presenter) send(msg tea.Msg) {
	select {
	case p.ch <- msg:
	default:
	}
}

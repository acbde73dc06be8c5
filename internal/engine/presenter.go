package engine

import (
	"github.com/stefego2-arch/Avatar/internal/exercise"
	"github.com/stefego2-arch/Avatar/internal/lesson"
	"github.com/stefego2-arch/Avatar/internal/store"
)

// Presenter is the engine's view of the presentation surface. All calls
// are fire-and-forget; the surface must never block the tick loop.
type Presenter interface {
	ShowExercise(ex *exercise.Exercise)
	ShowHint(text string)
	ShowFeedback(correct bool, explanation, answer string)
	SetAvatarMood(mood lesson.Mood)
	SetPhase(phase lesson.Phase)
	LessonEnded(result *store.SessionResult)
}

// NopPresenter discards all presentation calls.
type NopPresenter struct{}

func (NopPresenter) ShowExercise(*exercise.Exercise)   {}
func (NopPresenter) ShowHint(string)                   {}
func (NopPresenter) ShowFeedback(bool, string, string) {}
func (NopPresenter) SetAvatarMood(lesson.Mood)         {}
func (NopPresenter) SetPhase(lesson.Phase)             {}
func (NopPresenter) LessonEnded(*store.SessionResult)  {}

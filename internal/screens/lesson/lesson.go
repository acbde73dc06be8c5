// Package lesson is the live lesson screen: it hosts the orchestration
// engine for one session and renders what the engine tells it to show.
package lesson

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stefego2-arch/Avatar/internal/attention"
	"github.com/stefego2-arch/Avatar/internal/engine"
	"github.com/stefego2-arch/Avatar/internal/exercise"
	les "github.com/stefego2-arch/Avatar/internal/lesson"
	"github.com/stefego2-arch/Avatar/internal/router"
	"github.com/stefego2-arch/Avatar/internal/screen"
	"github.com/stefego2-arch/Avatar/internal/screens/summary"
	"github.com/stefego2-arch/Avatar/internal/speech"
	"github.com/stefego2-arch/Avatar/internal/store"
	"github.com/stefego2-arch/Avatar/internal/ui/components"
	"github.com/stefego2-arch/Avatar/internal/ui/layout"
)

// Deps carries the long-lived runtime pieces a lesson needs. The screen
// builds the per-session pieces (engine, monitor, speech channel) itself.
type Deps struct {
	Store     *store.Store
	Generator exercise.Generator          // nil: pregenerated exercises only
	Synth     speech.Synthesizer          // nil: silent lesson
	NewSensor func() attention.Sensor     // nil: no attention sensing
	UserID    string
	Log       zerolog.Logger
}

type feedback struct {
	correct     bool
	explanation string
	answer      string
}

// LessonScreen implements screen.Screen for an active lesson.
type LessonScreen struct {
	deps     Deps
	lessonID string

	updates chan tea.Msg
	eng     *engine.Engine
	cancel  context.CancelFunc

	meta     *store.Lesson
	phase    les.Phase
	mood     les.Mood
	current  *exercise.Exercise
	hints    []string
	feedback *feedback
	answered int
	correct  int

	input       components.TextInput
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.StatusProvider = (*LessonScreen)(nil)

// New creates a lesson screen for the given lesson id. The engine does
// not start until Init runs.
func New(deps Deps, lessonID string) *LessonScreen {
	return &LessonScreen{
		deps:     deps,
		lessonID: lessonID,
		updates:  make(chan tea.Msg, 64),
		mood:     les.MoodNeutral,
		input:    components.NewTextInput("Type your answer...", 40),
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	return tea.Batch(
		s.startLesson(),
		s.awaitUpdate(),
		s.input.Init(),
	)
}

func (s *LessonScreen) Title() string {
	if s.meta != nil {
		return s.meta.Title
	}
	return "Lesson"
}

func (s *LessonScreen) HeaderStatus() string {
	if s.meta == nil {
		return ""
	}
	return fmt.Sprintf("%s  ✓ %d/%d", s.phase, s.correct, s.answered)
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End lesson"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.current != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+R", Description: "Redo phase"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonStartedMsg:
		s.eng = msg.Engine
		s.meta = msg.Meta
		s.cancel = msg.Cancel
		return s, nil

	case lessonFailedMsg:
		s.errMsg = msg.Err.Error()
		return s, nil

	case showExerciseMsg:
		s.current = msg.Exercise
		s.hints = nil
		s.feedback = nil
		s.input.Reset()
		return s, s.awaitUpdate()

	case showHintMsg:
		s.hints = append(s.hints, msg.Text)
		s.input.Reset()
		return s, s.awaitUpdate()

	case showFeedbackMsg:
		s.feedback = &feedback{
			correct:     msg.Correct,
			explanation: msg.Explanation,
			answer:      msg.Answer,
		}
		s.answered++
		if msg.Correct {
			s.correct++
		}
		s.input.Submit(msg.Correct)
		return s, s.awaitUpdate()

	case moodMsg:
		s.mood = msg.Mood
		return s, s.awaitUpdate()

	case phaseMsg:
		s.phase = msg.Phase
		s.current = nil
		s.hints = nil
		s.feedback = nil
		return s, s.awaitUpdate()

	case lessonEndedMsg:
		if s.cancel != nil {
			s.cancel()
		}
		title := s.lessonID
		if s.meta != nil {
			title = s.meta.Title
		}
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(title, msg.Result)}
		}

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			if s.eng != nil {
				s.eng.Submit(engine.AbortEvent{})
			}
			// The summary replaces this screen when the engine reports
			// the aborted session.
			return s, nil
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "ctrl+r":
		if s.eng != nil && s.current != nil {
			s.eng.Submit(engine.RetryPhaseEvent{})
		}
		return s, nil
	case "enter":
		if s.eng != nil && s.current != nil && s.input.Value() != "" {
			s.eng.Submit(engine.AnswerEvent{Text: s.input.Value()})
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// startLesson builds the per-session leaves and launches the engine.
func (s *LessonScreen) startLesson() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		meta, err := s.deps.Store.LoadLesson(ctx, s.lessonID)
		if err != nil {
			return lessonFailedMsg{Err: err}
		}

		session := les.NewSession(uuid.NewString(), s.deps.UserID, s.lessonID, meta.TheoryChunks())

		var sensor attention.Sensor
		if s.deps.NewSensor != nil {
			sensor = s.deps.NewSensor()
		}
		monitor := attention.NewMonitor(sensor, attention.DefaultConfig(), s.deps.Log)

		synth := s.deps.Synth
		if synth == nil {
			synth = speech.NullSynthesizer{}
		}
		channel := speech.NewChannel(synth, s.deps.Log)

		supply := exercise.NewSupply(s.deps.Store, s.deps.Generator, exercise.DefaultSupplyConfig(), s.deps.Log)

		eng := engine.New(engine.DefaultConfig(), engine.Deps{
			Lesson:    meta,
			Session:   session,
			Machine:   les.NewMachine(les.DefaultConfig()),
			Monitor:   monitor,
			Speech:    channel,
			Supply:    supply,
			Presenter: presenter{ch: s.updates},
			Saver:     s.deps.Store,
		}, s.deps.Log)

		runCtx, cancel := context.WithCancel(context.Background())
		go func() {
			_ = eng.Run(runCtx)
		}()

		return lessonStartedMsg{Engine: eng, Meta: meta, Cancel: cancel}
	}
}

// awaitUpdate blocks on the next presenter message.
func (s *LessonScreen) awaitUpdate() tea.Cmd {
	return func() tea.Msg {
		return <-s.updates
	}
}

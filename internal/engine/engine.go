// Package engine runs the lesson tick loop. Each tick gathers leaf
// observations in a fixed order (attention, speech, learner input),
// feeds them to the lesson machine, and executes the commands it
// returns. All lesson decisions live in the machine; the engine only
// moves data between it and the leaves.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stefego2-arch/Avatar/internal/attention"
	"github.com/stefego2-arch/Avatar/internal/exercise"
	"github.com/stefego2-arch/Avatar/internal/lesson"
	"github.com/stefego2-arch/Avatar/internal/speech"
	"github.com/stefego2-arch/Avatar/internal/store"
)

// SessionSaver persists finished sessions. The lesson store implements it.
type SessionSaver interface {
	SaveSessionResult(ctx context.Context, r *store.SessionResult) error
}

// Config tunes the tick loop.
type Config struct {
	// TickInterval is the cadence of the orchestration loop.
	TickInterval time.Duration

	// BatchSize is the target exercise count per phase; the generative
	// path tops up pregenerated pools shorter than this.
	BatchSize int

	// DrainTimeout bounds how long a completed lesson waits for its
	// closing words to finish playing.
	DrainTimeout time.Duration
}

// DefaultConfig returns the standard loop tuning.
func DefaultConfig() Config {
	return Config{
		TickInterval: 100 * time.Millisecond,
		BatchSize:    5,
		DrainTimeout: 10 * time.Second,
	}
}

// Deps are the leaves the engine orchestrates.
type Deps struct {
	Lesson    *store.Lesson
	Session   *lesson.Session
	Machine   *lesson.Machine
	Monitor   *attention.Monitor
	Speech    *speech.Channel
	Supply    *exercise.Supply
	Presenter Presenter
	Saver     SessionSaver
}

// Engine owns the session for the duration of one lesson run.
type Engine struct {
	cfg Config
	log zerolog.Logger

	meta      *store.Lesson
	session   *lesson.Session
	machine   *lesson.Machine
	monitor   *attention.Monitor
	speech    *speech.Channel
	supply    *exercise.Supply
	presenter Presenter
	saver     SessionSaver

	events chan Event
}

// New creates an engine. A nil presenter is replaced with NopPresenter.
func New(cfg Config, deps Deps, log zerolog.Logger) *Engine {
	if deps.Presenter == nil {
		deps.Presenter = NopPresenter{}
	}
	return &Engine{
		cfg:       cfg,
		log:       log.With().Str("component", "engine").Logger(),
		meta:      deps.Lesson,
		session:   deps.Session,
		machine:   deps.Machine,
		monitor:   deps.Monitor,
		speech:    deps.Speech,
		supply:    deps.Supply,
		presenter: deps.Presenter,
		saver:     deps.Saver,
		events:    make(chan Event, 16),
	}
}

// Submit delivers a learner event for the next tick. It never blocks; if
// the buffer is somehow full the event is dropped and logged.
func (e *Engine) Submit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.log.Warn().Type("event", ev).Msg("event buffer full, dropping")
	}
}

// Run drives the lesson to completion or abort. Cancelling ctx aborts at
// the next tick boundary; the truncated result is still saved.
func (e *Engine) Run(ctx context.Context) error {
	e.monitor.Start()
	defer e.monitor.Stop()

	e.log.Info().
		Str("session", e.session.ID).
		Str("lesson", e.session.LessonID).
		Msg("lesson starting")

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.finalize(true)
			return ctx.Err()
		case <-ticker.C:
		}

		if e.tick(ctx) {
			return nil
		}
	}
}

// tick runs one orchestration step and reports whether the session
// finalized.
func (e *Engine) tick(ctx context.Context) bool {
	var in lesson.Input

	// 1. Attention.
	in.Attention = e.monitor.Sample().State
	if tr, ok := e.monitor.PollTransition(); ok {
		in.Transition = &tr
	}

	// 2. Speech.
	for _, done := range e.speech.Drain() {
		e.log.Debug().Bool("cancelled", done.Cancelled).Msg("utterance finished")
	}
	in.SpeechIdle = !e.speech.IsPlaying()

	// 3. Learner input.
	e.gatherEvents(&in)

	// Late generative batches join the queue before the machine looks
	// at it.
	if batch, ok := e.supply.PollBatch(); ok {
		e.session.Queue = append(e.session.Queue, batch...)
	}
	in.SupplyPending = e.supply.Pending()

	cmds := e.machine.Step(e.session, in)
	return e.execute(ctx, cmds)
}

// gatherEvents drains buffered learner events into the tick input. One
// answer per tick; later answers in the same tick are dropped.
func (e *Engine) gatherEvents(in *lesson.Input) {
	for {
		select {
		case ev := <-e.events:
			switch ev := ev.(type) {
			case AnswerEvent:
				if in.Answer == nil {
					text := ev.Text
					in.Answer = &text
				}
			case RetryPhaseEvent:
				in.RetryPhase = true
			case AbortEvent:
				in.Abort = true
			}
		default:
			return
		}
	}
}

// execute performs the machine's side effects. Returns true once the
// session is finalized.
func (e *Engine) execute(ctx context.Context, cmds []lesson.Command) bool {
	finalized := false
	for _, c := range cmds {
		switch c := c.(type) {
		case lesson.SpeakCmd:
			e.speech.Speak(c.Text, c.Priority)
		case lesson.ShowExerciseCmd:
			e.presenter.ShowExercise(c.Exercise)
		case lesson.ShowHintCmd:
			e.presenter.ShowHint(c.Text)
		case lesson.ShowFeedbackCmd:
			e.presenter.ShowFeedback(c.Correct, c.Explanation, c.Answer)
		case lesson.SetMoodCmd:
			e.presenter.SetAvatarMood(c.Mood)
		case lesson.SetPhaseCmd:
			e.presenter.SetPhase(c.Phase)
		case lesson.EnsureExercisesCmd:
			e.ensureExercises(ctx, c.Phase)
		case lesson.FinalizeCmd:
			e.finalize(c.Aborted)
			finalized = true
		}
	}
	return finalized
}

// ensureExercises stages a phase's exercises: the pregenerated pool
// synchronously, then an asynchronous generative top-up when the pool
// falls short and a backend exists.
func (e *Engine) ensureExercises(ctx context.Context, phase exercise.Phase) {
	pool := e.supply.FetchPregenerated(ctx, e.session.LessonID, phase)
	e.session.Queue = append(e.session.Queue, pool...)

	want := e.cfg.BatchSize - len(pool)
	if want <= 0 || !e.supply.GenerativeAvailable() {
		return
	}
	e.supply.RequestBatch(exercise.BatchRequest{
		Topic:         e.meta.Topic,
		Grade:         e.meta.Grade,
		Subject:       e.meta.Subject,
		TheoryContext: e.meta.Theory,
		Count:         want,
		Phase:         phase,
		LessonID:      e.session.LessonID,
	})
}

// finalize persists the session result and unwinds the leaves. On a
// normal completion the closing words get a bounded window to finish;
// an abort cuts playback immediately.
func (e *Engine) finalize(aborted bool) {
	e.supply.Abort()

	if aborted {
		e.session.Aborted = true
		e.session.Finalized = true
		e.speech.Stop()
	} else {
		e.drainSpeech()
	}

	result := e.result()
	if e.saver != nil {
		// The lesson context may already be cancelled; saving gets its
		// own deadline.
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.saver.SaveSessionResult(saveCtx, result); err != nil {
			e.log.Error().Err(err).Msg("failed to save session result")
		}
	}

	e.presenter.LessonEnded(result)
	e.log.Info().
		Str("session", e.session.ID).
		Int("score", result.Score).
		Bool("aborted", aborted).
		Msg("lesson finished")
}

func (e *Engine) drainSpeech() {
	deadline := time.Now().Add(e.cfg.DrainTimeout)
	for e.speech.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	e.speech.Stop()
}

func (e *Engine) result() *store.SessionResult {
	s := e.session
	return &store.SessionResult{
		ID:              s.ID,
		UserID:          s.UserID,
		LessonID:        s.LessonID,
		StartedAt:       s.StartedAt,
		Duration:        s.Duration(),
		Score:           s.Score,
		PracticeScore:   s.PhaseScores[lesson.PhasePractice],
		AssessmentScore: s.PhaseScores[lesson.PhaseAssessment],
		Answers:         s.AnswerCount,
		Correct:         s.CorrectCount,
		Completed:       s.Phase == lesson.PhaseComplete && !s.Aborted,
		Aborted:         s.Aborted,
	}
}

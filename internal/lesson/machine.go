package lesson

import (
	"github.com/stefego2-arch/Avatar/internal/attention"
	"github.com/stefego2-arch/Avatar/internal/exercise"
	"github.com/stefego2-arch/Avatar/internal/speech"
)

// Input carries everything the machine may consume in one tick. The
// engine fills it in the fixed order attention → speech → learner input,
// and Step processes it in that same order.
type Input struct {
	// Attention is the latest sampled level.
	Attention attention.State

	// Transition is this tick's attention edge event, if any.
	Transition *attention.Transition

	// SpeechIdle is true when the voice channel has nothing active or
	// queued. Phase and chunk advancement wait for it.
	SpeechIdle bool

	// Answer is the learner's submission this tick, if any.
	Answer *string

	// RetryPhase is the learner's explicit request to redo the current
	// phase, the one sanctioned backward move.
	RetryPhase bool

	// Abort unwinds the session at this tick boundary.
	Abort bool

	// SupplyPending is true while a generative batch is in flight for
	// the current phase; an empty queue then means "wait", not "phase
	// over".
	SupplyPending bool
}

// Config tunes machine policy.
type Config struct {
	// HintScoreDivisor divides an exercise's score weight once any hint
	// was revealed for it.
	HintScoreDivisor int
}

// DefaultConfig returns standard policy: hints halve the score value.
func DefaultConfig() Config {
	return Config{HintScoreDivisor: 2}
}

// Machine reduces (session, input) to a command list. It is pure logic:
// safe to drive from tests at any speed.
type Machine struct {
	cfg Config
}

// NewMachine creates a machine with the given policy.
func NewMachine(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// Step advances the session by one tick. Processing order within the
// tick is fixed: attention, then speech, then learner input, so an
// attention interrupt raised here suppresses an exercise advance in the
// same tick.
func (m *Machine) Step(s *Session, in Input) []Command {
	if s.Finalized {
		return nil
	}

	if in.Abort {
		s.Aborted = true
		s.Finalized = true
		return []Command{FinalizeCmd{Aborted: true}}
	}

	var cmds []Command

	// 1. Attention. A non-engaged edge raises the hold and interrupts
	// playback; since that cuts off a theory chunk mid-sentence, the
	// chunk is marked unspoken so it replays on recovery. The hold clears
	// on the sampled level, a single engaged reading being enough.
	if t := in.Transition; t != nil && !t.To.Engaged() {
		s.Held = true
		s.ChunkSpoken = false
		cmds = append(cmds,
			SpeakCmd{Text: s.nextEncouragement(), Priority: speech.PriorityInterrupt},
			SetMoodCmd{Mood: MoodConcerned},
		)
	}
	if s.Held && in.Attention.Engaged() {
		s.Held = false
		cmds = append(cmds, SetMoodCmd{Mood: MoodNeutral})
	}

	// 2. An explicit phase retry preempts any pending advancement; the
	// restaged queue arrives before the next tick.
	if in.RetryPhase {
		cmds = append(cmds, m.retryPhase(s)...)
		return dropShadowedSpeech(cmds)
	}

	// 3. Speech-gated progression. Nothing new starts while audio plays
	// or attention is away; what is already on screen stays.
	if in.SpeechIdle && !s.Held {
		cmds = append(cmds, m.progress(s, in)...)
	}

	// 4. Answers are scored even when attention is away; attention gates
	// advancement, not scoring.
	if in.Answer != nil && s.Current != nil && s.answerable() {
		cmds = append(cmds, m.handleAnswer(s, *in.Answer)...)
	}

	return dropShadowedSpeech(cmds)
}

// progress runs the parts of the lesson that move on their own: theory
// narration and deferred exercise advancement.
func (m *Machine) progress(s *Session, in Input) []Command {
	if s.Phase == PhaseTheory {
		if s.ChunkSpoken {
			s.ChunkIndex++
			s.ChunkSpoken = false
		}
		if s.ChunkIndex < len(s.TheoryChunks) {
			s.ChunkSpoken = true
			return []Command{
				SpeakCmd{Text: s.TheoryChunks[s.ChunkIndex], Priority: speech.PriorityNormal},
				SetMoodCmd{Mood: MoodSpeaking},
			}
		}
		return m.enterPhase(s, PhasePractice)
	}

	if s.PendingAdvance {
		s.PendingAdvance = false
		return m.advance(s, in)
	}
	return nil
}

// advance moves to the next exercise, waits for an in-flight batch, or
// closes out the phase when the queue is truly exhausted.
func (m *Machine) advance(s *Session, in Input) []Command {
	if len(s.Queue) > 0 {
		next := s.Queue[0]
		s.Queue = s.Queue[1:]
		return m.present(s, next)
	}

	if in.SupplyPending {
		// The generative top-up may still deliver; try again next tick.
		s.PendingAdvance = true
		return nil
	}

	switch s.Phase {
	case PhasePractice:
		return m.enterPhase(s, PhaseAssessment)
	case PhaseAssessment:
		return m.complete(s)
	}
	return nil
}

// present makes ex the single current exercise.
func (m *Machine) present(s *Session, ex *exercise.Exercise) []Command {
	s.Current = ex
	s.HintsShown = 0
	s.Step = StepAwaitingAnswer
	s.ExercisesServed++
	return []Command{
		ShowExerciseCmd{Exercise: ex},
		SpeakCmd{Text: ex.Statement, Priority: speech.PriorityNormal},
		SetMoodCmd{Mood: MoodSpeaking},
	}
}

// enterPhase transitions forward and stages the new phase's exercises.
func (m *Machine) enterPhase(s *Session, p Phase) []Command {
	s.Phase = p
	s.Current = nil
	s.HintsShown = 0
	s.Step = StepIdle

	if p == PhaseComplete {
		return m.complete(s)
	}

	s.PendingAdvance = true
	cmds := []Command{
		SetPhaseCmd{Phase: p},
		EnsureExercisesCmd{Phase: exercisePhase(p)},
	}
	if intro, ok := phaseIntros[p]; ok {
		cmds = append(cmds, SpeakCmd{Text: intro, Priority: speech.PriorityNormal})
	}
	return cmds
}

func (m *Machine) complete(s *Session) []Command {
	s.Phase = PhaseComplete
	s.Current = nil
	s.Finalized = true
	return []Command{
		SetPhaseCmd{Phase: PhaseComplete},
		SetMoodCmd{Mood: MoodProud},
		SpeakCmd{Text: phaseIntros[PhaseComplete], Priority: speech.PriorityNormal},
		FinalizeCmd{},
	}
}

// handleAnswer scores a submission and decides between advancing,
// revealing the next hint, and the exhausted-remediation path.
func (m *Machine) handleAnswer(s *Session, answer string) []Command {
	ex := s.Current
	correct := exercise.CheckAnswer(answer, ex)
	s.AnswerCount++

	if correct {
		s.CorrectCount++
		points := ex.Difficulty.Weight()
		if s.HintsShown > 0 && m.cfg.HintScoreDivisor > 1 {
			points /= m.cfg.HintScoreDivisor
		}
		s.addScore(points)
		s.Step = StepCorrect
		s.PendingAdvance = true

		fb := ShowFeedbackCmd{Correct: true}
		if s.Phase == PhaseAssessment {
			// Assessment reveals the explanation only after submission.
			fb.Explanation = ex.Explanation
		}
		if len(ex.Hints) > 0 && s.HintsShown == len(ex.Hints) {
			// The full hint ladder was walked; close out with the worked
			// explanation and the canonical answer even on a correct try.
			fb.Explanation = ex.Explanation
			fb.Answer = ex.Answer
		}
		return []Command{
			fb,
			SetMoodCmd{Mood: MoodHappy},
			SpeakCmd{Text: s.nextPraise(), Priority: speech.PriorityNormal},
		}
	}

	// Assessment never reveals hints: incorrect means feedback plus
	// explanation, then move on.
	if s.Phase == PhaseAssessment {
		s.Step = StepIncorrectExhausted
		s.PendingAdvance = true
		return []Command{
			ShowFeedbackCmd{Correct: false, Explanation: ex.Explanation, Answer: ex.Answer},
			SetMoodCmd{Mood: MoodNeutral},
		}
	}

	if s.HintsShown < len(ex.Hints) {
		hint := ex.Hints[s.HintsShown]
		s.HintsShown++
		s.Step = StepIncorrectRetry
		return []Command{
			ShowHintCmd{Text: hint},
			SetMoodCmd{Mood: MoodNeutral},
			SpeakCmd{Text: hint, Priority: speech.PriorityNormal},
		}
	}

	// Hint budget exhausted: the one path where the canonical answer is
	// shown. Terminal remediation, not a hint; no points.
	s.Step = StepIncorrectExhausted
	s.PendingAdvance = true
	return []Command{
		ShowFeedbackCmd{Correct: false, Explanation: ex.Explanation, Answer: ex.Answer},
		SetMoodCmd{Mood: MoodNeutral},
		SpeakCmd{Text: ex.Explanation, Priority: speech.PriorityNormal},
	}
}

// retryPhase restarts the current phase at the learner's request,
// discarding its score contribution.
func (m *Machine) retryPhase(s *Session) []Command {
	if s.Phase != PhasePractice && s.Phase != PhaseAssessment {
		return nil
	}

	s.Score -= s.PhaseScores[s.Phase]
	s.PhaseScores[s.Phase] = 0
	s.Queue = nil
	s.Current = nil
	s.HintsShown = 0
	s.Step = StepIdle
	s.PendingAdvance = true

	return []Command{
		SetPhaseCmd{Phase: s.Phase},
		EnsureExercisesCmd{Phase: exercisePhase(s.Phase)},
		SpeakCmd{Text: "Let's try this part again.", Priority: speech.PriorityNormal},
	}
}

func exercisePhase(p Phase) exercise.Phase {
	switch p {
	case PhasePractice:
		return exercise.PhasePractice
	case PhaseAssessment:
		return exercise.PhaseAssessment
	}
	return exercise.PhaseTheory
}

// dropShadowedSpeech enforces the per-tick speech rule: if an interrupt
// was issued, normal requests from later stages are dropped, and at most
// one speech command survives.
func dropShadowedSpeech(cmds []Command) []Command {
	hasInterrupt := false
	for _, c := range cmds {
		if sp, ok := c.(SpeakCmd); ok && sp.Priority == speech.PriorityInterrupt {
			hasInterrupt = true
			break
		}
	}

	out := cmds[:0]
	spoken := false
	for _, c := range cmds {
		sp, ok := c.(SpeakCmd)
		if !ok {
			out = append(out, c)
			continue
		}
		if spoken {
			continue
		}
		if hasInterrupt && sp.Priority != speech.PriorityInterrupt {
			continue
		}
		out = append(out, c)
		spoken = true
	}
	return out
}

package lesson

import (
	"testing"

	"github.com/stefego2-arch/Avatar/internal/attention"
	"github.com/stefego2-arch/Avatar/internal/exercise"
	"github.com/stefego2-arch/Avatar/internal/speech"
)

func testExercise(id string, phase exercise.Phase, hints int) *exercise.Exercise {
	ex := &exercise.Exercise{
		ID:          id,
		LessonID:    "lesson-1",
		Phase:       phase,
		Statement:   "What is 2 + 2?",
		Answer:      "4",
		Difficulty:  exercise.DifficultyMedium,
		Explanation: "Two and two make four.",
	}
	for i := 0; i < hints; i++ {
		ex.Hints = append(ex.Hints, "Count up from two.")
	}
	return ex
}

func testSession(chunks ...string) *Session {
	return NewSession("session-1", "user-1", "lesson-1", chunks)
}

// idle is the baseline input: attention engaged, nothing playing.
func idle() Input {
	return Input{Attention: attention.StateEngaged, SpeechIdle: true}
}

func answer(text string) Input {
	in := idle()
	in.Answer = &text
	return in
}

func transitionTo(to attention.State) Input {
	in := idle()
	in.Attention = to
	in.Transition = &attention.Transition{From: attention.StateEngaged, To: to}
	return in
}

func findSpeak(cmds []Command) (SpeakCmd, bool) {
	for _, c := range cmds {
		if sp, ok := c.(SpeakCmd); ok {
			return sp, true
		}
	}
	return SpeakCmd{}, false
}

func findFeedback(cmds []Command) (ShowFeedbackCmd, bool) {
	for _, c := range cmds {
		if fb, ok := c.(ShowFeedbackCmd); ok {
			return fb, true
		}
	}
	return ShowFeedbackCmd{}, false
}

func countSpeaks(cmds []Command) int {
	n := 0
	for _, c := range cmds {
		if _, ok := c.(SpeakCmd); ok {
			n++
		}
	}
	return n
}

// presentExercise drives a fresh session to the point where ex is the
// current exercise awaiting an answer.
func presentExercise(t *testing.T, m *Machine, s *Session, ex *exercise.Exercise) {
	t.Helper()
	s.Phase = PhasePractice
	if ex.Phase == exercise.PhaseAssessment {
		s.Phase = PhaseAssessment
	}
	s.Queue = []*exercise.Exercise{ex}
	s.PendingAdvance = true
	m.Step(s, idle())
	if s.Current != ex {
		t.Fatalf("setup: Current = %v, want %v", s.Current, ex)
	}
}

func TestTheory_NarratesChunkByChunk(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession("First chunk.", "Second chunk.")

	cmds := m.Step(s, idle())
	sp, ok := findSpeak(cmds)
	if !ok || sp.Text != "First chunk." {
		t.Fatalf("expected first chunk spoken, got %v", cmds)
	}

	// While the chunk plays nothing advances.
	in := idle()
	in.SpeechIdle = false
	if cmds := m.Step(s, in); countSpeaks(cmds) != 0 {
		t.Errorf("expected silence while chunk plays, got %v", cmds)
	}

	cmds = m.Step(s, idle())
	sp, ok = findSpeak(cmds)
	if !ok || sp.Text != "Second chunk." {
		t.Fatalf("expected second chunk spoken, got %v", cmds)
	}

	// After the last chunk the practice phase begins.
	cmds = m.Step(s, idle())
	if s.Phase != PhasePractice {
		t.Errorf("Phase = %v, want practice", s.Phase)
	}
	foundEnsure := false
	for _, c := range cmds {
		if ec, ok := c.(EnsureExercisesCmd); ok {
			foundEnsure = true
			if ec.Phase != exercise.PhasePractice {
				t.Errorf("EnsureExercises phase = %v, want practice", ec.Phase)
			}
		}
	}
	if !foundEnsure {
		t.Error("expected EnsureExercisesCmd on entering practice")
	}
}

func TestAttentionLoss_InterruptsAndHolds(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession("A chunk.")
	m.Step(s, idle())

	cmds := m.Step(s, transitionTo(attention.StateDistracted))
	sp, ok := findSpeak(cmds)
	if !ok || sp.Priority != speech.PriorityInterrupt {
		t.Fatalf("expected interrupt utterance on attention loss, got %v", cmds)
	}
	if !s.Held {
		t.Error("expected session held after attention loss")
	}

	// Held: nothing new starts even when speech goes idle.
	in := idle()
	in.Attention = attention.StateDistracted
	if cmds := m.Step(s, in); countSpeaks(cmds) != 0 {
		t.Errorf("expected no progression while held, got %v", cmds)
	}

	// Recovery releases the hold the same tick.
	cmds = m.Step(s, Input{
		Attention:  attention.StateEngaged,
		SpeechIdle: true,
		Transition: &attention.Transition{From: attention.StateDistracted, To: attention.StateEngaged},
	})
	if s.Held {
		t.Error("expected hold released on engaged transition")
	}
	if countSpeaks(cmds) == 0 {
		t.Errorf("expected narration to resume, got %v", cmds)
	}
}

func TestAttentionRecovery_EngagedSampleClearsHold(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhasePractice, 0)
	presentExercise(t, m, s, ex)
	m.Step(s, transitionTo(attention.StateDistracted))
	if !s.Held {
		t.Fatal("setup: expected session held")
	}

	// An engaged sample releases the hold even when the recovery edge
	// event is not delivered the same tick.
	m.Step(s, idle())
	if s.Held {
		t.Error("expected hold released on engaged sample")
	}
}

func TestAttentionLoss_ReplaysInterruptedChunk(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession("First chunk.", "Second chunk.")

	cmds := m.Step(s, idle())
	if sp, ok := findSpeak(cmds); !ok || sp.Text != "First chunk." {
		t.Fatalf("setup: expected first chunk spoken, got %v", cmds)
	}

	// The learner drifts off mid-chunk; the interrupt cut the narration
	// short, so recovery must replay the chunk rather than skip it.
	in := transitionTo(attention.StateDistracted)
	in.SpeechIdle = false
	m.Step(s, in)

	cmds = m.Step(s, idle())
	sp, ok := findSpeak(cmds)
	if !ok || sp.Text != "First chunk." {
		t.Fatalf("expected the interrupted chunk replayed, got %v", cmds)
	}
}

func TestAttentionInterrupt_SuppressesAdvanceSameTick(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	s.Phase = PhasePractice
	s.Queue = []*exercise.Exercise{testExercise("ex-1", exercise.PhasePractice, 0)}
	s.PendingAdvance = true

	in := transitionTo(attention.StateAbsent)
	cmds := m.Step(s, in)

	if s.Current != nil {
		t.Error("expected no exercise presented on the interrupt tick")
	}
	if countSpeaks(cmds) != 1 {
		t.Errorf("expected exactly one utterance, got %d", countSpeaks(cmds))
	}
	sp, _ := findSpeak(cmds)
	if sp.Priority != speech.PriorityInterrupt {
		t.Error("expected the surviving utterance to be the interrupt")
	}
	if !s.PendingAdvance {
		t.Error("expected the advance to stay pending")
	}
}

func TestAnswer_CorrectScoresAndAdvances(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhasePractice, 3)
	presentExercise(t, m, s, ex)

	cmds := m.Step(s, answer("4"))

	fb, ok := findFeedback(cmds)
	if !ok || !fb.Correct {
		t.Fatalf("expected correct feedback, got %v", cmds)
	}
	if s.Score != exercise.DifficultyMedium.Weight() {
		t.Errorf("Score = %d, want %d", s.Score, exercise.DifficultyMedium.Weight())
	}
	if !s.PendingAdvance {
		t.Error("expected advance pending after correct answer")
	}
	if s.CorrectCount != 1 || s.AnswerCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", s.CorrectCount, s.AnswerCount)
	}
}

func TestAnswer_NormalizationAccepted(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhasePractice, 0)
	ex.Answer = "Four"
	presentExercise(t, m, s, ex)

	cmds := m.Step(s, answer("  four  "))
	if fb, ok := findFeedback(cmds); !ok || !fb.Correct {
		t.Errorf("expected case and whitespace insensitive match, got %v", cmds)
	}
}

func TestAnswer_HintHalvesScore(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhasePractice, 3)
	presentExercise(t, m, s, ex)

	m.Step(s, answer("5"))
	cmds := m.Step(s, answer("4"))

	if fb, ok := findFeedback(cmds); !ok || !fb.Correct {
		t.Fatalf("expected correct feedback on retry, got %v", cmds)
	}
	want := exercise.DifficultyMedium.Weight() / 2
	if s.Score != want {
		t.Errorf("Score = %d, want %d (halved after hint)", s.Score, want)
	}
}

func TestAnswer_CorrectAfterAllHintsClosesOut(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhasePractice, 2)
	presentExercise(t, m, s, ex)

	m.Step(s, answer("5"))
	m.Step(s, answer("5"))
	cmds := m.Step(s, answer("4"))

	fb, ok := findFeedback(cmds)
	if !ok || !fb.Correct {
		t.Fatalf("expected correct feedback, got %v", cmds)
	}
	// With the hint ladder walked, the close-out shows the full solution.
	if fb.Explanation == "" || fb.Answer != "4" {
		t.Errorf("feedback = %+v, want explanation and canonical answer", fb)
	}
	if s.Score != exercise.DifficultyMedium.Weight()/2 {
		t.Errorf("Score = %d, want the halved weight", s.Score)
	}
}

func TestAnswer_HintsRevealInOrderThenAnswer(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhasePractice, 2)
	ex.Hints = []string{"hint one", "hint two"}
	presentExercise(t, m, s, ex)

	// First two wrong answers reveal the hints, never the answer.
	for i, want := range []string{"hint one", "hint two"} {
		cmds := m.Step(s, answer("5"))
		var hint *ShowHintCmd
		for _, c := range cmds {
			if h, ok := c.(ShowHintCmd); ok {
				hint = &h
			}
		}
		if hint == nil || hint.Text != want {
			t.Fatalf("attempt %d: expected hint %q, got %v", i+1, want, cmds)
		}
		if fb, ok := findFeedback(cmds); ok && fb.Answer != "" {
			t.Fatalf("attempt %d: answer revealed before hints exhausted", i+1)
		}
		if s.Step != StepIncorrectRetry {
			t.Fatalf("attempt %d: Step = %v, want retry", i+1, s.Step)
		}
	}

	// Third wrong answer exhausts the budget: answer and explanation
	// shown, no points, move on.
	cmds := m.Step(s, answer("5"))
	fb, ok := findFeedback(cmds)
	if !ok || fb.Correct {
		t.Fatalf("expected incorrect feedback, got %v", cmds)
	}
	if fb.Answer != "4" {
		t.Errorf("feedback answer = %q, want 4", fb.Answer)
	}
	if fb.Explanation == "" {
		t.Error("expected explanation on exhausted path")
	}
	if s.Score != 0 {
		t.Errorf("Score = %d, want 0", s.Score)
	}
	if !s.PendingAdvance {
		t.Error("expected advance pending after exhausted remediation")
	}
}

func TestAssessment_NoHints(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhaseAssessment, 3)
	presentExercise(t, m, s, ex)

	cmds := m.Step(s, answer("5"))

	for _, c := range cmds {
		if _, ok := c.(ShowHintCmd); ok {
			t.Fatal("assessment must not reveal hints")
		}
	}
	fb, ok := findFeedback(cmds)
	if !ok || fb.Correct {
		t.Fatalf("expected incorrect feedback, got %v", cmds)
	}
	if fb.Explanation == "" || fb.Answer == "" {
		t.Error("expected explanation and answer after assessment submission")
	}
	if !s.PendingAdvance {
		t.Error("expected advance after assessment answer")
	}
}

func TestAssessment_ExplanationOnlyAfterSubmission(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhaseAssessment, 0)
	presentExercise(t, m, s, ex)

	cmds := m.Step(s, answer("4"))
	fb, ok := findFeedback(cmds)
	if !ok || !fb.Correct {
		t.Fatalf("expected correct feedback, got %v", cmds)
	}
	if fb.Explanation == "" {
		t.Error("expected explanation revealed with assessment feedback")
	}
}

func TestQueueEmpty_WaitsOnInflightSupply(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	s.Phase = PhasePractice
	s.PendingAdvance = true

	in := idle()
	in.SupplyPending = true
	m.Step(s, in)

	if s.Phase != PhasePractice {
		t.Errorf("Phase = %v, want practice while supply pending", s.Phase)
	}
	if !s.PendingAdvance {
		t.Error("expected advance to stay pending while supply in flight")
	}

	// Supply resolved empty: the phase ends.
	m.Step(s, idle())
	if s.Phase != PhaseAssessment {
		t.Errorf("Phase = %v, want assessment after practice exhausted", s.Phase)
	}
}

func TestAbort_FinalizesImmediately(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession("A chunk.")
	m.Step(s, idle())

	in := idle()
	in.Abort = true
	cmds := m.Step(s, in)

	if len(cmds) != 1 {
		t.Fatalf("expected only FinalizeCmd, got %v", cmds)
	}
	fin, ok := cmds[0].(FinalizeCmd)
	if !ok || !fin.Aborted {
		t.Fatalf("expected aborted FinalizeCmd, got %v", cmds[0])
	}
	if !s.Aborted || !s.Finalized {
		t.Error("expected session marked aborted and finalized")
	}

	// A finalized session ignores further input.
	if cmds := m.Step(s, idle()); cmds != nil {
		t.Errorf("expected no commands after finalize, got %v", cmds)
	}
}

func TestRetryPhase_DiscardsPhaseScore(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhasePractice, 0)
	presentExercise(t, m, s, ex)
	m.Step(s, answer("4"))

	if s.Score == 0 {
		t.Fatal("setup: expected nonzero score")
	}

	in := idle()
	in.RetryPhase = true
	cmds := m.Step(s, in)

	if s.Score != 0 {
		t.Errorf("Score = %d, want 0 after phase retry", s.Score)
	}
	if s.PhaseScores[PhasePractice] != 0 {
		t.Errorf("practice score = %d, want 0", s.PhaseScores[PhasePractice])
	}
	foundEnsure := false
	for _, c := range cmds {
		if _, ok := c.(EnsureExercisesCmd); ok {
			foundEnsure = true
		}
	}
	if !foundEnsure {
		t.Error("expected exercises restaged on phase retry")
	}
}

func TestScoring_ContinuesWhileHeld(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession()
	ex := testExercise("ex-1", exercise.PhasePractice, 0)
	presentExercise(t, m, s, ex)
	s.Held = true

	in := answer("4")
	in.Attention = attention.StateDistracted
	cmds := m.Step(s, in)

	if fb, ok := findFeedback(cmds); !ok || !fb.Correct {
		t.Fatalf("expected answer scored while held, got %v", cmds)
	}
	if s.Score == 0 {
		t.Error("expected points while held")
	}
}

func TestFullLesson_RunsToComplete(t *testing.T) {
	m := NewMachine(DefaultConfig())
	s := testSession("Only chunk.")

	practice := []*exercise.Exercise{
		testExercise("p-1", exercise.PhasePractice, 0),
		testExercise("p-2", exercise.PhasePractice, 0),
	}
	assessment := []*exercise.Exercise{
		testExercise("a-1", exercise.PhaseAssessment, 0),
	}

	// The driver plays the engine role: execute EnsureExercises by
	// appending the right pool, answer every presented exercise.
	for i := 0; i < 50 && !s.Finalized; i++ {
		var in Input
		if s.Current != nil && s.answerable() {
			in = answer("4")
		} else {
			in = idle()
		}
		cmds := m.Step(s, in)
		for _, c := range cmds {
			if ec, ok := c.(EnsureExercisesCmd); ok {
				switch ec.Phase {
				case exercise.PhasePractice:
					s.Queue = append(s.Queue, practice...)
				case exercise.PhaseAssessment:
					s.Queue = append(s.Queue, assessment...)
				}
			}
		}
	}

	if s.Phase != PhaseComplete {
		t.Fatalf("Phase = %v, want complete", s.Phase)
	}
	if !s.Finalized || s.Aborted {
		t.Error("expected clean finalization")
	}
	if s.ExercisesServed != 3 {
		t.Errorf("ExercisesServed = %d, want 3", s.ExercisesServed)
	}
	if s.CorrectCount != 3 {
		t.Errorf("CorrectCount = %d, want 3", s.CorrectCount)
	}
	want := 3 * exercise.DifficultyMedium.Weight()
	if s.Score != want {
		t.Errorf("Score = %d, want %d", s.Score, want)
	}
}

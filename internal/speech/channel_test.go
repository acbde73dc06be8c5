package speech

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeSynth blocks each utterance until released, so tests control
// exactly when playback finishes.
type fakeSynth struct {
	mu      sync.Mutex
	started []string
	release chan struct{}
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{release: make(chan struct{})}
}

func (f *fakeSynth) Available() bool { return true }

func (f *fakeSynth) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	f.started = append(f.started, text)
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.release:
		return nil
	}
}

// releaseOne lets the currently playing utterance finish.
func (f *fakeSynth) releaseOne() {
	f.release <- struct{}{}
}

func (f *fakeSynth) startedTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.started))
	copy(out, f.started)
	return out
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

// drainAll polls completions until n have arrived.
func drainAll(t *testing.T, c *Channel, n int) []Completion {
	t.Helper()
	var all []Completion
	waitFor(t, func() bool {
		all = append(all, c.Drain()...)
		return len(all) >= n
	}, "timed out waiting for completions")
	return all
}

func TestChannel_NormalPlaysToCompletion(t *testing.T) {
	synth := newFakeSynth()
	c := NewChannel(synth, zerolog.Nop())

	h := c.Speak("hello", PriorityNormal)
	waitFor(t, func() bool { return c.IsPlaying() }, "utterance never started")

	synth.releaseOne()
	done := drainAll(t, c, 1)

	if done[0].Handle != h || done[0].Cancelled {
		t.Errorf("completion = %+v, want handle %d uncancelled", done[0], h)
	}
	if c.IsPlaying() {
		t.Error("expected channel idle after completion")
	}
}

func TestChannel_InterruptCancelsActive(t *testing.T) {
	synth := newFakeSynth()
	c := NewChannel(synth, zerolog.Nop())

	c.Speak("long narration", PriorityNormal)
	waitFor(t, func() bool { return c.IsPlaying() }, "utterance never started")

	c.Speak("look at me!", PriorityInterrupt)

	// The cancelled narration completes first, then the interrupt plays.
	cancelled := drainAll(t, c, 1)
	if !cancelled[0].Cancelled || cancelled[0].Text != "long narration" {
		t.Errorf("first completion = %+v, want cancelled narration", cancelled[0])
	}

	waitFor(t, func() bool { return len(synth.startedTexts()) == 2 }, "interrupt never started")
	synth.releaseOne()

	finished := drainAll(t, c, 1)
	if finished[0].Cancelled || finished[0].Text != "look at me!" {
		t.Errorf("second completion = %+v, want finished interrupt", finished[0])
	}
}

func TestChannel_QueueDepthOneReplacesWaiting(t *testing.T) {
	synth := newFakeSynth()
	c := NewChannel(synth, zerolog.Nop())

	c.Speak("active", PriorityNormal)
	waitFor(t, func() bool { return c.IsPlaying() }, "utterance never started")

	hOld := c.Speak("waiting old", PriorityNormal)
	c.Speak("waiting new", PriorityNormal)

	// The replaced request completes immediately as cancelled.
	done := drainAll(t, c, 1)
	if done[0].Handle != hOld || !done[0].Cancelled {
		t.Errorf("completion = %+v, want cancelled %d", done[0], hOld)
	}

	// Finishing the active utterance promotes the newer queued one.
	synth.releaseOne()
	waitFor(t, func() bool { return len(synth.startedTexts()) == 2 }, "queued utterance never promoted")
	if got := synth.startedTexts()[1]; got != "waiting new" {
		t.Errorf("promoted %q, want waiting new", got)
	}
	synth.releaseOne()
}

func TestChannel_UnavailableCompletesImmediately(t *testing.T) {
	c := NewChannel(NullSynthesizer{}, zerolog.Nop())

	h := c.Speak("anything", PriorityNormal)

	done := c.Drain()
	if len(done) != 1 {
		t.Fatalf("completions = %d, want 1", len(done))
	}
	if done[0].Handle != h || done[0].Cancelled {
		t.Errorf("completion = %+v, want immediate uncancelled %d", done[0], h)
	}
	if c.IsPlaying() {
		t.Error("expected no playback without a synthesizer")
	}
}

func TestChannel_DrainConsumesOnce(t *testing.T) {
	c := NewChannel(NullSynthesizer{}, zerolog.Nop())
	c.Speak("one", PriorityNormal)

	if got := len(c.Drain()); got != 1 {
		t.Fatalf("first drain = %d completions, want 1", got)
	}
	if got := len(c.Drain()); got != 0 {
		t.Errorf("second drain = %d completions, want 0", got)
	}
}

func TestChannel_StopCancelsEverything(t *testing.T) {
	synth := newFakeSynth()
	c := NewChannel(synth, zerolog.Nop())

	c.Speak("active", PriorityNormal)
	waitFor(t, func() bool { return c.IsPlaying() }, "utterance never started")
	c.Speak("queued", PriorityNormal)

	c.Stop()

	done := drainAll(t, c, 2)
	for _, comp := range done {
		if !comp.Cancelled {
			t.Errorf("completion %+v not cancelled by Stop", comp)
		}
	}
	if c.IsPlaying() {
		t.Error("expected channel idle after Stop")
	}
}

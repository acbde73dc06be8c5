// Package speech provides the voice output channel: a priority queue of
// at most one active and one pending utterance over a pluggable
// synthesizer backend.
package speech

import "context"

// Synthesizer converts text to audible speech. Speak blocks until
// playback finishes or ctx is cancelled; the channel runs it on its own
// goroutine so callers never wait out an utterance.
type Synthesizer interface {
	// Speak synthesizes and plays the text.
	Speak(ctx context.Context, text string) error

	// Available reports whether the backend can produce audio right now.
	Available() bool
}

// NullSynthesizer is the degraded voice backend: never available, so the
// channel completes every utterance immediately and the lesson timeline
// is unaffected by the missing voice.
type NullSynthesizer struct{}

func (NullSynthesizer) Speak(context.Context, string) error { return nil }
func (NullSynthesizer) Available() bool                     { return false }

package speech

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Priority classifies a speech request.
type Priority int

const (
	// PriorityNormal utterances queue behind the active one (queue depth
	// one; a newer normal request replaces an older queued one).
	PriorityNormal Priority = iota

	// PriorityInterrupt utterances cancel in-flight playback and start
	// immediately.
	PriorityInterrupt
)

// Handle identifies a speech request.
type Handle uint64

// Completion reports that an utterance stopped, either by finishing or
// by cancellation. Completions are observed by polling, once each.
type Completion struct {
	Handle    Handle
	Text      string
	Cancelled bool
	At        time.Time
}

type utterance struct {
	handle Handle
	text   string
	cancel context.CancelFunc
}

// Channel serializes speech output: at most one utterance plays at a
// time, at most one normal utterance waits behind it. All methods are
// non-blocking; playback runs on per-utterance goroutines.
type Channel struct {
	synth Synthesizer
	log   zerolog.Logger

	mu          sync.Mutex
	nextHandle  Handle
	active      *utterance
	queued      *utterance
	completions []Completion
}

// NewChannel creates a speech channel over the given synthesizer.
func NewChannel(synth Synthesizer, log zerolog.Logger) *Channel {
	return &Channel{
		synth: synth,
		log:   log.With().Str("component", "speech").Logger(),
	}
}

// Speak submits an utterance. When the synthesizer is unavailable the
// request completes immediately so lesson progression never depends on
// the voice channel existing.
func (c *Channel) Speak(text string, priority Priority) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextHandle++
	h := c.nextHandle

	if !c.synth.Available() {
		c.completions = append(c.completions, Completion{
			Handle: h, Text: text, At: time.Now(),
		})
		return h
	}

	u := &utterance{handle: h, text: text}

	switch priority {
	case PriorityInterrupt:
		if c.queued != nil {
			c.completeLocked(c.queued, true)
			c.queued = nil
		}
		if c.active != nil {
			c.active.cancel()
		}
		c.startLocked(u)

	default:
		if c.active == nil {
			c.startLocked(u)
			break
		}
		if c.queued != nil {
			c.completeLocked(c.queued, true)
		}
		c.queued = u
	}

	return h
}

// Cancel stops the utterance identified by h if it is active or queued.
func (c *Channel) Cancel(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil && c.active.handle == h {
		c.active.cancel()
		return
	}
	if c.queued != nil && c.queued.handle == h {
		c.completeLocked(c.queued, true)
		c.queued = nil
	}
}

// IsPlaying reports whether an utterance is currently active.
func (c *Channel) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Drain returns all unconsumed completions, oldest first, and clears
// them. The engine calls this once per tick.
func (c *Channel) Drain() []Completion {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.completions
	c.completions = nil
	return out
}

// Stop cancels any active and queued utterances.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queued != nil {
		c.completeLocked(c.queued, true)
		c.queued = nil
	}
	if c.active != nil {
		c.active.cancel()
	}
}

// startLocked makes u the active utterance and launches its playback.
// Caller holds c.mu.
func (c *Channel) startLocked(u *utterance) {
	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	c.active = u

	go func() {
		err := c.synth.Speak(ctx, u.text)
		cancelled := ctx.Err() != nil
		if err != nil && !cancelled {
			c.log.Warn().Err(err).Msg("playback failed")
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		c.completeLocked(u, cancelled)

		// Promote the queued utterance unless an interrupt already took
		// over the active slot.
		if c.active == u {
			c.active = nil
			if c.queued != nil {
				next := c.queued
				c.queued = nil
				c.startLocked(next)
			}
		}
	}()
}

// completeLocked records a completion. Caller holds c.mu.
func (c *Channel) completeLocked(u *utterance, cancelled bool) {
	c.completions = append(c.completions, Completion{
		Handle:    u.handle,
		Text:      u.text,
		Cancelled: cancelled,
		At:        time.Now(),
	})
}

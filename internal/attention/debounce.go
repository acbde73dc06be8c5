package attention

import "time"

// debouncer is the pure edge-detection core. It consumes readings one at
// a time and decides when a transition event should be raised:
//
//   - a below-threshold reading becomes Unknown and never contributes
//     to an edge (no flapping on noisy frames);
//   - DebounceCount consecutive non-engaged readings raise exactly one
//     non-engaged transition;
//   - a single engaged reading immediately raises the recovery edge
//     (fast recovery bias).
type debouncer struct {
	cfg Config

	reported State // state last reported via a transition (or engaged at start)
	pending  State // candidate non-engaged state being debounced
	streak   int   // consecutive non-engaged readings seen

	lastNonEngaged time.Time // when the last non-engaged edge fired
}

func newDebouncer(cfg Config) *debouncer {
	return &debouncer{cfg: cfg, reported: StateEngaged}
}

// observe classifies one reading and returns a transition if this reading
// completes an edge, nil otherwise.
func (d *debouncer) observe(r Reading) *Transition {
	state := r.State
	if r.Confidence < d.cfg.ConfidenceThreshold {
		state = StateUnknown
	}

	switch state {
	case StateUnknown:
		// Unknown neither advances nor resets the debounce streak.
		return nil

	case StateEngaged:
		d.pending = ""
		d.streak = 0
		if d.reported.Engaged() {
			return nil
		}
		from := d.reported
		d.reported = StateEngaged
		return &Transition{From: from, To: StateEngaged, At: r.At}

	default: // Distracted or Absent
		if state != d.pending {
			d.pending = state
			d.streak = 0
		}
		d.streak++
		if d.streak < d.cfg.DebounceCount {
			return nil
		}
		if !d.reported.Engaged() {
			// Already in a non-engaged state; no repeated edge.
			return nil
		}
		if d.cfg.Cooldown > 0 && !d.lastNonEngaged.IsZero() && r.At.Sub(d.lastNonEngaged) < d.cfg.Cooldown {
			return nil
		}
		from := d.reported
		d.reported = state
		d.lastNonEngaged = r.At
		return &Transition{From: from, To: state, At: r.At}
	}
}

// Package attention turns raw camera-frame classifications into a stable,
// debounced attention signal the lesson engine can poll.
package attention

import "time"

// State is the discretized attention level.
type State string

const (
	StateUnknown    State = "unknown"
	StateEngaged    State = "engaged"
	StateDistracted State = "distracted"
	StateAbsent     State = "absent"
)

// Reading is one sensor sample. Readings supersede each other; only the
// latest matters for level queries.
type Reading struct {
	State      State
	Confidence float64 // [0,1]
	At         time.Time
}

// Transition is an edge event between engaged and non-engaged states.
// These are significant events, unlike the readings themselves.
type Transition struct {
	From State
	To   State
	At   time.Time
}

// Engaged reports whether the state counts as attentive.
func (s State) Engaged() bool {
	return s == StateEngaged
}

// Sensor produces attention readings from camera frames. Read blocks for
// at most one frame; implementations own the capture device. A sensor
// that cannot operate returns ErrSensorUnavailable from Read.
type Sensor interface {
	// Read captures and classifies one frame.
	Read() (Reading, error)

	// Close releases the capture device.
	Close() error
}

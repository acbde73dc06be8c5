package attention

import (
	"sync"
	"time"
)

// ScriptedSensor replays a fixed sequence of readings, then repeats the
// final one. Used in tests and for demo runs without a camera.
type ScriptedSensor struct {
	mu       sync.Mutex
	readings []Reading
	idx      int
}

// NewScriptedSensor creates a sensor that replays the given readings.
func NewScriptedSensor(readings ...Reading) *ScriptedSensor {
	return &ScriptedSensor{readings: readings}
}

func (s *ScriptedSensor) Read() (Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.readings) == 0 {
		return Reading{}, ErrSensorUnavailable
	}
	r := s.readings[s.idx]
	if s.idx < len(s.readings)-1 {
		s.idx++
	}
	if r.At.IsZero() {
		r.At = time.Now()
	}
	return r, nil
}

func (s *ScriptedSensor) Close() error { return nil }

// Push appends readings to the script.
func (s *ScriptedSensor) Push(readings ...Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, readings...)
}

// UnavailableSensor always fails. It models a missing or broken camera;
// the monitor degrades to Unknown on the first read.
type UnavailableSensor struct{}

func (UnavailableSensor) Read() (Reading, error) { return Reading{}, ErrSensorUnavailable }
func (UnavailableSensor) Close() error           { return nil }

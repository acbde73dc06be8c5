package attention

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrSensorUnavailable is returned by a Sensor whose capture device
// cannot operate.
var ErrSensorUnavailable = errors.New("attention sensor unavailable")

// Monitor samples a Sensor at a bounded rate and exposes the latest
// reading plus debounced transition events. Sample and PollTransition
// never block on camera I/O; the sensor runs on its own goroutine.
//
// If the sensor fails, the monitor degrades permanently to Unknown and
// raises no further events. The engine runs a full lesson that way.
type Monitor struct {
	cfg Config
	log zerolog.Logger

	mu          sync.Mutex
	latest      Reading
	transitions []Transition
	unavailable bool

	sensor Sensor
	stop   chan struct{}
	done   chan struct{}
}

// NewMonitor creates a Monitor for the given sensor. A nil sensor yields
// a monitor that is unavailable from the start.
func NewMonitor(sensor Sensor, cfg Config, log zerolog.Logger) *Monitor {
	m := &Monitor{
		cfg:    cfg,
		log:    log.With().Str("component", "attention").Logger(),
		sensor: sensor,
		latest: Reading{State: StateUnknown},
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if sensor == nil {
		m.unavailable = true
		close(m.done)
	}
	return m
}

// Start launches the sampling loop. No-op when the sensor is unavailable.
func (m *Monitor) Start() {
	m.mu.Lock()
	unavailable := m.unavailable
	m.mu.Unlock()
	if unavailable {
		m.log.Warn().Msg("sensor unavailable, attention monitoring disabled")
		return
	}
	go m.run()
}

// Stop terminates the sampling loop and closes the sensor.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.unavailable {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	<-m.done
}

// Sample returns the last known reading without blocking.
func (m *Monitor) Sample() Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// PollTransition returns the oldest unconsumed transition event, if any.
// Each event is delivered exactly once.
func (m *Monitor) PollTransition() (Transition, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.transitions) == 0 {
		return Transition{}, false
	}
	t := m.transitions[0]
	m.transitions = m.transitions[1:]
	return t, true
}

func (m *Monitor) run() {
	defer close(m.done)
	defer m.sensor.Close()

	deb := newDebouncer(m.cfg)
	ticker := time.NewTicker(m.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
		}

		reading, err := m.sensor.Read()
		if err != nil {
			m.log.Warn().Err(err).Msg("sensor failed, degrading to unknown")
			m.mu.Lock()
			m.unavailable = true
			m.latest = Reading{State: StateUnknown, At: time.Now()}
			m.transitions = nil
			m.mu.Unlock()
			return
		}
		if reading.At.IsZero() {
			reading.At = time.Now()
		}

		tr := deb.observe(reading)

		m.mu.Lock()
		m.latest = reading
		if reading.Confidence < m.cfg.ConfidenceThreshold {
			m.latest.State = StateUnknown
		}
		if tr != nil {
			m.transitions = append(m.transitions, *tr)
			// Keep the queue bounded; the engine drains every tick.
			if len(m.transitions) > 8 {
				m.transitions = m.transitions[len(m.transitions)-8:]
			}
		}
		m.mu.Unlock()

		if tr != nil {
			m.log.Debug().
				Str("from", string(tr.From)).
				Str("to", string(tr.To)).
				Msg("attention transition")
		}
	}
}

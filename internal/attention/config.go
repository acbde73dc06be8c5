package attention

import "time"

// Config holds the monitor's tunable thresholds.
type Config struct {
	// SampleInterval is the time between sensor reads. Bounded so the
	// engine is never flooded with readings.
	SampleInterval time.Duration

	// ConfidenceThreshold is the minimum confidence for a reading to be
	// classified; below it the reading is reported as Unknown.
	ConfidenceThreshold float64

	// DebounceCount is how many consecutive non-engaged readings must be
	// seen before a distracted/absent transition is raised.
	DebounceCount int

	// Cooldown suppresses repeated non-engaged transitions: after one
	// fires, another is not raised until the cooldown elapses.
	Cooldown time.Duration
}

// DefaultConfig returns the standard monitor tuning.
func DefaultConfig() Config {
	return Config{
		SampleInterval:      300 * time.Millisecond,
		ConfidenceThreshold: 0.5,
		DebounceCount:       3,
		Cooldown:            15 * time.Second,
	}
}

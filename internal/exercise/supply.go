package exercise

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PregenSource serves pregenerated exercise pools. The lesson store
// implements it.
type PregenSource interface {
	PregeneratedExercises(ctx context.Context, lessonID string, phase Phase) ([]*Exercise, error)
}

// SupplyConfig tunes the supply's generative path.
type SupplyConfig struct {
	// GenTimeout bounds one generative batch call. On expiry the call is
	// treated as failed and not retried within the phase.
	GenTimeout time.Duration
}

// DefaultSupplyConfig returns the standard supply tuning.
func DefaultSupplyConfig() SupplyConfig {
	return SupplyConfig{GenTimeout: 20 * time.Second}
}

// Supply is the engine's single source of exercises. The fast
// pregenerated path is always tried first; the generative path only
// tops up an exhausted pool, asynchronously, one request in flight at
// a time. Generation failure means "no additional exercises", never an
// error the lesson sees.
type Supply struct {
	pregen PregenSource
	gen    Generator // nil when no backend is configured
	cfg    SupplyConfig
	log    zerolog.Logger

	mu         sync.Mutex
	inflight   bool
	generation int // incremented on Abort; stale results are dropped
	cancel     context.CancelFunc
	pending    []*Exercise
	ready      bool
}

// NewSupply creates a Supply. gen may be nil; the supply then degrades
// to pregenerated-only.
func NewSupply(pregen PregenSource, gen Generator, cfg SupplyConfig, log zerolog.Logger) *Supply {
	return &Supply{
		pregen: pregen,
		gen:    gen,
		cfg:    cfg,
		log:    log.With().Str("component", "supply").Logger(),
	}
}

// GenerativeAvailable reports whether the slow path exists at all.
func (s *Supply) GenerativeAvailable() bool {
	return s.gen != nil
}

// FetchPregenerated returns the stored pool for (lesson, phase).
// Malformed exercises are skipped and logged; a store error yields an
// empty pool, since an in-progress lesson must keep running on whatever
// it has.
func (s *Supply) FetchPregenerated(ctx context.Context, lessonID string, phase Phase) []*Exercise {
	pool, err := s.pregen.PregeneratedExercises(ctx, lessonID, phase)
	if err != nil {
		s.log.Error().Err(err).Str("lesson", lessonID).Str("phase", string(phase)).
			Msg("pregenerated fetch failed")
		return nil
	}

	valid := make([]*Exercise, 0, len(pool))
	for _, ex := range pool {
		if err := ex.Validate(); err != nil {
			var integrity *DataIntegrityError
			if errors.As(err, &integrity) {
				s.log.Warn().Str("exercise", integrity.ID).Str("reason", integrity.Reason).
					Msg("skipping malformed stored exercise")
				continue
			}
		}
		valid = append(valid, ex)
	}
	return valid
}

// RequestBatch starts an asynchronous generative fetch. Returns false if
// no generator is configured or a request is already in flight.
func (s *Supply) RequestBatch(req BatchRequest) bool {
	if s.gen == nil {
		return false
	}

	s.mu.Lock()
	if s.inflight {
		s.mu.Unlock()
		return false
	}
	s.inflight = true
	gen := s.generation
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.GenTimeout)
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		batch, err := s.gen.GenerateBatch(ctx, req)
		if err != nil {
			// Silent degradation: the phase ends early with whatever
			// pregenerated exercises existed.
			s.log.Warn().Err(err).Str("phase", string(req.Phase)).
				Msg("generative fetch failed, phase will run short")
			batch = nil
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			// Aborted while we were out; drop the late batch.
			return
		}
		s.inflight = false
		s.pending = batch
		s.ready = true
	}()

	return true
}

// PollBatch consumes the result of a finished request. The second return
// is true once per completed request; a failed request yields (nil, true).
func (s *Supply) PollBatch() ([]*Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	batch := s.pending
	s.pending = nil
	s.ready = false
	return batch, true
}

// Pending reports whether a generative request is in flight.
func (s *Supply) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight
}

// Abort cancels any in-flight request and guarantees its result is
// discarded even if it arrives later.
func (s *Supply) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.inflight = false
	s.pending = nil
	s.ready = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

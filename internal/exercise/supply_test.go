package exercise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubPregen struct {
	pool []*Exercise
	err  error
}

func (s *stubPregen) PregeneratedExercises(context.Context, string, Phase) ([]*Exercise, error) {
	return s.pool, s.err
}

// stubGen blocks until released so tests control batch delivery timing.
type stubGen struct {
	batch   []*Exercise
	err     error
	release chan struct{}
}

func newStubGen(batch []*Exercise, err error) *stubGen {
	return &stubGen{batch: batch, err: err, release: make(chan struct{})}
}

func (g *stubGen) GenerateBatch(ctx context.Context, _ BatchRequest) ([]*Exercise, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
	}
	return g.batch, g.err
}

func pollUntil(t *testing.T, s *Supply) []*Exercise {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if batch, ok := s.PollBatch(); ok {
			return batch
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for batch")
	return nil
}

func TestFetchPregenerated_SkipsMalformed(t *testing.T) {
	good := validExercise()
	bad := validExercise()
	bad.Answer = ""
	src := &stubPregen{pool: []*Exercise{bad, good}}

	s := NewSupply(src, nil, DefaultSupplyConfig(), zerolog.Nop())
	pool := s.FetchPregenerated(context.Background(), "lesson-1", PhasePractice)

	if len(pool) != 1 || pool[0] != good {
		t.Errorf("pool = %d exercises, want only the valid one", len(pool))
	}
}

func TestFetchPregenerated_StoreErrorYieldsEmptyPool(t *testing.T) {
	src := &stubPregen{err: errors.New("disk gone")}
	s := NewSupply(src, nil, DefaultSupplyConfig(), zerolog.Nop())

	if pool := s.FetchPregenerated(context.Background(), "lesson-1", PhasePractice); pool != nil {
		t.Errorf("pool = %v, want nil on store error", pool)
	}
}

func TestRequestBatch_NoGeneratorRefuses(t *testing.T) {
	s := NewSupply(&stubPregen{}, nil, DefaultSupplyConfig(), zerolog.Nop())

	if s.GenerativeAvailable() {
		t.Error("GenerativeAvailable() = true without a generator")
	}
	if s.RequestBatch(BatchRequest{}) {
		t.Error("RequestBatch accepted without a generator")
	}
}

func TestRequestBatch_SingleFlight(t *testing.T) {
	gen := newStubGen([]*Exercise{validExercise()}, nil)
	s := NewSupply(&stubPregen{}, gen, DefaultSupplyConfig(), zerolog.Nop())

	if !s.RequestBatch(BatchRequest{Phase: PhasePractice}) {
		t.Fatal("first request refused")
	}
	if s.RequestBatch(BatchRequest{Phase: PhasePractice}) {
		t.Error("second request accepted while one is in flight")
	}
	if !s.Pending() {
		t.Error("Pending() = false with a request in flight")
	}

	close(gen.release)
	batch := pollUntil(t, s)
	if len(batch) != 1 {
		t.Errorf("batch size = %d, want 1", len(batch))
	}
	if s.Pending() {
		t.Error("Pending() = true after delivery")
	}

	// The result is consumed exactly once.
	if _, ok := s.PollBatch(); ok {
		t.Error("second poll returned a batch")
	}
}

func TestRequestBatch_FailureDeliversEmpty(t *testing.T) {
	gen := newStubGen(nil, errors.New("model down"))
	s := NewSupply(&stubPregen{}, gen, DefaultSupplyConfig(), zerolog.Nop())

	s.RequestBatch(BatchRequest{Phase: PhasePractice})
	close(gen.release)

	batch := pollUntil(t, s)
	if batch != nil {
		t.Errorf("batch = %v, want nil on generation failure", batch)
	}
}

func TestAbort_DropsLateBatch(t *testing.T) {
	gen := newStubGen([]*Exercise{validExercise()}, nil)
	s := NewSupply(&stubPregen{}, gen, DefaultSupplyConfig(), zerolog.Nop())

	s.RequestBatch(BatchRequest{Phase: PhasePractice})
	s.Abort()

	// Release after the abort; the stale result must never surface.
	select {
	case gen.release <- struct{}{}:
	default:
		// Abort's cancel may have already unblocked the generator.
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := s.PollBatch(); ok {
		t.Error("late batch surfaced after Abort")
	}
	if s.Pending() {
		t.Error("Pending() = true after Abort")
	}
}

package attention

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testConfig() Config {
	return Config{
		SampleInterval:      10 * time.Millisecond,
		ConfidenceThreshold: 0.5,
		DebounceCount:       3,
		Cooldown:            15 * time.Second,
	}
}

func reading(state State, confidence float64, at time.Time) Reading {
	return Reading{State: state, Confidence: confidence, At: at}
}

func TestDebounce_ThreeReadingsRaiseOneEdge(t *testing.T) {
	d := newDebouncer(testConfig())
	base := time.Now()

	for i := 0; i < 2; i++ {
		if tr := d.observe(reading(StateDistracted, 0.9, base.Add(time.Duration(i)*time.Second))); tr != nil {
			t.Fatalf("reading %d: premature transition %v", i+1, tr)
		}
	}

	tr := d.observe(reading(StateDistracted, 0.9, base.Add(2*time.Second)))
	if tr == nil {
		t.Fatal("expected transition on third consecutive reading")
	}
	if tr.From != StateEngaged || tr.To != StateDistracted {
		t.Errorf("transition = %v -> %v, want engaged -> distracted", tr.From, tr.To)
	}

	// Continued distraction raises no repeated edges.
	if tr := d.observe(reading(StateDistracted, 0.9, base.Add(3*time.Second))); tr != nil {
		t.Errorf("unexpected repeated edge %v", tr)
	}
}

func TestDebounce_EngagedRecoversImmediately(t *testing.T) {
	d := newDebouncer(testConfig())
	base := time.Now()

	for i := 0; i < 3; i++ {
		d.observe(reading(StateAbsent, 0.9, base.Add(time.Duration(i)*time.Second)))
	}

	tr := d.observe(reading(StateEngaged, 0.9, base.Add(3*time.Second)))
	if tr == nil {
		t.Fatal("expected recovery edge on first engaged reading")
	}
	if tr.From != StateAbsent || tr.To != StateEngaged {
		t.Errorf("transition = %v -> %v, want absent -> engaged", tr.From, tr.To)
	}
}

func TestDebounce_SingleBlipRaisesNothing(t *testing.T) {
	d := newDebouncer(testConfig())
	base := time.Now()

	seq := []State{StateDistracted, StateEngaged, StateDistracted, StateEngaged}
	for i, st := range seq {
		if tr := d.observe(reading(st, 0.9, base.Add(time.Duration(i)*time.Second))); tr != nil {
			t.Errorf("reading %d (%s): unexpected transition %v", i+1, st, tr)
		}
	}
}

func TestDebounce_LowConfidenceIsIgnored(t *testing.T) {
	d := newDebouncer(testConfig())
	base := time.Now()

	// Two solid distracted readings, then a noisy frame, then another
	// solid one: unknown must not reset the streak.
	d.observe(reading(StateDistracted, 0.9, base))
	d.observe(reading(StateDistracted, 0.9, base.Add(time.Second)))
	if tr := d.observe(reading(StateAbsent, 0.2, base.Add(2*time.Second))); tr != nil {
		t.Fatalf("low-confidence reading raised %v", tr)
	}
	tr := d.observe(reading(StateDistracted, 0.9, base.Add(3*time.Second)))
	if tr == nil {
		t.Fatal("expected the streak to survive a low-confidence frame")
	}
}

func TestDebounce_CandidateChangeResetsStreak(t *testing.T) {
	d := newDebouncer(testConfig())
	base := time.Now()

	d.observe(reading(StateDistracted, 0.9, base))
	d.observe(reading(StateDistracted, 0.9, base.Add(time.Second)))
	// Switching to absent restarts the count.
	if tr := d.observe(reading(StateAbsent, 0.9, base.Add(2*time.Second))); tr != nil {
		t.Fatalf("expected no edge on candidate change, got %v", tr)
	}
	if tr := d.observe(reading(StateAbsent, 0.9, base.Add(3*time.Second))); tr != nil {
		t.Fatalf("expected no edge after two absent readings, got %v", tr)
	}
	if tr := d.observe(reading(StateAbsent, 0.9, base.Add(4*time.Second))); tr == nil {
		t.Fatal("expected edge after three absent readings")
	}
}

func TestDebounce_CooldownSuppressesSecondEdge(t *testing.T) {
	d := newDebouncer(testConfig())
	base := time.Now()

	// First edge.
	for i := 0; i < 3; i++ {
		d.observe(reading(StateDistracted, 0.9, base.Add(time.Duration(i)*100*time.Millisecond)))
	}
	// Recover, then drift off again within the cooldown window.
	d.observe(reading(StateEngaged, 0.9, base.Add(400*time.Millisecond)))
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(500+i*100) * time.Millisecond)
		if tr := d.observe(reading(StateDistracted, 0.9, at)); tr != nil {
			t.Fatalf("expected cooldown to suppress the second edge, got %v", tr)
		}
	}

	// Past the cooldown the edge fires again.
	d.observe(reading(StateEngaged, 0.9, base.Add(time.Second)))
	late := base.Add(20 * time.Second)
	d.observe(reading(StateDistracted, 0.9, late))
	d.observe(reading(StateDistracted, 0.9, late.Add(100*time.Millisecond)))
	if tr := d.observe(reading(StateDistracted, 0.9, late.Add(200*time.Millisecond))); tr == nil {
		t.Fatal("expected edge after cooldown elapsed")
	}
}

func TestMonitor_NilSensorIsUnavailable(t *testing.T) {
	m := NewMonitor(nil, testConfig(), testLogger())

	m.Start()
	defer m.Stop()

	if got := m.Sample().State; got != StateUnknown {
		t.Errorf("Sample() = %v, want unknown", got)
	}
	if _, ok := m.PollTransition(); ok {
		t.Error("expected no transitions from an unavailable monitor")
	}
}

func TestMonitor_ScriptedSensorRaisesTransition(t *testing.T) {
	sensor := NewScriptedSensor(
		reading(StateEngaged, 0.9, time.Time{}),
		reading(StateDistracted, 0.9, time.Time{}),
		reading(StateDistracted, 0.9, time.Time{}),
		reading(StateDistracted, 0.9, time.Time{}),
	)
	cfg := testConfig()
	cfg.SampleInterval = time.Millisecond
	cfg.Cooldown = 0

	m := NewMonitor(sensor, cfg, testLogger())
	m.Start()
	defer m.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if tr, ok := m.PollTransition(); ok {
			if tr.To != StateDistracted {
				t.Errorf("transition to %v, want distracted", tr.To)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no transition observed within deadline")
}

func TestMonitor_SensorFailureDegradesToUnknown(t *testing.T) {
	cfg := testConfig()
	cfg.SampleInterval = time.Millisecond

	m := NewMonitor(UnavailableSensor{}, cfg, testLogger())
	m.Start()

	// The first read fails; the monitor settles on Unknown and stops
	// raising events. Stop must not hang afterwards.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if m.Sample().State == StateUnknown {
			break
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)

	if got := m.Sample().State; got != StateUnknown {
		t.Errorf("Sample() = %v, want unknown after sensor failure", got)
	}
	if _, ok := m.PollTransition(); ok {
		t.Error("expected no transitions after sensor failure")
	}
	m.Stop()
}

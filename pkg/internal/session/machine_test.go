package session

import (
	"errors"
	"testing"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/analysis"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

const samplePeriod = 4 * time.Millisecond

func squareSample(ts time.Time, i int, amps [8]float64) types.Sample {
	s := types.Sample{Sequence: uint8(i), Timestamp: ts}
	for c, a := range amps {
		if i%2 == 0 {
			s.Channels[c] = a
		} else {
			s.Channels[c] = -a
		}
	}
	return s
}

func uniform(a float64) [8]float64 { return [8]float64{a, a, a, a, a, a, a, a} }

// feed observes n samples starting at from, 250 Hz apart, and returns the events produced.
func feed(m *Machine, from time.Time, n int, amps [8]float64) []Event {
	var events []Event
	for i := 0; i < n; i++ {
		events = append(events, m.Observe(squareSample(from.Add(time.Duration(i)*samplePeriod), i, amps))...)
	}
	return events
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func find(events []Event, kind EventKind) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func newTestMachine(cfg Config) *Machine {
	m := NewMachine(cfg, analysis.NewEngine())
	n := 0
	m.newID = func() string {
		n++
		return "session-" + string(rune('0'+n))
	}
	return m
}

func TestMachine_SingleCaptureCollectsFullWindow(t *testing.T) {
	m := newTestMachine(DefaultConfig())

	events, err := m.StartSingle(t0)
	if err != nil {
		t.Fatalf("StartSingle: %v", err)
	}
	if m.State() != Capturing || len(find(events, EventCountdown)) != 0 {
		t.Fatalf("single capture must skip the countdown, got state %v events %v", m.State(), kinds(events))
	}

	if ev := feed(m, t0, 1250, uniform(20)); len(ev) != 0 {
		t.Fatalf("no transitions expected while the window is open, got %v", kinds(ev))
	}

	events = m.Advance(t0.Add(5 * time.Second))
	done := find(events, EventCaptureComplete)
	if len(done) != 1 || done[0].Samples != 1250 {
		t.Fatalf("expected capture_complete with 1250 samples, got %+v", done)
	}
	results := find(events, EventResult)
	if len(results) != 1 || results[0].Result == nil || results[0].Result.SampleCount != 1250 {
		t.Fatalf("expected one result over 1250 samples, got %+v", results)
	}
	if m.State() != Results {
		t.Fatalf("expected Results, got %v", m.State())
	}
	if !m.Buffers()[0].Frozen() {
		t.Fatalf("buffer must be frozen once analysis begins")
	}
	if err := m.Buffers()[0].Append(types.Sample{}); !errors.Is(err, types.ErrBufferFrozen) {
		t.Fatalf("expected frozen buffer to reject appends, got %v", err)
	}
	if _, ok := m.NextDeadline(); ok {
		t.Fatalf("no deadline expected in Results")
	}
}

func TestMachine_EmptyWindowIsCaptureFailure(t *testing.T) {
	m := newTestMachine(DefaultConfig())
	if _, err := m.StartSingle(t0); err != nil {
		t.Fatalf("StartSingle: %v", err)
	}

	events := m.Advance(t0.Add(time.Hour))
	if len(find(events, EventResult)) != 0 {
		t.Fatalf("an empty capture must not produce a score")
	}
	failed := find(events, EventCaptureFailed)
	if len(failed) != 1 || failed[0].Message != analysis.ErrEmptyBuffer.Error() {
		t.Fatalf("expected one capture_failed event, got %+v", failed)
	}
	if failed[0].State != Idle || m.State() != Idle {
		t.Fatalf("capture failure returns to Idle, got %v", m.State())
	}
}

func TestMachine_WindowBoundaries(t *testing.T) {
	m := newTestMachine(DefaultConfig())
	_, _ = m.StartSingle(t0)

	m.Observe(squareSample(t0.Add(-time.Millisecond), 0, uniform(5)))
	m.Observe(squareSample(t0, 1, uniform(5)))
	m.Observe(squareSample(t0.Add(5*time.Second-time.Nanosecond), 2, uniform(5)))
	events := m.Observe(squareSample(t0.Add(5*time.Second), 3, uniform(5)))

	done := find(events, EventCaptureComplete)
	if len(done) != 1 || done[0].Samples != 2 {
		t.Fatalf("window is [open, deadline): expected 2 samples, got %+v", done)
	}
}

func TestMachine_StimulusSessionFlow(t *testing.T) {
	cfg := Config{CountdownTicks: 3, CountdownTick: time.Second, Window: 2 * time.Second, Gap: time.Second, Stimuli: 3}
	m := newTestMachine(cfg)

	events, err := m.StartStimulusSession(t0, 0)
	if err != nil {
		t.Fatalf("StartStimulusSession: %v", err)
	}
	if cd := find(events, EventCountdown); len(cd) != 1 || cd[0].Remaining != 3 {
		t.Fatalf("expected countdown 3, got %+v", events)
	}
	if m.State() != InitialCountdown {
		t.Fatalf("expected InitialCountdown, got %v", m.State())
	}

	var all []Event
	all = append(all, m.Advance(t0.Add(1*time.Second))...)
	all = append(all, m.Advance(t0.Add(2*time.Second))...)
	all = append(all, m.Advance(t0.Add(3*time.Second))...)
	if m.State() != Capturing || m.Snapshot().Index != 0 {
		t.Fatalf("countdown should open window 0, got %v", m.State())
	}

	// window 0 [3s,5s), gap [5s,6s), window 1 [6s,8s), gap [8s,9s), window 2 [9s,11s)
	all = append(all, feed(m, t0.Add(3*time.Second), 500, uniform(10))...)
	all = append(all, m.Advance(t0.Add(5500*time.Millisecond))...)
	if m.State() != InterStimulus {
		t.Fatalf("expected InterStimulus between windows, got %v", m.State())
	}
	all = append(all, feed(m, t0.Add(6*time.Second), 500, [8]float64{10, 30, 30, 30, 30, 30, 30, 30})...)
	all = append(all, feed(m, t0.Add(9*time.Second), 500, uniform(50))...)
	all = append(all, m.Advance(t0.Add(11*time.Second))...)

	if cd := find(all, EventCountdown); len(cd) != 2 || cd[0].Remaining != 2 || cd[1].Remaining != 1 {
		t.Fatalf("expected countdown ticks 2 and 1, got %+v", cd)
	}
	stim := find(all, EventStimulus)
	if len(stim) != 3 {
		t.Fatalf("expected 3 stimulus events, got %d", len(stim))
	}
	for i, ev := range stim {
		if ev.Index != i || ev.Total != 3 || !ev.At.Equal(t0.Add(time.Duration(3+3*i)*time.Second)) {
			t.Fatalf("stimulus %d: unexpected event %+v", i, ev)
		}
	}
	for _, ev := range find(all, EventCaptureComplete) {
		if ev.Samples != 500 {
			t.Fatalf("window %d: expected 500 samples, got %d", ev.Index, ev.Samples)
		}
	}
	if got := len(find(all, EventResult)); got != 3 {
		t.Fatalf("expected 3 per-stimulus results, got %d", got)
	}
	final := find(all, EventSessionResult)
	if len(final) != 1 || final[0].Outcome == nil {
		t.Fatalf("expected a session result, got %v", kinds(all))
	}
	out := final[0].Outcome
	if out.Scores[0] != 50 || out.Scores[1] != 75 || out.Scores[2] != 75 {
		t.Fatalf("unexpected scores %v", out.Scores)
	}
	if out.Winner != 1 || final[0].Index != 1 {
		t.Fatalf("first maximum should win, got %d", out.Winner)
	}
	if m.State() != Results || len(m.Results()) != 3 {
		t.Fatalf("expected Results with 3 entries, got %v", m.State())
	}
}

func TestMachine_StimulusWithEmptyWindowFails(t *testing.T) {
	cfg := Config{CountdownTicks: 0, Window: time.Second, Gap: 0, Stimuli: 2}
	m := newTestMachine(cfg)
	events, err := m.StartStimulusSession(t0, 2)
	if err != nil {
		t.Fatalf("StartStimulusSession: %v", err)
	}
	if len(find(events, EventStimulus)) != 1 || m.State() != Capturing {
		t.Fatalf("zero countdown should open the first window immediately")
	}

	events = feed(m, t0, 250, uniform(20))
	events = append(events, m.Advance(t0.Add(2*time.Second))...)

	failed := find(events, EventCaptureFailed)
	if len(failed) != 1 || failed[0].Index != 1 {
		t.Fatalf("expected stimulus 1 to fail, got %+v", failed)
	}
	if len(find(events, EventSessionResult)) != 0 {
		t.Fatalf("a failed session must not pick a winner")
	}
	if m.State() != Idle {
		t.Fatalf("expected Idle after failure, got %v", m.State())
	}
}

func TestMachine_StartRules(t *testing.T) {
	m := newTestMachine(DefaultConfig())
	if _, err := m.StartStimulusSession(t0, 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := m.StartSingle(t0); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
	if m.Snapshot().Total != 5 {
		t.Fatalf("default stimulus count should be 5, got %d", m.Snapshot().Total)
	}

	events := m.Reset(t0.Add(time.Second))
	if len(events) != 1 || events[0].State != Idle || m.State() != Idle {
		t.Fatalf("reset should return to Idle")
	}
	if _, ok := m.NextDeadline(); ok || m.Buffers() != nil {
		t.Fatalf("reset must cancel timers and discard buffers")
	}

	_, _ = m.StartSingle(t0)
	feed(m, t0, 10, uniform(5))
	m.Advance(t0.Add(10 * time.Second))
	if m.State() != Results {
		t.Fatalf("expected Results, got %v", m.State())
	}
	first := m.Snapshot().SessionID
	if _, err := m.StartSingle(t0.Add(11 * time.Second)); err != nil {
		t.Fatalf("starting from Results should be allowed: %v", err)
	}
	if m.Snapshot().SessionID == first || len(m.Buffers()) != 1 {
		t.Fatalf("a new session must start with fresh buffers")
	}
}

func TestMachine_SilentDeviceDoesNotHang(t *testing.T) {
	cfg := Config{CountdownTicks: 2, CountdownTick: 100 * time.Millisecond, Window: time.Second, Gap: 500 * time.Millisecond, Stimuli: 3}
	m := newTestMachine(cfg)
	_, _ = m.StartStimulusSession(t0, 3)

	events := m.Advance(t0.Add(time.Minute))
	if m.State() != Idle {
		t.Fatalf("timers alone must drive the session to completion, got %v", m.State())
	}
	if got := len(find(events, EventCaptureFailed)); got != 3 {
		t.Fatalf("expected three capture failures, got %d", got)
	}
}

func TestConfigNormalization(t *testing.T) {
	cfg := Config{CountdownTicks: -1, Gap: -time.Second}.normalized()
	def := DefaultConfig()
	if cfg.CountdownTicks != 0 || cfg.Gap != 0 {
		t.Fatalf("negative values should clamp to zero: %+v", cfg)
	}
	if cfg.Window != def.Window || cfg.CountdownTick != def.CountdownTick || cfg.Stimuli != def.Stimuli {
		t.Fatalf("zero values should take defaults: %+v", cfg)
	}
	if Capturing.String() != "capturing" || ModeStimulus.String() != "stimulus" {
		t.Fatalf("unexpected string forms")
	}
}

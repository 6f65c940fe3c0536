package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/analysis"
	"github.com/joeydtaylor/synapse/pkg/internal/session"
	"github.com/joeydtaylor/synapse/pkg/internal/streambus"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type harness struct {
	bus    *streambus.Bus
	ctrl   *session.Controller
	events chan session.Event
	cancel context.CancelFunc
	done   chan error
}

func newHarness(t *testing.T, cfg session.Config) *harness {
	t.Helper()
	bus := streambus.NewBus()
	sub, err := bus.Subscribe("session", 4096)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	events := make(chan session.Event, 256)
	ctrl := session.NewController(
		session.NewMachine(cfg, analysis.NewEngine()),
		sub,
		session.WithEmitter(func(ev session.Event) { events <- ev }),
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	h := &harness{bus: bus, ctrl: ctrl, events: events, cancel: cancel, done: done}
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func (h *harness) waitFor(t *testing.T, kind session.EventKind, timeout time.Duration) session.Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-h.events:
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", kind)
			return session.Event{}
		}
	}
}

func publishFor(bus *streambus.Bus, d time.Duration) <-chan int {
	count := make(chan int, 1)
	go func() {
		n := 0
		stop := time.After(d)
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				count <- n
				return
			case <-ticker.C:
				s := types.Sample{Sequence: uint8(n), Timestamp: time.Now()}
				for c := range s.Channels {
					s.Channels[c] = float64((n%2)*40 - 20)
				}
				bus.Publish(s)
				n++
			}
		}
	}()
	return count
}

func TestController_SingleCaptureProducesResult(t *testing.T) {
	h := newHarness(t, session.Config{Window: 150 * time.Millisecond})
	ctx := context.Background()

	published := publishFor(h.bus, 400*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if err := h.ctrl.StartCapture(ctx); err != nil {
		t.Fatalf("StartCapture: %v", err)
	}
	if err := h.ctrl.StartCapture(ctx); !errors.Is(err, session.ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}

	done := h.waitFor(t, session.EventCaptureComplete, 2*time.Second)
	res := h.waitFor(t, session.EventResult, time.Second)
	if done.Samples == 0 {
		t.Fatalf("expected samples in the window")
	}
	if res.Result == nil || res.Result.SampleCount != done.Samples {
		t.Fatalf("result should cover exactly the frozen buffer: %d vs %d", res.Result.SampleCount, done.Samples)
	}
	if n := <-published; done.Samples > n {
		t.Fatalf("captured %d samples but only %d were published", done.Samples, n)
	}

	snap, err := h.ctrl.Snapshot(ctx)
	if err != nil || snap.State != session.Results {
		t.Fatalf("expected Results snapshot, got %+v err=%v", snap, err)
	}
	if err := h.ctrl.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	snap, _ = h.ctrl.Snapshot(ctx)
	if snap.State != session.Idle {
		t.Fatalf("expected Idle after reset, got %v", snap.State)
	}
}

func TestController_SilentDeviceFailsCapture(t *testing.T) {
	h := newHarness(t, session.Config{Window: 50 * time.Millisecond})
	if err := h.ctrl.StartCapture(context.Background()); err != nil {
		t.Fatalf("StartCapture: %v", err)
	}
	ev := h.waitFor(t, session.EventCaptureFailed, 2*time.Second)
	if ev.Message != analysis.ErrEmptyBuffer.Error() {
		t.Fatalf("unexpected failure message %q", ev.Message)
	}
}

func TestController_StimulusSessionEndsWithWinner(t *testing.T) {
	cfg := session.Config{
		CountdownTicks: 2,
		CountdownTick:  20 * time.Millisecond,
		Window:         60 * time.Millisecond,
		Gap:            20 * time.Millisecond,
		Stimuli:        3,
	}
	h := newHarness(t, cfg)
	publishFor(h.bus, 600*time.Millisecond)

	if err := h.ctrl.StartSession(context.Background(), 0); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	ev := h.waitFor(t, session.EventSessionResult, 3*time.Second)
	if ev.Outcome == nil || len(ev.Outcome.Scores) != 3 {
		t.Fatalf("expected 3 scored stimuli, got %+v", ev.Outcome)
	}
	if ev.Outcome.Winner < 0 || ev.Outcome.Winner > 2 {
		t.Fatalf("winner out of range: %d", ev.Outcome.Winner)
	}
}

func TestController_StoppedRejectsRequests(t *testing.T) {
	h := newHarness(t, session.DefaultConfig())
	h.cancel()
	if err := <-h.done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from Run, got %v", err)
	}
	h.done <- nil

	if err := h.ctrl.StartCapture(context.Background()); !errors.Is(err, session.ErrControllerStopped) {
		t.Fatalf("expected ErrControllerStopped, got %v", err)
	}
}

func TestController_FeedCloseStopsLoop(t *testing.T) {
	h := newHarness(t, session.DefaultConfig())
	_ = h.bus.Close()
	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
		h.done <- nil
	case <-time.After(time.Second):
		t.Fatal("controller did not stop after the feed closed")
	}
}

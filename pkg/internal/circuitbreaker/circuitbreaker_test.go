package circuitbreaker_test

import (
	"testing"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/circuitbreaker"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestBreaker_TripsAtThresholdAndCoolsDown(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	cb := circuitbreaker.New(3, 0, 2*time.Second, circuitbreaker.WithClock(clock.Now))

	for i := 0; i < 2; i++ {
		cb.RecordError()
		if !cb.Allow() {
			t.Fatalf("breaker opened early after %d errors", i+1)
		}
	}
	cb.RecordError()
	if cb.Allow() {
		t.Fatalf("expected breaker open after threshold")
	}

	clock.Advance(time.Second)
	if cb.Allow() {
		t.Fatalf("expected breaker still open inside cooldown")
	}

	clock.Advance(time.Second)
	if !cb.Allow() {
		t.Fatalf("expected breaker closed after cooldown")
	}
	if cb.Trips() != 1 {
		t.Fatalf("expected 1 trip, got %d", cb.Trips())
	}
}

func TestBreaker_SuccessClearsRun(t *testing.T) {
	cb := circuitbreaker.New(2, 0, time.Minute)

	cb.RecordError()
	cb.RecordSuccess()
	cb.RecordError()
	if !cb.Allow() {
		t.Fatalf("non-consecutive errors should not trip")
	}
}

func TestBreaker_WindowExpiresOldErrors(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	cb := circuitbreaker.New(2, time.Second, time.Minute, circuitbreaker.WithClock(clock.Now))

	cb.RecordError()
	clock.Advance(2 * time.Second)
	cb.RecordError()
	if !cb.Allow() {
		t.Fatalf("errors outside the window should not combine")
	}

	cb.RecordError()
	if cb.Allow() {
		t.Fatalf("expected trip for two errors inside the window")
	}
}

func TestBreaker_ManualTripAndReset(t *testing.T) {
	cb := circuitbreaker.New(5, 0, time.Hour)
	cb.Trip()
	if !cb.Open() || cb.Allow() {
		t.Fatalf("expected open after Trip")
	}
	cb.Reset()
	if cb.Open() || !cb.Allow() {
		t.Fatalf("expected closed after Reset")
	}
}

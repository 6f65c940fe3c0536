package circuitbreaker

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// Allow reports whether a call may proceed, closing the breaker once the
// cooldown since the last trip has passed.
func (cb *Breaker) Allow() bool {
	now := cb.clock()

	cb.stateLock.Lock()
	if !cb.open {
		cb.stateLock.Unlock()
		return true
	}
	if now.Sub(cb.lastTripped) < cb.cooldown {
		cb.stateLock.Unlock()
		return false
	}
	cb.open = false
	cb.errorCount = 0
	cb.stateLock.Unlock()

	cb.NotifyLoggers(types.InfoLevel, "Circuit breaker reset",
		"component", cb.componentMetadata,
		"event", "Reset",
		"result", "SUCCESS",
		"auto", true,
	)
	return true
}

// RecordError counts a failure and opens the breaker at the threshold.
func (cb *Breaker) RecordError() {
	now := cb.clock()

	cb.stateLock.Lock()
	if cb.open {
		cb.stateLock.Unlock()
		return
	}
	if cb.errorCount == 0 || (cb.window > 0 && now.Sub(cb.firstError) > cb.window) {
		cb.errorCount = 0
		cb.firstError = now
	}
	cb.errorCount++
	count := cb.errorCount
	tripped := count >= cb.threshold
	if tripped {
		cb.trip(now)
	}
	cb.stateLock.Unlock()

	if tripped {
		cb.NotifyLoggers(types.WarnLevel, "Circuit breaker tripped",
			"component", cb.componentMetadata,
			"event", "Trip",
			"result", "FAILURE",
			"errorCount", count,
			"nextReset", now.Add(cb.cooldown),
		)
	}
}

// RecordSuccess clears the error run.
func (cb *Breaker) RecordSuccess() {
	cb.stateLock.Lock()
	if !cb.open {
		cb.errorCount = 0
	}
	cb.stateLock.Unlock()
}

// Trip forces the breaker open.
func (cb *Breaker) Trip() {
	now := cb.clock()
	cb.stateLock.Lock()
	already := cb.open
	if !already {
		cb.trip(now)
	}
	cb.stateLock.Unlock()
	if !already {
		cb.NotifyLoggers(types.WarnLevel, "Circuit breaker tripped",
			"component", cb.componentMetadata,
			"event", "Trip",
			"result", "FAILURE",
			"manual", true,
		)
	}
}

// Reset closes the breaker immediately.
func (cb *Breaker) Reset() {
	cb.stateLock.Lock()
	cb.open = false
	cb.errorCount = 0
	cb.stateLock.Unlock()
}

// Open reports whether calls are currently refused, without the cooldown check.
func (cb *Breaker) Open() bool {
	cb.stateLock.Lock()
	defer cb.stateLock.Unlock()
	return cb.open
}

// Trips returns how many times the breaker has opened.
func (cb *Breaker) Trips() uint64 {
	cb.stateLock.Lock()
	defer cb.stateLock.Unlock()
	return cb.trips
}

// trip requires stateLock.
func (cb *Breaker) trip(now time.Time) {
	cb.open = true
	cb.lastTripped = now
	cb.trips++
}

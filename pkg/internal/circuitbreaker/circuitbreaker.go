// Package circuitbreaker stops calls to a failing downstream for a cooldown
// after a run of errors, so a dead broker does not stall the caller on every
// attempt.
package circuitbreaker

import (
	"sync"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// Breaker counts errors inside a window. Reaching the threshold opens it;
// Allow closes it again once the cooldown has elapsed.
type Breaker struct {
	componentMetadata types.ComponentMetadata

	threshold int
	window    time.Duration
	cooldown  time.Duration
	clock     func() time.Time

	stateLock   sync.Mutex
	open        bool
	errorCount  int
	firstError  time.Time
	lastTripped time.Time
	trips       uint64

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// New creates a closed breaker that opens after threshold errors within
// window and stays open for cooldown. A zero window counts consecutive
// errors with no time limit.
func New(threshold int, window, cooldown time.Duration, options ...types.Option[*Breaker]) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	cb := &Breaker{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "CIRCUIT_BREAKER",
		},
		threshold: threshold,
		window:    window,
		cooldown:  cooldown,
		clock:     time.Now,
	}
	for _, option := range options {
		option(cb)
	}
	return cb
}

func (cb *Breaker) GetComponentMetadata() types.ComponentMetadata {
	return cb.componentMetadata
}

func (cb *Breaker) ConnectLogger(loggers ...types.Logger) {
	cb.loggersLock.Lock()
	defer cb.loggersLock.Unlock()
	cb.loggers = append(cb.loggers, loggers...)
}

func (cb *Breaker) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	cb.loggersLock.Lock()
	loggers := append([]types.Logger(nil), cb.loggers...)
	cb.loggersLock.Unlock()
	utils.NotifyLoggers(loggers, level, msg, keysAndValues...)
}

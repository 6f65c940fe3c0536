package builder

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/circuitbreaker"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type CircuitBreaker = circuitbreaker.Breaker

// NewCircuitBreaker opens after threshold errors within window and refuses
// calls for cooldown.
func NewCircuitBreaker(threshold int, window, cooldown time.Duration, options ...types.Option[*circuitbreaker.Breaker]) *circuitbreaker.Breaker {
	return circuitbreaker.New(threshold, window, cooldown, options...)
}

// CircuitBreakerWithLogger attaches one or more loggers to the breaker.
func CircuitBreakerWithLogger(loggers ...types.Logger) types.Option[*circuitbreaker.Breaker] {
	return circuitbreaker.WithLogger(loggers...)
}

// CircuitBreakerWithComponentMetadata sets the name and ID for the breaker.
func CircuitBreakerWithComponentMetadata(name, id string) types.Option[*circuitbreaker.Breaker] {
	return circuitbreaker.WithComponentMetadata(name, id)
}

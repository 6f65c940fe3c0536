package circuitbreaker

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

func WithLogger(loggers ...types.Logger) types.Option[*Breaker] {
	return func(cb *Breaker) { cb.ConnectLogger(loggers...) }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) types.Option[*Breaker] {
	return func(cb *Breaker) {
		if clock != nil {
			cb.clock = clock
		}
	}
}

func WithComponentMetadata(name, id string) types.Option[*Breaker] {
	return func(cb *Breaker) {
		if name != "" {
			cb.componentMetadata.Name = name
		}
		if id != "" {
			cb.componentMetadata.ID = id
		}
	}
}

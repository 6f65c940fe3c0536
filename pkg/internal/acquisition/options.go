package acquisition

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/scaler"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

func WithLogger(loggers ...types.Logger) types.Option[*Loop] {
	return func(l *Loop) { l.ConnectLogger(loggers...) }
}

func WithMeter(m types.Meter) types.Option[*Loop] {
	return func(l *Loop) { l.meter = m }
}

func WithScaler(s scaler.Scaler) types.Option[*Loop] {
	return func(l *Loop) { l.scaler = s }
}

func WithClock(clock func() time.Time) types.Option[*Loop] {
	return func(l *Loop) {
		if clock != nil {
			l.clock = clock
		}
	}
}

func WithStatus(fn StatusFunc) types.Option[*Loop] {
	return func(l *Loop) {
		if fn != nil {
			l.status = fn
		}
	}
}

// WithBackoff sets the first reopen delay and its cap.
func WithBackoff(initial, max time.Duration) types.Option[*Loop] {
	return func(l *Loop) {
		if initial > 0 {
			l.initialBackoff = initial
		}
		if max >= l.initialBackoff {
			l.maxBackoff = max
		}
	}
}

func WithReadSize(n int) types.Option[*Loop] {
	return func(l *Loop) {
		if n > 0 {
			l.readSize = n
		}
	}
}

// WithStopOnEOF ends Run cleanly when the source reports io.EOF, for finite replays.
func WithStopOnEOF(stop bool) types.Option[*Loop] {
	return func(l *Loop) { l.stopOnEOF = stop }
}

func WithComponentMetadata(name, id string) types.Option[*Loop] {
	return func(l *Loop) {
		l.componentMetadata.Name = name
		l.componentMetadata.ID = id
	}
}

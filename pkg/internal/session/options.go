package session

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// WithEmitter sets where events are delivered. The emitter runs on the controller
// goroutine and must not block.
func WithEmitter(emit Emitter) types.Option[*Controller] {
	return func(c *Controller) {
		if emit != nil {
			c.emit = emit
		}
	}
}

// WithClock replaces time.Now, e.g. in tests.
func WithClock(clock func() time.Time) types.Option[*Controller] {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithMeter counts completed and failed captures on m.
func WithMeter(m types.Meter) types.Option[*Controller] {
	return func(c *Controller) { c.meter = m }
}

// WithLogger attaches loggers.
func WithLogger(loggers ...types.Logger) types.Option[*Controller] {
	return func(c *Controller) {
		c.loggersLock.Lock()
		defer c.loggersLock.Unlock()
		c.loggers = append(c.loggers, loggers...)
	}
}

// WithComponentMetadata overrides the controller name and id.
func WithComponentMetadata(name, id string) types.Option[*Controller] {
	return func(c *Controller) {
		if name != "" {
			c.componentMetadata.Name = name
		}
		if id != "" {
			c.componentMetadata.ID = id
		}
	}
}

package streambus

import "github.com/joeydtaylor/synapse/pkg/internal/types"

// WithLogger attaches loggers.
func WithLogger(loggers ...types.Logger) types.Option[*Bus] {
	return func(b *Bus) { b.ConnectLogger(loggers...) }
}

// WithMeter records publish and drop counters on m.
func WithMeter(m types.Meter) types.Option[*Bus] {
	return func(b *Bus) { b.meter = m }
}

// WithDefaultCapacity sets the ring size used when Subscribe is given no capacity.
func WithDefaultCapacity(capacity int) types.Option[*Bus] {
	return func(b *Bus) {
		if capacity > 0 {
			b.defaultCapacity = capacity
		}
	}
}

// WithComponentMetadata overrides the bus name and id.
func WithComponentMetadata(name, id string) types.Option[*Bus] {
	return func(b *Bus) {
		if name != "" {
			b.componentMetadata.Name = name
		}
		if id != "" {
			b.componentMetadata.ID = id
		}
	}
}

package builder

import (
	"github.com/joeydtaylor/synapse/pkg/internal/streambus"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type Bus = streambus.Bus

type Subscription = streambus.Subscription

type Sample = types.Sample

// DefaultBusCapacity is the per-subscriber ring size used when none is given.
const DefaultBusCapacity = streambus.DefaultCapacity

// NewBus creates the in-process sample fan-out.
func NewBus(options ...types.Option[*streambus.Bus]) *streambus.Bus {
	return streambus.NewBus(options...)
}

// BusWithLogger attaches one or more loggers to the bus.
func BusWithLogger(loggers ...types.Logger) types.Option[*streambus.Bus] {
	return streambus.WithLogger(loggers...)
}

// BusWithMeter records publish, drop and subscriber counts.
func BusWithMeter(m types.Meter) types.Option[*streambus.Bus] {
	return streambus.WithMeter(m)
}

// BusWithDefaultCapacity sets the ring size used when Subscribe is given no capacity.
func BusWithDefaultCapacity(capacity int) types.Option[*streambus.Bus] {
	return streambus.WithDefaultCapacity(capacity)
}

// BusWithComponentMetadata sets the name and ID for the bus.
func BusWithComponentMetadata(name, id string) types.Option[*streambus.Bus] {
	return streambus.WithComponentMetadata(name, id)
}

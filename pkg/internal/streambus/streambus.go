// Package streambus fans decoded samples out to any number of consumers.
//
// Each subscriber owns a bounded ring. Publish never blocks: when a ring is
// full the oldest unconsumed sample for that subscriber is overwritten, so a
// slow consumer always holds the most recent samples in publish order.
package streambus

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// DefaultCapacity is the per-subscriber ring size when none is given (~2 s at 250 Hz).
const DefaultCapacity = 512

var (
	// ErrBusClosed is returned when subscribing to a closed bus.
	ErrBusClosed = errors.New("stream bus is closed")

	// ErrSubscriberExists is returned when Subscribe is called with a duplicate id.
	ErrSubscriberExists = errors.New("subscriber id already exists")

	// ErrSubscriberNotFound is returned when Unsubscribe is called with an unknown id.
	ErrSubscriberNotFound = errors.New("subscriber id not found")

)

// Stats contains global and per-subscriber counters.
type Stats struct {
	Published   uint64
	Delivered   uint64
	Dropped     uint64
	Subscribers map[string]SubscriberStats
}

// SubscriberStats tracks counters for a single subscriber.
type SubscriberStats struct {
	Delivered uint64
	Dropped   uint64
	Pending   int
	Capacity  int
}

// Bus is a single-producer, multi-consumer sample fan-out.
type Bus struct {
	componentMetadata types.ComponentMetadata

	mu          sync.RWMutex
	subscribers map[string]*Subscription
	closed      bool

	defaultCapacity int
	published       atomic.Uint64

	meter       types.Meter
	loggers     []types.Logger
	loggersLock sync.Mutex
}

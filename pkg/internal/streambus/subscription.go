package streambus

import (
	"sync"
	"sync/atomic"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// Subscription is one consumer's bounded view of the stream.
type Subscription struct {
	id  string
	bus *Bus

	mu    sync.Mutex
	ring  []types.Sample
	head  int
	count int

	ready     chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

func newSubscription(id string, bus *Bus, capacity int) *Subscription {
	return &Subscription{
		id:    id,
		bus:   bus,
		ring:  make([]types.Sample, capacity),
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *Subscription) ID() string { return s.id }

// Capacity returns the ring size.
func (s *Subscription) Capacity() int { return len(s.ring) }

// push appends a sample, overwriting the oldest when full. It reports whether a sample was dropped.
func (s *Subscription) push(sample types.Sample) bool {
	s.mu.Lock()
	dropped := false
	tail := (s.head + s.count) % len(s.ring)
	s.ring[tail] = sample
	if s.count == len(s.ring) {
		s.head = (s.head + 1) % len(s.ring)
		dropped = true
	} else {
		s.count++
	}
	s.mu.Unlock()

	if dropped {
		s.dropped.Add(1)
	}
	select {
	case s.ready <- struct{}{}:
	default:
	}
	return dropped
}

// Drain appends every pending sample to dst in publish order and returns it.
func (s *Subscription) Drain(dst []types.Sample) []types.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.count > 0 {
		dst = append(dst, s.ring[s.head])
		s.ring[s.head] = types.Sample{}
		s.head = (s.head + 1) % len(s.ring)
		s.count--
		s.delivered.Add(1)
	}
	return dst
}

// Len returns the number of pending samples.
func (s *Subscription) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Ready is signalled after a publish; it may coalesce several publishes into one signal.
func (s *Subscription) Ready() <-chan struct{} { return s.ready }

// Done is closed when the subscription is removed from the bus.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Close detaches the subscription. Pending samples stay readable through Drain.
func (s *Subscription) Close() {
	if s.bus != nil {
		_ = s.bus.Unsubscribe(s.id)
	}
	s.markClosed()
}

func (s *Subscription) markClosed() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Subscription) stats() SubscriberStats {
	return SubscriberStats{
		Delivered: s.delivered.Load(),
		Dropped:   s.dropped.Load(),
		Pending:   s.Len(),
		Capacity:  len(s.ring),
	}
}

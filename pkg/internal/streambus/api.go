package streambus

import (
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// NewBus creates an open bus.
func NewBus(options ...types.Option[*Bus]) *Bus {
	b := &Bus{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "STREAM_BUS",
		},
		subscribers:     make(map[string]*Subscription),
		defaultCapacity: DefaultCapacity,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Subscribe registers a consumer. An empty id is replaced with a generated one and a
// non-positive capacity selects the bus default. The consumer sees only samples
// published after this call returns.
func (b *Bus) Subscribe(id string, capacity int) (*Subscription, error) {
	if id == "" {
		id = utils.GenerateID()
	}
	if capacity <= 0 {
		capacity = b.defaultCapacity
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	if _, exists := b.subscribers[id]; exists {
		b.mu.Unlock()
		return nil, ErrSubscriberExists
	}
	sub := newSubscription(id, b, capacity)
	b.subscribers[id] = sub
	b.mu.Unlock()

	if b.meter != nil {
		b.meter.IncrementCount(types.MetricConsumersConnected)
	}
	b.NotifyLoggers(types.DebugLevel, "Subscriber attached",
		"component", b.componentMetadata,
		"event", "Subscribe",
		"result", "SUCCESS",
		"subscriber", id,
		"capacity", capacity,
	)
	return sub, nil
}

// Unsubscribe removes a consumer by id. Other consumers and the producer are unaffected.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	sub, exists := b.subscribers[id]
	if exists {
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	if !exists {
		return ErrSubscriberNotFound
	}
	sub.markClosed()

	if b.meter != nil {
		b.meter.DecrementCount(types.MetricConsumersConnected)
	}
	b.NotifyLoggers(types.DebugLevel, "Subscriber detached",
		"component", b.componentMetadata,
		"event", "Unsubscribe",
		"result", "SUCCESS",
		"subscriber", id,
		"dropped", sub.dropped.Load(),
	)
	return nil
}

// Publish hands a sample to every current subscriber. It never blocks on a consumer
// and never drops the newest sample. Publishing to a closed bus is a no-op.
func (b *Bus) Publish(sample types.Sample) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	var dropped uint64
	for _, sub := range b.subscribers {
		if sub.push(sample) {
			dropped++
		}
	}
	b.mu.RUnlock()

	b.published.Add(1)
	if b.meter != nil {
		b.meter.IncrementCount(types.MetricSamplesPublished)
		if dropped > 0 {
			b.meter.AddCount(types.MetricSamplesDropped, dropped)
		}
	}
}

// Close detaches every subscriber and rejects further subscriptions.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	b.closed = true
	subs := b.subscribers
	b.subscribers = make(map[string]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.markClosed()
	}
	b.NotifyLoggers(types.InfoLevel, "Stream bus closed",
		"component", b.componentMetadata,
		"event", "Close",
		"result", "SUCCESS",
		"subscribers", len(subs),
	)
	return nil
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	subs := make(map[string]*Subscription, len(b.subscribers))
	for id, sub := range b.subscribers {
		subs[id] = sub
	}
	b.mu.RUnlock()

	out := Stats{
		Published:   b.published.Load(),
		Subscribers: make(map[string]SubscriberStats, len(subs)),
	}
	for id, sub := range subs {
		st := sub.stats()
		out.Subscribers[id] = st
		out.Delivered += st.Delivered
		out.Dropped += st.Dropped
	}
	return out
}

// SubscriberCount returns the number of attached consumers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// GetComponentMetadata returns the bus metadata.
func (b *Bus) GetComponentMetadata() types.ComponentMetadata {
	return b.componentMetadata
}

// ConnectLogger attaches loggers to the bus.
func (b *Bus) ConnectLogger(loggers ...types.Logger) {
	b.loggersLock.Lock()
	defer b.loggersLock.Unlock()
	b.loggers = append(b.loggers, loggers...)
}

// NotifyLoggers logs a structured message to all attached loggers.
func (b *Bus) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	b.loggersLock.Lock()
	loggers := make([]types.Logger, len(b.loggers))
	copy(loggers, b.loggers)
	b.loggersLock.Unlock()

	utils.NotifyLoggers(loggers, level, msg, keysAndValues...)
}

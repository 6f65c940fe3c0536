// Package kafkarelay forwards the sample stream and session events to a Kafka
// topic. It is an ordinary bus consumer: when Kafka is slow it loses its own
// oldest samples and nothing upstream notices.
package kafkarelay

import (
	"context"
	"sync"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/circuitbreaker"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
	"github.com/segmentio/kafka-go"
)

const (
	DefaultMaxRecords  = 250
	DefaultMaxAge      = time.Second
	DefaultEventBuffer = 256
)

// MessageWriter is the subset of *kafka.Writer the forwarder needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// SampleFeed is a bus subscription.
type SampleFeed interface {
	Drain(dst []types.Sample) []types.Sample
	Ready() <-chan struct{}
	Done() <-chan struct{}
}

type Forwarder struct {
	componentMetadata types.ComponentMetadata

	writer     MessageWriter
	maxRecords int
	maxAge     time.Duration
	device     string
	meter      types.Meter
	breaker    *circuitbreaker.Breaker

	events chan kafka.Message

	loggers     []types.Logger
	loggersLock sync.Mutex
}

func NewForwarder(writer MessageWriter, options ...types.Option[*Forwarder]) *Forwarder {
	f := &Forwarder{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "KAFKA_FORWARDER",
		},
		writer:     writer,
		maxRecords: DefaultMaxRecords,
		maxAge:     DefaultMaxAge,
		events:     make(chan kafka.Message, DefaultEventBuffer),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// NewWriter builds a kafka-go writer with the producer settings used for the stream topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           200 * time.Millisecond,
		BatchBytes:             int64(1 << 20),
		BatchSize:              100,
		RequiredAcks:           kafka.RequireOne,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}
}

func (f *Forwarder) GetComponentMetadata() types.ComponentMetadata {
	return f.componentMetadata
}

func (f *Forwarder) ConnectLogger(loggers ...types.Logger) {
	f.loggersLock.Lock()
	defer f.loggersLock.Unlock()
	f.loggers = append(f.loggers, loggers...)
}

func (f *Forwarder) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	f.loggersLock.Lock()
	loggers := append([]types.Logger(nil), f.loggers...)
	f.loggersLock.Unlock()
	utils.NotifyLoggers(loggers, level, msg, keysAndValues...)
}

func (f *Forwarder) count(name string, delta uint64) {
	if f.meter != nil && delta > 0 {
		f.meter.AddCount(name, delta)
	}
}

func WithLogger(loggers ...types.Logger) types.Option[*Forwarder] {
	return func(f *Forwarder) { f.ConnectLogger(loggers...) }
}

func WithMeter(m types.Meter) types.Option[*Forwarder] {
	return func(f *Forwarder) { f.meter = m }
}

// WithBatch bounds how many samples are held and for how long before a flush.
func WithBatch(maxRecords int, maxAge time.Duration) types.Option[*Forwarder] {
	return func(f *Forwarder) {
		if maxRecords > 0 {
			f.maxRecords = maxRecords
		}
		if maxAge > 0 {
			f.maxAge = maxAge
		}
	}
}

// WithDevice sets the message key for sample batches.
func WithDevice(name string) types.Option[*Forwarder] {
	return func(f *Forwarder) { f.device = name }
}

// WithCircuitBreaker skips produce calls while cb is open; skipped messages
// count as write errors.
func WithCircuitBreaker(cb *circuitbreaker.Breaker) types.Option[*Forwarder] {
	return func(f *Forwarder) { f.breaker = cb }
}

func WithEventBuffer(size int) types.Option[*Forwarder] {
	return func(f *Forwarder) {
		if size > 0 {
			f.events = make(chan kafka.Message, size)
		}
	}
}

package builder

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/kafkarelay"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/segmentio/kafka-go"
)

type KafkaForwarder = kafkarelay.Forwarder

// NewKafkaWriter returns a kafka-go writer tuned for sample batches.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return kafkarelay.NewWriter(brokers, topic)
}

// NewKafkaForwarder relays bus samples and session events through writer.
func NewKafkaForwarder(writer kafkarelay.MessageWriter, options ...types.Option[*kafkarelay.Forwarder]) *kafkarelay.Forwarder {
	return kafkarelay.NewForwarder(writer, options...)
}

// KafkaForwarderWithLogger attaches one or more loggers to the forwarder.
func KafkaForwarderWithLogger(loggers ...types.Logger) types.Option[*kafkarelay.Forwarder] {
	return kafkarelay.WithLogger(loggers...)
}

// KafkaForwarderWithMeter counts records sent and write errors.
func KafkaForwarderWithMeter(m types.Meter) types.Option[*kafkarelay.Forwarder] {
	return kafkarelay.WithMeter(m)
}

// KafkaForwarderWithBatch sets the flush thresholds.
func KafkaForwarderWithBatch(maxRecords int, maxAge time.Duration) types.Option[*kafkarelay.Forwarder] {
	return kafkarelay.WithBatch(maxRecords, maxAge)
}

// KafkaForwarderWithDevice sets the message key.
func KafkaForwarderWithDevice(name string) types.Option[*kafkarelay.Forwarder] {
	return kafkarelay.WithDevice(name)
}

// KafkaForwarderWithEventBuffer sets the pending session event queue size.
func KafkaForwarderWithEventBuffer(size int) types.Option[*kafkarelay.Forwarder] {
	return kafkarelay.WithEventBuffer(size)
}

// KafkaForwarderWithCircuitBreaker skips produce calls while cb is open.
func KafkaForwarderWithCircuitBreaker(cb *CircuitBreaker) types.Option[*kafkarelay.Forwarder] {
	return kafkarelay.WithCircuitBreaker(cb)
}

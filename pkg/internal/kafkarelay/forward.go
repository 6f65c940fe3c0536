package kafkarelay

import (
	"bytes"
	"context"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/protocol"
	"github.com/joeydtaylor/synapse/pkg/internal/session"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/segmentio/kafka-go"
)

const contentTypeNDJSON = "application/x-ndjson"

// Run consumes feed until ctx ends or the feed closes. Samples are sent as one
// NDJSON message per batch; session events are sent as they arrive.
func (f *Forwarder) Run(ctx context.Context, feed SampleFeed) error {
	f.NotifyLoggers(types.InfoLevel, "Kafka forwarder started",
		"component", f.componentMetadata,
		"event", "Start",
		"result", "SUCCESS",
		"max_records", f.maxRecords,
		"max_age", f.maxAge.String(),
	)

	var (
		scratch []types.Sample
		batch   bytes.Buffer
		records int
	)
	tick := time.NewTicker(f.maxAge)
	defer tick.Stop()

	flush := func(ctx context.Context) {
		if records == 0 {
			return
		}
		msg := kafka.Message{
			Key:   []byte(f.device),
			Value: append([]byte(nil), batch.Bytes()...),
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(protocol.TypeSample)},
				{Key: "content-type", Value: []byte(contentTypeNDJSON)},
			},
		}
		f.write(ctx, records, msg)
		batch.Reset()
		records = 0
	}

	ingest := func(ctx context.Context, samples []types.Sample) {
		for _, s := range samples {
			records += f.appendSample(&batch, s)
			if records >= f.maxRecords {
				flush(ctx)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			f.drainEvents(shutdownCtx)
			flush(shutdownCtx)
			cancel()
			return ctx.Err()
		case <-feed.Done():
			scratch = feed.Drain(scratch[:0])
			ingest(ctx, scratch)
			f.drainEvents(ctx)
			flush(ctx)
			return nil
		case msg := <-f.events:
			f.write(ctx, 1, msg)
		case <-feed.Ready():
			scratch = feed.Drain(scratch[:0])
			ingest(ctx, scratch)
		case <-tick.C:
			flush(ctx)
		}
	}
}

func (f *Forwarder) appendSample(buf *bytes.Buffer, s types.Sample) int {
	line, err := protocol.EncodeSample(s)
	if err != nil {
		f.count(types.MetricKafkaWriteErrors, 1)
		return 0
	}
	buf.Write(line)
	buf.WriteByte('\n')
	return 1
}

// EmitSessionEvent queues a session event for the topic. It never blocks; when
// the queue is full the event is dropped and counted as a write error.
func (f *Forwarder) EmitSessionEvent(ev session.Event) {
	payload, err := protocol.Marshal(protocol.FromEvent(ev))
	if err != nil {
		f.count(types.MetricKafkaWriteErrors, 1)
		return
	}
	msg := kafka.Message{
		Key:   []byte(ev.SessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Kind)},
		},
	}
	select {
	case f.events <- msg:
	default:
		f.count(types.MetricKafkaWriteErrors, 1)
		f.NotifyLoggers(types.WarnLevel, "Kafka event queue full, dropping event",
			"component", f.componentMetadata,
			"event", "Enqueue",
			"result", "FAILURE",
			"kind", string(ev.Kind),
		)
	}
}

func (f *Forwarder) drainEvents(ctx context.Context) {
	for {
		select {
		case msg := <-f.events:
			f.write(ctx, 1, msg)
		default:
			return
		}
	}
}

func (f *Forwarder) write(ctx context.Context, records int, msg kafka.Message) {
	if f.breaker != nil && !f.breaker.Allow() {
		f.count(types.MetricKafkaWriteErrors, 1)
		f.NotifyLoggers(types.DebugLevel, "Kafka produce skipped, circuit open",
			"component", f.componentMetadata,
			"event", "Produce",
			"result", "SKIPPED",
			"records", records,
		)
		return
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		if f.breaker != nil {
			f.breaker.RecordError()
		}
		f.count(types.MetricKafkaWriteErrors, 1)
		f.NotifyLoggers(types.ErrorLevel, "Kafka produce failed",
			"component", f.componentMetadata,
			"event", "Produce",
			"result", "FAILURE",
			"records", records,
			"error", err,
		)
		return
	}
	if f.breaker != nil {
		f.breaker.RecordSuccess()
	}
	f.count(types.MetricKafkaRecordsSent, uint64(records))
	f.NotifyLoggers(types.DebugLevel, "Kafka batch flush",
		"component", f.componentMetadata,
		"event", "BatchFlush",
		"result", "SUCCESS",
		"records", records,
		"bytes", len(msg.Value),
	)
}

// Close closes the underlying writer.
func (f *Forwarder) Close() error {
	return f.writer.Close()
}

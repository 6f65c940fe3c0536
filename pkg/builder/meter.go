package builder

import (
	"context"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/meter"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// MetricName is a type alias for metric names used in the Meter.
type MetricName = string

// Pipeline counters re-exported from the internal types package.
const (
	MetricBytesRead          MetricName = types.MetricBytesRead
	MetricFramesDecoded      MetricName = types.MetricFramesDecoded
	MetricBytesSkipped       MetricName = types.MetricBytesSkipped
	MetricSequenceGaps       MetricName = types.MetricSequenceGaps
	MetricSamplesPublished   MetricName = types.MetricSamplesPublished
	MetricSamplesDropped     MetricName = types.MetricSamplesDropped
	MetricConsumersConnected MetricName = types.MetricConsumersConnected
	MetricConsumerSendErrors MetricName = types.MetricConsumerSendErrors
	MetricDeviceErrors       MetricName = types.MetricDeviceErrors
	MetricDeviceReconnects   MetricName = types.MetricDeviceReconnects
	MetricCapturesCompleted  MetricName = types.MetricCapturesCompleted
	MetricCaptureFailures    MetricName = types.MetricCaptureFailures
	MetricAnalysesRun        MetricName = types.MetricAnalysesRun
	MetricKafkaRecordsSent   MetricName = types.MetricKafkaRecordsSent
	MetricKafkaWriteErrors   MetricName = types.MetricKafkaWriteErrors
)

type Meter = meter.Meter

type MeterSnapshot = meter.Snapshot

// NewMeter creates a new Meter with every pipeline counter registered.
func NewMeter(ctx context.Context, options ...types.Option[*meter.Meter]) *meter.Meter {
	return meter.NewMeter(ctx, options...)
}

// MeterWithLogger attaches loggers for the periodic report.
func MeterWithLogger(loggers ...types.Logger) types.Option[*meter.Meter] {
	return meter.WithLogger(loggers...)
}

// MeterWithReportInterval sets how often Monitor logs a snapshot.
func MeterWithReportInterval(d time.Duration) types.Option[*meter.Meter] {
	return meter.WithReportInterval(d)
}

// MeterWithCPUSampleWindow sets the gopsutil CPU sampling window.
func MeterWithCPUSampleWindow(d time.Duration) types.Option[*meter.Meter] {
	return meter.WithCPUSampleWindow(d)
}

// MeterWithHostProbe replaces the host CPU/RAM probe.
func MeterWithHostProbe(probe func() (cpuPercent, ramPercent float64)) types.Option[*meter.Meter] {
	return meter.WithHostProbe(probe)
}

// MeterWithComponentMetadata sets the name and ID for the meter.
func MeterWithComponentMetadata(name, id string) types.Option[*meter.Meter] {
	return meter.WithComponentMetadata(name, id)
}

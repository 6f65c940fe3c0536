package types

// Counter names recorded by the pipeline.
const (
	MetricBytesRead          = "bytes_read_total"
	MetricFramesDecoded      = "frames_decoded_total"
	MetricBytesSkipped       = "bytes_skipped_total"
	MetricSequenceGaps       = "sequence_gap_frames_total"
	MetricSamplesPublished   = "samples_published_total"
	MetricSamplesDropped     = "samples_dropped_total"
	MetricConsumersConnected = "consumers_connected"
	MetricConsumerSendErrors = "consumer_send_errors_total"
	MetricDeviceErrors       = "device_errors_total"
	MetricDeviceReconnects   = "device_reconnects_total"
	MetricCapturesCompleted  = "captures_completed_total"
	MetricCaptureFailures    = "capture_failures_total"
	MetricAnalysesRun        = "analyses_run_total"
	MetricKafkaRecordsSent   = "kafka_records_sent_total"
	MetricKafkaWriteErrors   = "kafka_write_errors_total"
)

// Host gauges attached to a meter snapshot.
const (
	MetricCurrentCpuPercentage = "current_cpu_percentage"
	MetricCurrentRamPercentage = "current_ram_percentage"
)

// Meter records pipeline counters. Implementations must be safe for concurrent use.
type Meter interface {
	IncrementCount(name string)
	AddCount(name string, delta uint64)
	DecrementCount(name string)
	GetMetricCount(name string) uint64
}

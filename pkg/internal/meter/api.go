package meter

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// IncrementCount adds one to a counter.
func (m *Meter) IncrementCount(name string) {
	atomic.AddUint64(m.counter(name), 1)
}

// AddCount adds delta to a counter.
func (m *Meter) AddCount(name string, delta uint64) {
	atomic.AddUint64(m.counter(name), delta)
}

// DecrementCount subtracts one from a gauge-style counter, stopping at zero.
func (m *Meter) DecrementCount(name string) {
	c := m.counter(name)
	for {
		cur := atomic.LoadUint64(c)
		if cur == 0 || atomic.CompareAndSwapUint64(c, cur, cur-1) {
			return
		}
	}
}

// SetMetricPeak records count as the peak for name if it exceeds the previous one.
func (m *Meter) SetMetricPeak(name string, count uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if count > m.peaks[name] {
		m.peaks[name] = count
	}
}

// GetMetricCount returns the current value of a counter.
func (m *Meter) GetMetricCount(name string) uint64 {
	return atomic.LoadUint64(m.counter(name))
}

// GetMetricNames lists every registered counter.
func (m *Meter) GetMetricNames() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	names := make([]string, 0, len(m.counts))
	for name := range m.counts {
		names = append(names, name)
	}
	return names
}

// ResetMetrics zeroes every counter and peak.
func (m *Meter) ResetMetrics() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, c := range m.counts {
		atomic.StoreUint64(c, 0)
	}
	m.peaks = make(map[string]uint64)
	m.startTime = time.Now()
}

// Snapshot copies every counter and samples host CPU and memory usage.
func (m *Meter) Snapshot() Snapshot {
	m.SetMetricPeak(types.MetricConsumersConnected, m.GetMetricCount(types.MetricConsumersConnected))

	m.mutex.Lock()
	counts := make(map[string]uint64, len(m.counts))
	for name, c := range m.counts {
		counts[name] = atomic.LoadUint64(c)
	}
	peaks := make(map[string]uint64, len(m.peaks))
	for name, v := range m.peaks {
		peaks[name] = v
	}
	uptime := time.Since(m.startTime)
	probe := m.hostProbe
	m.mutex.Unlock()

	cpuPercent, ramPercent := probe()
	return Snapshot{
		Uptime:     uptime,
		UptimeSecs: uptime.Seconds(),
		Counts:     counts,
		Peaks:      peaks,
		CPUPercent: cpuPercent,
		RAMPercent: ramPercent,
	}
}

// Monitor logs a snapshot every report interval until ctx or the meter is cancelled.
func (m *Meter) Monitor(ctx context.Context) {
	ticker := time.NewTicker(m.reportFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			snap := m.Snapshot()
			m.NotifyLoggers(types.InfoLevel, "Pipeline health",
				"component", m.componentMetadata,
				"event", "Report",
				"uptime_s", snap.UptimeSecs,
				"frames", snap.Counts[types.MetricFramesDecoded],
				"skipped_bytes", snap.Counts[types.MetricBytesSkipped],
				"sequence_gaps", snap.Counts[types.MetricSequenceGaps],
				"published", snap.Counts[types.MetricSamplesPublished],
				"dropped", snap.Counts[types.MetricSamplesDropped],
				"consumers", snap.Counts[types.MetricConsumersConnected],
				"cpu_pct", snap.CPUPercent,
				"ram_pct", snap.RAMPercent,
			)
		}
	}
}

// Stop cancels the meter's context, ending Monitor.
func (m *Meter) Stop() { m.cancel() }

// GetComponentMetadata returns the metadata.
func (m *Meter) GetComponentMetadata() types.ComponentMetadata {
	return m.componentMetadata
}

// ConnectLogger attaches loggers.
func (m *Meter) ConnectLogger(l ...types.Logger) {
	m.loggersLock.Lock()
	defer m.loggersLock.Unlock()
	m.loggers = append(m.loggers, l...)
}

// NotifyLoggers logs a structured message to all attached loggers.
func (m *Meter) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	m.loggersLock.Lock()
	loggers := make([]types.Logger, len(m.loggers))
	copy(loggers, m.loggers)
	m.loggersLock.Unlock()

	utils.NotifyLoggers(loggers, level, msg, keysAndValues...)
}

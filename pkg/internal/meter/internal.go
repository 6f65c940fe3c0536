package meter

import (
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

var registeredMetrics = []string{
	types.MetricBytesRead,
	types.MetricFramesDecoded,
	types.MetricBytesSkipped,
	types.MetricSequenceGaps,
	types.MetricSamplesPublished,
	types.MetricSamplesDropped,
	types.MetricConsumersConnected,
	types.MetricConsumerSendErrors,
	types.MetricDeviceErrors,
	types.MetricDeviceReconnects,
	types.MetricCapturesCompleted,
	types.MetricCaptureFailures,
	types.MetricAnalysesRun,
	types.MetricKafkaRecordsSent,
	types.MetricKafkaWriteErrors,
}

func (m *Meter) initializeMetrics() {
	for _, name := range registeredMetrics {
		var zero uint64
		m.counts[name] = &zero
	}
}

func (m *Meter) counter(name string) *uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	c, ok := m.counts[name]
	if !ok {
		var zero uint64
		c = &zero
		m.counts[name] = c
	}
	return c
}

func (m *Meter) probeHost() (float64, float64) {
	var cpuPercent, ramPercent float64
	if pcts, err := cpu.Percent(m.cpuWindow, false); err == nil && len(pcts) > 0 {
		cpuPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		ramPercent = vm.UsedPercent
	}
	return cpuPercent, ramPercent
}

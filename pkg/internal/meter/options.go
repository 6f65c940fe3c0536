package meter

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// WithLogger attaches loggers to the meter.
func WithLogger(loggers ...types.Logger) types.Option[*Meter] {
	return func(m *Meter) { m.ConnectLogger(loggers...) }
}

// WithReportInterval sets how often Monitor logs a health snapshot.
func WithReportInterval(d time.Duration) types.Option[*Meter] {
	return func(m *Meter) {
		if d > 0 {
			m.reportFreq = d
		}
	}
}

// WithCPUSampleWindow sets how long each CPU probe averages over.
func WithCPUSampleWindow(d time.Duration) types.Option[*Meter] {
	return func(m *Meter) {
		if d > 0 {
			m.cpuWindow = d
		}
	}
}

// WithHostProbe replaces the gopsutil probe, e.g. in tests.
func WithHostProbe(probe func() (cpuPercent, ramPercent float64)) types.Option[*Meter] {
	return func(m *Meter) {
		if probe != nil {
			m.hostProbe = probe
		}
	}
}

// WithComponentMetadata overrides the meter name and id.
func WithComponentMetadata(name, id string) types.Option[*Meter] {
	return func(m *Meter) {
		if name != "" {
			m.componentMetadata.Name = name
		}
		if id != "" {
			m.componentMetadata.ID = id
		}
	}
}

package meter

import (
	"context"
	"sync"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

const (
	defaultReportInterval = 30 * time.Second
	defaultSampleWindow   = 500 * time.Millisecond
)

// Meter keeps pipeline counters and samples host load for health reports.
type Meter struct {
	ctx               context.Context
	cancel            context.CancelFunc
	componentMetadata types.ComponentMetadata

	mutex      sync.Mutex
	counts     map[string]*uint64
	peaks      map[string]uint64
	startTime  time.Time
	hostProbe  func() (cpuPercent, ramPercent float64)
	cpuWindow  time.Duration
	reportFreq time.Duration

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// NewMeter creates a meter with every pipeline counter registered at zero.
func NewMeter(ctx context.Context, options ...types.Option[*Meter]) *Meter {
	ctx, cancel := context.WithCancel(ctx)
	m := &Meter{
		ctx:    ctx,
		cancel: cancel,
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "METER",
		},
		counts:     make(map[string]*uint64),
		peaks:      make(map[string]uint64),
		startTime:  time.Now(),
		cpuWindow:  defaultSampleWindow,
		reportFreq: defaultReportInterval,
	}
	m.hostProbe = m.probeHost
	m.initializeMetrics()

	for _, opt := range options {
		opt(m)
	}
	return m
}

// Snapshot is a point-in-time copy of the meter, suitable for a health message.
type Snapshot struct {
	Uptime     time.Duration     `json:"-"`
	UptimeSecs float64           `json:"uptimeSeconds"`
	Counts     map[string]uint64 `json:"counts"`
	Peaks      map[string]uint64 `json:"peaks,omitempty"`
	CPUPercent float64           `json:"cpuPercent"`
	RAMPercent float64           `json:"ramPercent"`
}

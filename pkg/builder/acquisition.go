package builder

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/acquisition"
	"github.com/joeydtaylor/synapse/pkg/internal/scaler"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type AcquisitionLoop = acquisition.Loop

type DeviceStatusFunc = acquisition.StatusFunc

type Source = types.Source

type Publisher = types.Publisher

// NewAcquisitionLoop wires source through the frame decoder and scaler into publisher.
func NewAcquisitionLoop(source types.Source, publisher types.Publisher, options ...types.Option[*acquisition.Loop]) *acquisition.Loop {
	return acquisition.NewLoop(source, publisher, options...)
}

// AcquisitionWithLogger attaches one or more loggers to the loop.
func AcquisitionWithLogger(loggers ...types.Logger) types.Option[*acquisition.Loop] {
	return acquisition.WithLogger(loggers...)
}

// AcquisitionWithMeter records bytes, frames, gaps and device errors.
func AcquisitionWithMeter(m types.Meter) types.Option[*acquisition.Loop] {
	return acquisition.WithMeter(m)
}

// AcquisitionWithScaleFactor overrides the microvolts-per-count factor.
func AcquisitionWithScaleFactor(uvPerCount float64) types.Option[*acquisition.Loop] {
	return acquisition.WithScaler(scaler.New(uvPerCount))
}

// AcquisitionWithClock replaces time.Now for sample timestamps.
func AcquisitionWithClock(clock func() time.Time) types.Option[*acquisition.Loop] {
	return acquisition.WithClock(clock)
}

// AcquisitionWithStatus receives device connect and loss reports.
func AcquisitionWithStatus(fn acquisition.StatusFunc) types.Option[*acquisition.Loop] {
	return acquisition.WithStatus(fn)
}

// AcquisitionWithBackoff sets the reconnect delay bounds.
func AcquisitionWithBackoff(initial, max time.Duration) types.Option[*acquisition.Loop] {
	return acquisition.WithBackoff(initial, max)
}

// AcquisitionWithReadSize sets the read chunk size.
func AcquisitionWithReadSize(n int) types.Option[*acquisition.Loop] {
	return acquisition.WithReadSize(n)
}

// AcquisitionWithStopOnEOF ends Run cleanly when the source reaches EOF.
func AcquisitionWithStopOnEOF(stop bool) types.Option[*acquisition.Loop] {
	return acquisition.WithStopOnEOF(stop)
}

// AcquisitionWithComponentMetadata sets the name and ID for the loop.
func AcquisitionWithComponentMetadata(name, id string) types.Option[*acquisition.Loop] {
	return acquisition.WithComponentMetadata(name, id)
}

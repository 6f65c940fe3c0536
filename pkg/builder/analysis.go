package builder

import (
	"github.com/joeydtaylor/synapse/pkg/internal/analysis"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type AnalysisEngine = analysis.Engine

type AnalysisResult = types.AnalysisResult

// ErrEmptyBuffer is returned when a capture holds no samples.
var ErrEmptyBuffer = analysis.ErrEmptyBuffer

// ErrNonFinite is returned when samples or their statistics are NaN or infinite.
var ErrNonFinite = analysis.ErrNonFinite

// NewAnalysisEngine creates the capture buffer reducer.
func NewAnalysisEngine(options ...types.Option[*analysis.Engine]) *analysis.Engine {
	return analysis.NewEngine(options...)
}

// AnalysisWithEstimator replaces the zero-crossing band estimator.
func AnalysisWithEstimator(est analysis.BandEstimator) types.Option[*analysis.Engine] {
	return analysis.WithEstimator(est)
}

// AnalysisWithSampleRate sets the rate used when a buffer has no frozen window.
func AnalysisWithSampleRate(hz float64) types.Option[*analysis.Engine] {
	return analysis.WithSampleRate(hz)
}

// AnalysisWithMeter counts analyses run.
func AnalysisWithMeter(m types.Meter) types.Option[*analysis.Engine] {
	return analysis.WithMeter(m)
}

// AnalysisWithLogger attaches one or more loggers to the engine.
func AnalysisWithLogger(loggers ...types.Logger) types.Option[*analysis.Engine] {
	return analysis.WithLogger(loggers...)
}

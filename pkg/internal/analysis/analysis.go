// Package analysis reduces a frozen capture buffer to per-channel statistics,
// coarse frequency-band estimates, and a composite response score.
//
// Analyze is a pure function of its buffer: the same buffer always yields the
// same result.
package analysis

import (
	"errors"
	"math"
	"sync"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

var (
	// ErrEmptyBuffer is returned for a buffer with no samples. Callers report it as a capture failure.
	ErrEmptyBuffer = errors.New("no data captured")

	// ErrBufferOpen is returned when the buffer's window has not closed yet.
	ErrBufferOpen = errors.New("capture buffer is still open")

	// ErrNonFinite is returned when a sample or a derived statistic is NaN or infinite.
	ErrNonFinite = errors.New("non-finite signal values")
)

// Engine runs the reduction. It holds configuration only, never per-buffer state.
type Engine struct {
	componentMetadata types.ComponentMetadata
	estimator         BandEstimator
	sampleRate        float64
	meter             types.Meter

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// NewEngine creates an engine using the zero-crossing estimator at the nominal sample rate.
func NewEngine(options ...types.Option[*Engine]) *Engine {
	e := &Engine{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "ANALYSIS_ENGINE",
		},
		estimator:  ZeroCrossingEstimator{},
		sampleRate: types.NominalSampleRate,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Analyze reduces one frozen buffer.
func (e *Engine) Analyze(buf *types.CaptureBuffer) (types.AnalysisResult, error) {
	if buf == nil || buf.Len() == 0 {
		e.NotifyLoggers(types.WarnLevel, "Analysis skipped",
			"component", e.componentMetadata,
			"event", "Analyze",
			"result", "FAILURE",
			"error", ErrEmptyBuffer,
		)
		return types.AnalysisResult{}, ErrEmptyBuffer
	}
	if !buf.Frozen() {
		return types.AnalysisResult{}, ErrBufferOpen
	}

	samples := buf.Samples()
	window := e.windowSeconds(buf)
	for i := range samples {
		if !allFinite(samples[i].Channels[:]...) {
			return types.AnalysisResult{}, e.rejectNonFinite(buf.Index)
		}
	}

	perChannel := make([]types.ChannelStats, types.ChannelCount)
	column := make([]float64, len(samples))
	for c := 0; c < types.ChannelCount; c++ {
		for i := range samples {
			column[i] = samples[i].Channels[c]
		}
		perChannel[c] = e.channelStats(c, column, window)
	}

	result := types.AnalysisResult{
		Index:         buf.Index,
		SampleCount:   len(samples),
		WindowSeconds: window,
		PerChannel:    perChannel,
		Composite:     Composite(perChannel),
	}
	// Extreme but finite inputs can still overflow the variance.
	if !resultFinite(result) {
		return types.AnalysisResult{}, e.rejectNonFinite(buf.Index)
	}

	if e.meter != nil {
		e.meter.IncrementCount(types.MetricAnalysesRun)
	}
	e.NotifyLoggers(types.DebugLevel, "Analysis complete",
		"component", e.componentMetadata,
		"event", "Analyze",
		"result", "SUCCESS",
		"index", buf.Index,
		"samples", len(samples),
		"score", result.Composite.Score,
	)
	return result, nil
}

func (e *Engine) rejectNonFinite(index int) error {
	e.NotifyLoggers(types.WarnLevel, "Analysis rejected",
		"component", e.componentMetadata,
		"event", "Analyze",
		"result", "FAILURE",
		"index", index,
		"error", ErrNonFinite,
	)
	return ErrNonFinite
}

func resultFinite(res types.AnalysisResult) bool {
	for _, st := range res.PerChannel {
		b := st.Bands
		if !allFinite(st.Mean, st.AvgAmplitude, st.StdDev, st.RMS, st.Min, st.Max,
			st.DominantFrequency, b.Delta, b.Theta, b.Alpha, b.Beta, b.Gamma) {
			return false
		}
	}
	c := res.Composite
	return allFinite(c.Score, c.Components.FrontalAsymmetry, c.Components.MeanAmplitude,
		c.Components.AsymmetryBonus, c.Components.AmplitudeBonus)
}

func allFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (e *Engine) windowSeconds(buf *types.CaptureBuffer) float64 {
	if w := buf.Window(); w > 0 {
		return w.Seconds()
	}
	if e.sampleRate <= 0 {
		return 0
	}
	return float64(buf.Len()) / e.sampleRate
}

func (e *Engine) channelStats(c int, values []float64, window float64) types.ChannelStats {
	st := describe(values)
	est := e.estimator.Estimate(values, window, st.avgAmplitude)
	return types.ChannelStats{
		Channel:           c + 1,
		Label:             types.ChannelLabels[c],
		Mean:              st.mean,
		AvgAmplitude:      st.avgAmplitude,
		StdDev:            st.stdDev,
		RMS:               st.rms,
		Min:               st.min,
		Max:               st.max,
		ZeroCrossings:     est.ZeroCrossings,
		DominantFrequency: est.DominantFrequency,
		Bands:             est.Bands,
		Quality:           Quality(st.maxAbs, st.avgAmplitude, st.stdDev),
	}
}

package analysis

import "github.com/joeydtaylor/synapse/pkg/internal/types"

// WithEstimator replaces the band estimator.
func WithEstimator(est BandEstimator) types.Option[*Engine] {
	return func(e *Engine) {
		if est != nil {
			e.estimator = est
		}
	}
}

// WithSampleRate sets the rate used to derive a window length for buffers without one.
func WithSampleRate(hz float64) types.Option[*Engine] {
	return func(e *Engine) {
		if hz > 0 {
			e.sampleRate = hz
		}
	}
}

// WithMeter counts analyses on m.
func WithMeter(m types.Meter) types.Option[*Engine] {
	return func(e *Engine) { e.meter = m }
}

// WithLogger attaches loggers.
func WithLogger(loggers ...types.Logger) types.Option[*Engine] {
	return func(e *Engine) {
		e.loggersLock.Lock()
		defer e.loggersLock.Unlock()
		e.loggers = append(e.loggers, loggers...)
	}
}

// Package scaler converts raw amplifier counts into calibrated microvolts.
package scaler

import (
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/framing"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// ADS1299 front end: 4.5 V reference, programmable gain 24, 24-bit signed output.
const (
	ReferenceVolts  = 4.5
	Gain            = 24.0
	FullScaleCounts = 1<<23 - 1

	// MicrovoltsPerCount is the canonical conversion factor (~0.02235 uV per count).
	MicrovoltsPerCount = ReferenceVolts / Gain / FullScaleCounts * 1e6

	// LegacyScale is the factor used by early prototypes, which reported millivolts.
	LegacyScale = 0.02235 / 1000

	// AccelGPerCount converts raw accelerometer counts to g.
	AccelGPerCount = 0.002 / 16
)

// Scaler applies a fixed linear factor. It performs no plausibility checks.
type Scaler struct {
	factor float64
}

// New returns a scaler with the given factor. A non-positive factor selects the canonical one.
func New(factor float64) Scaler {
	if factor <= 0 {
		factor = MicrovoltsPerCount
	}
	return Scaler{factor: factor}
}

// Default returns a scaler with the canonical factor.
func Default() Scaler { return New(MicrovoltsPerCount) }

// Factor returns the conversion factor in use.
func (s Scaler) Factor() float64 { return s.factor }

// Scale converts eight raw counts into calibrated values.
func (s Scaler) Scale(raw [types.ChannelCount]int32) [types.ChannelCount]float64 {
	var out [types.ChannelCount]float64
	for i, v := range raw {
		out[i] = float64(v) * s.factor
	}
	return out
}

// Sample converts a decoded frame into a time-stamped sample.
func (s Scaler) Sample(f framing.RawFrame, ts time.Time) types.Sample {
	return types.Sample{
		Sequence:  f.Sequence(),
		Timestamp: ts,
		Channels:  s.Scale(f.Channels()),
		Accel:     ScaleAccel(f.Accel()),
	}
}

// ScaleAccel converts a raw accelerometer triplet to g.
func ScaleAccel(raw [3]int16) [3]float64 {
	var out [3]float64
	for i, v := range raw {
		out[i] = float64(v) * AccelGPerCount
	}
	return out
}

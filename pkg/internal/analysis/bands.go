package analysis

import "github.com/joeydtaylor/synapse/pkg/internal/types"

// Band is a named half-open frequency range [Low, High) in Hz.
type Band struct {
	Name      string
	Low, High float64
	// OffBand is the amplitude weight applied when the dominant frequency lies elsewhere.
	OffBand float64
}

// InBandWeight is applied to the band containing the dominant frequency.
const InBandWeight = 0.8

// Bands lists the canonical EEG bands in ascending order.
var Bands = [5]Band{
	{Name: "delta", Low: 0.5, High: 4, OffBand: 0.1},
	{Name: "theta", Low: 4, High: 8, OffBand: 0.2},
	{Name: "alpha", Low: 8, High: 12, OffBand: 0.2},
	{Name: "beta", Low: 12, High: 30, OffBand: 0.2},
	{Name: "gamma", Low: 30, High: 45, OffBand: 0.1},
}

// Contains reports whether f lies in the band.
func (b Band) Contains(f float64) bool { return f >= b.Low && f < b.High }

// BandEstimate is what a BandEstimator derives from one channel.
type BandEstimate struct {
	DominantFrequency float64
	ZeroCrossings     int
	Bands             types.BandPowers
}

// BandEstimator turns one channel's samples into frequency-band estimates.
// Implementations must be deterministic.
type BandEstimator interface {
	Estimate(values []float64, windowSeconds, avgAmplitude float64) BandEstimate
}

// ZeroCrossingEstimator approximates the dominant frequency as crossings/2/window and
// assigns the channel's average amplitude to bands categorically.
type ZeroCrossingEstimator struct{}

// Estimate implements BandEstimator.
func (ZeroCrossingEstimator) Estimate(values []float64, windowSeconds, avgAmplitude float64) BandEstimate {
	crossings := ZeroCrossings(values)
	var dominant float64
	if windowSeconds > 0 {
		dominant = float64(crossings) / 2 / windowSeconds
	}
	return BandEstimate{
		DominantFrequency: dominant,
		ZeroCrossings:     crossings,
		Bands:             CategoricalBands(dominant, avgAmplitude),
	}
}

// CategoricalBands weights avgAmplitude by InBandWeight for the band holding dominant
// and by each band's OffBand weight otherwise.
func CategoricalBands(dominant, avgAmplitude float64) types.BandPowers {
	var w [len(Bands)]float64
	for i, b := range Bands {
		if b.Contains(dominant) {
			w[i] = avgAmplitude * InBandWeight
		} else {
			w[i] = avgAmplitude * b.OffBand
		}
	}
	return types.BandPowers{Delta: w[0], Theta: w[1], Alpha: w[2], Beta: w[3], Gamma: w[4]}
}

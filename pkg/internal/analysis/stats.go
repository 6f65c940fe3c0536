package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type summary struct {
	mean         float64
	avgAmplitude float64
	stdDev       float64
	rms          float64
	min          float64
	max          float64
	maxAbs       float64
}

// describe computes the per-channel reductions. values must be non-empty.
func describe(values []float64) summary {
	abs := make([]float64, len(values))
	for i, v := range values {
		abs[i] = math.Abs(v)
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return summary{
		mean:         mean,
		avgAmplitude: stat.Mean(abs, nil),
		stdDev:       std,
		rms:          math.Sqrt(floats.Dot(values, values) / float64(len(values))),
		min:          floats.Min(values),
		max:          floats.Max(values),
		maxAbs:       floats.Max(abs),
	}
}

// ZeroCrossings counts sign changes, treating zero as non-negative.
func ZeroCrossings(values []float64) int {
	n := 0
	for i := 1; i < len(values); i++ {
		if (values[i-1] < 0) != (values[i] < 0) {
			n++
		}
	}
	return n
}

package analysis

import (
	"math"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// Composite score tuning.
const (
	BaseScore          = 50.0
	MaxAsymmetryBonus  = 30.0
	AmplitudeTierOne   = 20.0
	AmplitudeTierTwo   = 40.0
	AmplitudeTierThree = 60.0
	TierOneBonus       = 10.0
	TierTwoBonus       = 15.0
	TierThreeBonus     = 15.0
)

// FrontalAsymmetry contrasts channel 2 against channel 1: (a2-a1)/(a2+a1), or 0 when both are silent.
func FrontalAsymmetry(ch1, ch2 float64) float64 {
	den := ch2 + ch1
	if den == 0 {
		return 0
	}
	return (ch2 - ch1) / den
}

// Composite scores a set of channel statistics. Channels 1 and 2 feed the asymmetry term.
func Composite(perChannel []types.ChannelStats) types.CompositeScore {
	var fa float64
	if len(perChannel) >= 2 {
		fa = FrontalAsymmetry(perChannel[0].AvgAmplitude, perChannel[1].AvgAmplitude)
	}

	var meanAmp float64
	if len(perChannel) > 0 {
		for _, ch := range perChannel {
			meanAmp += ch.AvgAmplitude
		}
		meanAmp /= float64(len(perChannel))
	}

	asym := MaxAsymmetryBonus * math.Max(0, fa)
	amp := AmplitudeBonus(meanAmp)
	score := math.Min(100, math.Max(0, BaseScore+asym+amp))
	cat := Categorize(score)

	return types.CompositeScore{
		Score:    score,
		Category: cat,
		Label:    cat.String(),
		Components: types.ScoreComponents{
			FrontalAsymmetry: fa,
			MeanAmplitude:    meanAmp,
			AsymmetryBonus:   asym,
			AmplitudeBonus:   amp,
		},
	}
}

// AmplitudeBonus returns the cumulative tiered bonus for a cross-channel mean amplitude.
func AmplitudeBonus(meanAmp float64) float64 {
	var bonus float64
	if meanAmp > AmplitudeTierOne {
		bonus += TierOneBonus
	}
	if meanAmp > AmplitudeTierTwo {
		bonus += TierTwoBonus
	}
	if meanAmp > AmplitudeTierThree {
		bonus += TierThreeBonus
	}
	return bonus
}

// Categorize maps a score onto the five ordered categories with closed lower bounds.
func Categorize(score float64) types.Category {
	switch {
	case score >= 80:
		return types.CategoryLoveAtFirstSight
	case score >= 60:
		return types.CategoryStrongAttraction
	case score >= 40:
		return types.CategoryInterested
	case score >= 20:
		return types.CategoryNeutral
	default:
		return types.CategoryNotInterested
	}
}

// SelectWinner returns the index of the strictly greatest score, keeping the first
// occurrence on ties, or -1 for no scores.
func SelectWinner(scores []float64) int {
	winner := -1
	for i, s := range scores {
		if winner < 0 || s > scores[winner] {
			winner = i
		}
	}
	return winner
}

// Quality labels electrode contact from the channel's peak, mean absolute value, and spread.
func Quality(maxAbs, meanAbs, stdDev float64) types.SignalQuality {
	switch {
	case maxAbs < 1:
		return types.QualityNotConnected
	case maxAbs > 200:
		return types.QualityArtifact
	case meanAbs > 10 && meanAbs < 100 && stdDev > 5:
		return types.QualityGood
	case meanAbs < 10:
		return types.QualityWeak
	default:
		return types.QualityChecking
	}
}

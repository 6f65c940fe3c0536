package types

// SignalQuality is a coarse per-channel electrode contact label.
type SignalQuality string

const (
	QualityNotConnected SignalQuality = "NOT_CONNECTED"
	QualityArtifact     SignalQuality = "ARTIFACT"
	QualityGood         SignalQuality = "GOOD_SIGNAL"
	QualityWeak         SignalQuality = "WEAK_SIGNAL"
	QualityChecking     SignalQuality = "CHECKING"
)

// Category is the ordered response class derived from a composite score. Higher is stronger.
type Category int

const (
	CategoryNotInterested Category = iota + 1
	CategoryNeutral
	CategoryInterested
	CategoryStrongAttraction
	CategoryLoveAtFirstSight
)

func (c Category) String() string {
	switch c {
	case CategoryNotInterested:
		return "Not Interested"
	case CategoryNeutral:
		return "Neutral"
	case CategoryInterested:
		return "Interested"
	case CategoryStrongAttraction:
		return "Strong Attraction"
	case CategoryLoveAtFirstSight:
		return "Love at First Sight"
	default:
		return "Unknown"
	}
}

// BandPowers holds the coarse per-band estimates for one channel.
type BandPowers struct {
	Delta float64 `json:"delta"`
	Theta float64 `json:"theta"`
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// ChannelStats are the per-channel reductions of a capture buffer.
type ChannelStats struct {
	Channel           int           `json:"channel"`
	Label             string        `json:"label"`
	Mean              float64       `json:"mean"`
	AvgAmplitude      float64       `json:"avgAmplitude"`
	StdDev            float64       `json:"stdDev"`
	RMS               float64       `json:"rms"`
	Min               float64       `json:"min"`
	Max               float64       `json:"max"`
	ZeroCrossings     int           `json:"zeroCrossings"`
	DominantFrequency float64       `json:"dominantFrequency"`
	Bands             BandPowers    `json:"bands"`
	Quality           SignalQuality `json:"quality"`
}

// ScoreComponents is the breakdown of how a composite score was reached.
type ScoreComponents struct {
	FrontalAsymmetry float64 `json:"frontalAsymmetry"`
	MeanAmplitude    float64 `json:"meanAmplitude"`
	AsymmetryBonus   float64 `json:"asymmetryBonus"`
	AmplitudeBonus   float64 `json:"amplitudeBonus"`
}

// CompositeScore is the clamped 0..100 score and its category.
type CompositeScore struct {
	Score      float64         `json:"score"`
	Category   Category        `json:"rank"`
	Label      string          `json:"category"`
	Components ScoreComponents `json:"components"`
}

// AnalysisResult is the full reduction of one capture buffer.
type AnalysisResult struct {
	Index         int            `json:"index"`
	SampleCount   int            `json:"sampleCount"`
	WindowSeconds float64        `json:"windowSeconds"`
	PerChannel    []ChannelStats `json:"perChannel"`
	Composite     CompositeScore `json:"composite"`
}

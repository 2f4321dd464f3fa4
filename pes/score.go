package pes

import "math"

// CompositePrecision is the number of decimal places applied to the
// composite score and each displayed contribution.
const CompositePrecision = 4

// QualityScore is the weighted composite quality value in [0, 1] plus the
// per-dimension contributions (weight × feature value) that produced it.
// Composite and Breakdown are rounded to CompositePrecision for display;
// Exact keeps the full-precision sum so iterative callers do not compound
// rounding error.
type QualityScore struct {
	Composite float64               `json:"Q"`
	Breakdown map[Dimension]float64 `json:"breakdown"`
	Exact     float64               `json:"-"`
}

// QualityLevel is a coarse qualitative bucket for a composite score.
type QualityLevel string

const (
	LevelExcellent QualityLevel = "Excellent"
	LevelGood      QualityLevel = "Good"
	LevelFair      QualityLevel = "Fair"
	LevelPoor      QualityLevel = "Poor"
)

// Level maps the composite score to its qualitative bucket.
func (q QualityScore) Level() QualityLevel {
	switch {
	case q.Composite >= 0.90:
		return LevelExcellent
	case q.Composite >= 0.80:
		return LevelGood
	case q.Composite >= 0.70:
		return LevelFair
	default:
		return LevelPoor
	}
}

// Score computes the weighted composite quality score for a feature vector.
// It returns a ValidationError when any feature value is outside [0, 1] or the
// weight table does not sum to 1.0. Summation runs at full float64 precision;
// rounding is applied only to the returned composite and contributions.
func Score(features FeatureVector, weights WeightTable) (QualityScore, error) {
	if err := Validate(&features); err != nil {
		return QualityScore{}, &ValidationError{Message: "feature value out of [0,1]", Err: err}
	}
	if err := weights.Validate(); err != nil {
		return QualityScore{}, err
	}

	breakdown := make(map[Dimension]float64, 6)
	var sum float64
	for _, d := range Dimensions() {
		c := weights.Get(d) * features.Get(d)
		sum += c
		breakdown[d] = round(c, CompositePrecision)
	}

	return QualityScore{
		Composite: round(sum, CompositePrecision),
		Breakdown: breakdown,
		Exact:     sum,
	}, nil
}

// ScoreDefault scores a feature vector against the canonical weight table.
func ScoreDefault(features FeatureVector) (QualityScore, error) {
	return Score(features, DefaultWeights())
}

// Analyze extracts features from a text and scores them in one step.
func Analyze(text string, weights WeightTable) (FeatureVector, QualityScore, error) {
	fv := Extract(text)
	qs, err := Score(fv, weights)
	return fv, qs, err
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

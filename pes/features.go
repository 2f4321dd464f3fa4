// Package pes implements the six-dimension quality model for instructional
// text: Persona, Tone, Format, Specificity, Constraints and Context. It
// provides heuristic feature extraction and weighted composite scoring.
package pes

import (
	"fmt"
	"math"
)

// Dimension identifies one axis of the quality model. The canonical
// single-letter names match the wire format used by the dashboard.
type Dimension string

const (
	Persona     Dimension = "P"
	Tone        Dimension = "T"
	Format      Dimension = "F"
	Specificity Dimension = "S"
	Constraints Dimension = "C"
	Context     Dimension = "R"
)

// Dimensions returns all dimensions in canonical display order.
func Dimensions() []Dimension {
	return []Dimension{Persona, Tone, Format, Specificity, Constraints, Context}
}

// Name returns the long-form name of the dimension.
func (d Dimension) Name() string {
	switch d {
	case Persona:
		return "Persona"
	case Tone:
		return "Tone"
	case Format:
		return "Format"
	case Specificity:
		return "Specificity"
	case Constraints:
		return "Constraints"
	case Context:
		return "Context"
	default:
		return string(d)
	}
}

// FeatureVector holds the six dimension scores for a text. Each value is in
// [0, 1]. Vectors are value types and treated as immutable once produced.
type FeatureVector struct {
	Persona     float64 `json:"P" validate:"min=0,max=1"`
	Tone        float64 `json:"T" validate:"min=0,max=1"`
	Format      float64 `json:"F" validate:"min=0,max=1"`
	Specificity float64 `json:"S" validate:"min=0,max=1"`
	Constraints float64 `json:"C" validate:"min=0,max=1"`
	Context     float64 `json:"R" validate:"min=0,max=1"`
}

// Get returns the value for a single dimension.
func (fv FeatureVector) Get(d Dimension) float64 {
	switch d {
	case Persona:
		return fv.Persona
	case Tone:
		return fv.Tone
	case Format:
		return fv.Format
	case Specificity:
		return fv.Specificity
	case Constraints:
		return fv.Constraints
	case Context:
		return fv.Context
	default:
		return 0
	}
}

// Map returns the vector as a dimension-keyed map.
func (fv FeatureVector) Map() map[Dimension]float64 {
	return map[Dimension]float64{
		Persona:     fv.Persona,
		Tone:        fv.Tone,
		Format:      fv.Format,
		Specificity: fv.Specificity,
		Constraints: fv.Constraints,
		Context:     fv.Context,
	}
}

// WeightSumTolerance is the permitted deviation of a weight table's sum
// from 1.0.
const WeightSumTolerance = 1e-6

// WeightTable maps each dimension to its share of the composite score.
// Weights must be non-negative and sum to exactly 1.0 within
// WeightSumTolerance. The table is configuration, not derived data.
type WeightTable struct {
	Persona     float64 `json:"wP" validate:"min=0"`
	Tone        float64 `json:"wT" validate:"min=0"`
	Format      float64 `json:"wF" validate:"min=0"`
	Specificity float64 `json:"wS" validate:"min=0"`
	Constraints float64 `json:"wC" validate:"min=0"`
	Context     float64 `json:"wR" validate:"min=0"`
}

// DefaultWeights returns the canonical weight distribution:
// Q = 0.18·P + 0.22·T + 0.20·F + 0.18·S + 0.12·C + 0.10·R.
func DefaultWeights() WeightTable {
	return WeightTable{
		Persona:     0.18,
		Tone:        0.22,
		Format:      0.20,
		Specificity: 0.18,
		Constraints: 0.12,
		Context:     0.10,
	}
}

// Get returns the weight for a single dimension.
func (w WeightTable) Get(d Dimension) float64 {
	switch d {
	case Persona:
		return w.Persona
	case Tone:
		return w.Tone
	case Format:
		return w.Format
	case Specificity:
		return w.Specificity
	case Constraints:
		return w.Constraints
	case Context:
		return w.Context
	default:
		return 0
	}
}

// Sum returns the total of all weights.
func (w WeightTable) Sum() float64 {
	return w.Persona + w.Tone + w.Format + w.Specificity + w.Constraints + w.Context
}

// Validate checks that all weights are non-negative and the table sums to 1.0.
func (w WeightTable) Validate() error {
	if err := Validate(&w); err != nil {
		return &ValidationError{Message: "negative weight in weight table", Err: err}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return &ValidationError{Message: fmt.Sprintf("weight table sums to %.4f, must sum to 1.0", sum)}
	}
	return nil
}

// ValidationError reports an invalid feature vector or weight table. It is
// surfaced synchronously to the caller and never retried.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pes: %s: %v", e.Message, e.Err)
	}
	return "pes: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

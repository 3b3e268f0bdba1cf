// Package predictor defines the performance model contract and its implementations.
package predictor

import (
	"math"

	"github.com/pbaille/planner/internal/domain"
)

// Score and confidence bounds of the prediction contract.
const (
	MinScore      = 0
	MaxScore      = 100
	MinConfidence = 85
	MaxConfidence = 98
)

// Model maps workload features to a performance score.
// Implementations must be safe for concurrent use and are never mutated after load.
type Model interface {
	Predict(f domain.WorkloadFeatures) (domain.PredictionResult, error)
}

// Availability is either a loaded model or the reason no model is loaded
type Availability struct {
	model  Model
	reason string
}

// Available wraps a loaded model
func Available(m Model) Availability {
	if m == nil {
		return Unavailable("nil model")
	}
	return Availability{model: m}
}

// Unavailable reports that no model is loaded
func Unavailable(reason string) Availability {
	if reason == "" {
		reason = "no model loaded"
	}
	return Availability{reason: reason}
}

// IsAvailable reports whether a model is loaded
func (a Availability) IsAvailable() bool {
	return a.model != nil
}

// Reason explains why no model is loaded; empty when available
func (a Availability) Reason() string {
	if a.model != nil {
		return ""
	}
	if a.reason == "" {
		return "no model loaded"
	}
	return a.reason
}

// Model returns the loaded model and whether there is one
func (a Availability) Model() (Model, bool) {
	return a.model, a.model != nil
}

// Static always returns the same result
type Static domain.PredictionResult

// Predict implements Model
func (s Static) Predict(domain.WorkloadFeatures) (domain.PredictionResult, error) {
	return domain.PredictionResult(s), nil
}

// Normalize clamps a raw result into the contract and rounds it:
// score to 2 decimals, confidence to 1 decimal.
func Normalize(r domain.PredictionResult) domain.PredictionResult {
	return domain.PredictionResult{
		Score:      round(clamp(r.Score, MinScore, MaxScore), 2),
		Confidence: round(clamp(r.Confidence, MinConfidence, MaxConfidence), 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

package predictor

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"

	"github.com/pbaille/planner/internal/domain"
	"gopkg.in/yaml.v3"
)

// Weights are the per-feature coefficients of a linear model
type Weights struct {
	AvgHours        float64 `yaml:"avg_hours"`
	TasksCompleted  float64 `yaml:"tasks_completed"`
	MissedDeadlines float64 `yaml:"missed_deadlines"`
	Consistency     float64 `yaml:"consistency"`
	SleepHours      float64 `yaml:"sleep_hours"`
}

// ModelFile is the on-disk form of a linear performance model.
// The raw weighted sum is rescaled from [RawMin, RawMax] onto [0, 100].
type ModelFile struct {
	Version   string  `yaml:"version"`
	Intercept float64 `yaml:"intercept"`
	Weights   Weights `yaml:"weights"`
	RawMin    float64 `yaml:"raw_min"`
	RawMax    float64 `yaml:"raw_max"`
}

// LinearModel predicts a score from a weighted sum of the features
type LinearModel struct {
	file    ModelFile
	uniform func() float64
}

// Option configures a LinearModel
type Option func(*LinearModel)

// WithUniformSource replaces the [0,1) source used to draw confidence values
func WithUniformSource(src func() float64) Option {
	return func(m *LinearModel) {
		m.uniform = src
	}
}

// NewLinearModel validates the model file and builds a model from it
func NewLinearModel(f ModelFile, opts ...Option) (*LinearModel, error) {
	if f.RawMax <= f.RawMin {
		return nil, fmt.Errorf("invalid model range: raw_max %v must exceed raw_min %v", f.RawMax, f.RawMin)
	}

	m := &LinearModel{file: f, uniform: rand.Float64}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load reads a model file. A missing file is not an error: it yields Unavailable.
func Load(path string, opts ...Option) (Availability, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Unavailable(fmt.Sprintf("model file %s not found", path)), nil
	}
	if err != nil {
		return Availability{}, fmt.Errorf("read model: %w", err)
	}

	var f ModelFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Availability{}, fmt.Errorf("parse model: %w", err)
	}

	m, err := NewLinearModel(f, opts...)
	if err != nil {
		return Availability{}, err
	}
	return Available(m), nil
}

// Version returns the model version string from the file
func (m *LinearModel) Version() string {
	return m.file.Version
}

// Predict implements Model
func (m *LinearModel) Predict(f domain.WorkloadFeatures) (domain.PredictionResult, error) {
	w := m.file.Weights
	raw := m.file.Intercept +
		w.AvgHours*f.AvgDailyHours +
		w.TasksCompleted*float64(f.CompletedCount) +
		w.MissedDeadlines*float64(f.MissedDeadlines) +
		w.Consistency*f.Consistency +
		w.SleepHours*f.SleepHours

	score := (raw - m.file.RawMin) / (m.file.RawMax - m.file.RawMin) * MaxScore
	confidence := MinConfidence + m.uniform()*(MaxConfidence-MinConfidence)

	return Normalize(domain.PredictionResult{Score: score, Confidence: confidence}), nil
}

package analytics

import (
	"time"

	"github.com/pbaille/planner/internal/domain"
	"github.com/pbaille/planner/internal/predictor"
)

// Input gathers everything one analytics run needs
type Input struct {
	Tasks       []domain.TaskRecord
	SleepHours  float64
	StressLevel float64
	Predictor   predictor.Availability
	Now         time.Time
}

// Run derives features, predicts performance, classifies burnout and builds
// suggestions. A missing or failing model degrades to a zero prediction and
// never stops the rest of the run.
func Run(in Input) domain.Analysis {
	features := DeriveFeatures(in.Tasks, in.SleepHours, in.Now)
	prediction, status := predict(in.Predictor, features)

	burnout := DetectBurnout(features.AvgDailyHours, in.SleepHours, features.Consistency, in.StressLevel)
	missedRate := MissedRate(features)

	return domain.Analysis{
		Features:        features,
		Prediction:      prediction,
		PredictorStatus: status,
		Burnout:         burnout,
		MissedRate:      missedRate,
		Suggestions:     Suggestions(features.Consistency, features.AvgDailyHours, missedRate, burnout.RiskLevel),
	}
}

func predict(a predictor.Availability, f domain.WorkloadFeatures) (domain.PredictionResult, domain.PredictorStatus) {
	m, ok := a.Model()
	if !ok {
		return domain.PredictionResult{}, domain.PredictorUnavailable
	}

	res, err := m.Predict(f)
	if err != nil {
		return domain.PredictionResult{}, domain.PredictorFailed
	}
	return res, domain.PredictorOK
}

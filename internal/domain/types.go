package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies what a task was spent on
type Category string

const (
	CategoryStudy Category = "Study"
	CategoryWork  Category = "Work"
)

// ParseCategory accepts a category name in any letter case
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "study":
		return CategoryStudy, nil
	case "work":
		return CategoryWork, nil
	default:
		return "", fmt.Errorf("unknown category %q (want Study or Work)", s)
	}
}

// TaskRecord represents a tracked piece of study or work
type TaskRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   Category  `json:"category"`
	HoursSpent float64   `json:"hours_spent"`
	Deadline   time.Time `json:"deadline"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkloadFeatures is the feature vector derived from a task list
type WorkloadFeatures struct {
	AvgDailyHours   float64 `json:"avg_daily_hours"`
	CompletedCount  int     `json:"completed_count"`
	TotalCount      int     `json:"total_count"`
	MissedDeadlines int     `json:"missed_deadlines"`
	Consistency     float64 `json:"consistency"`
	SleepHours      float64 `json:"sleep_hours"`
}

// RiskLevel is the burnout risk band
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// BurnoutAssessment holds the classified risk and its message
type BurnoutAssessment struct {
	RiskLevel RiskLevel `json:"risk_level"`
	Score     int       `json:"score"`
	Message   string    `json:"message"`
}

// PredictionResult is a predicted performance score with its confidence
type PredictionResult struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// PredictorStatus records how the prediction step went
type PredictorStatus string

const (
	PredictorOK          PredictorStatus = "ok"
	PredictorUnavailable PredictorStatus = "unavailable"
	PredictorFailed      PredictorStatus = "failed"
)

// Analysis is the consolidated output of one analytics run
type Analysis struct {
	Features        WorkloadFeatures  `json:"features"`
	Prediction      PredictionResult  `json:"prediction"`
	PredictorStatus PredictorStatus   `json:"predictor_status"`
	Burnout         BurnoutAssessment `json:"burnout"`
	MissedRate      float64           `json:"missed_rate"`
	Suggestions     []string          `json:"suggestions"`
}

// Overview summarizes task progress for the analytics view
type Overview struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	AvgHours       float64 `json:"avg_hours"`
	DeadlinesMet   int     `json:"deadlines_met"`
}

// PerformanceSnapshot is a persisted record of a dashboard run
type PerformanceSnapshot struct {
	ID             string    `json:"id"`
	PredictedScore float64   `json:"predicted_score"`
	BurnoutLevel   RiskLevel `json:"burnout_level"`
	GeneratedAt    time.Time `json:"generated_at"`
}

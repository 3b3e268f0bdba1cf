// Package metrics provides Prometheus metrics for the planner.
package metrics

import (
	"net/http"

	"github.com/pbaille/planner/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// analyticsRunsTotal counts analytics runs by resulting burnout risk.
	// Labels:
	//   - risk: Low, Medium or High
	analyticsRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_analytics_runs_total",
			Help: "Total number of analytics runs by burnout risk level",
		},
		[]string{"risk"},
	)

	// predictionsTotal counts prediction attempts by outcome.
	// Labels:
	//   - status: ok, unavailable or failed
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_predictions_total",
			Help: "Total number of performance predictions by predictor status",
		},
		[]string{"status"},
	)

	tasksCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_tasks_created_total",
			Help: "Total number of tasks created by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(analyticsRunsTotal)
	prometheus.MustRegister(predictionsTotal)
	prometheus.MustRegister(tasksCreatedTotal)
}

// RecordAnalysis records the outcome of one analytics run
func RecordAnalysis(a domain.Analysis) {
	analyticsRunsTotal.WithLabelValues(string(a.Burnout.RiskLevel)).Inc()
	predictionsTotal.WithLabelValues(string(a.PredictorStatus)).Inc()
}

// RecordTaskCreated records a newly tracked task
func RecordTaskCreated(c domain.Category) {
	tasksCreatedTotal.WithLabelValues(string(c)).Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

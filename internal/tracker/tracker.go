// Package tracker ties the task store to the analytics pipeline. It is the
// layer the CLI and the API server share.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pbaille/planner/internal/analytics"
	"github.com/pbaille/planner/internal/domain"
	"github.com/pbaille/planner/internal/metrics"
	"github.com/pbaille/planner/internal/predictor"
	"github.com/pbaille/planner/internal/report"
	"github.com/pbaille/planner/internal/store"
	"go.uber.org/zap"
)

// ErrInvalidTask is returned when a new task fails validation
var ErrInvalidTask = errors.New("invalid task")

// Tracker runs analytics over the stored tasks
type Tracker struct {
	store  *store.Store
	model  predictor.Availability
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Tracker. A nil logger discards output.
func New(s *store.Store, model predictor.Availability, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: s, model: model, logger: logger, now: time.Now}
}

// SetClock replaces the time source deadlines are evaluated against
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// AddTask validates and stores a new task
func (t *Tracker) AddTask(nt store.NewTask) (*domain.TaskRecord, error) {
	nt.Title = strings.TrimSpace(nt.Title)
	if nt.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if nt.HoursSpent < 0 {
		return nil, fmt.Errorf("%w: hours must not be negative", ErrInvalidTask)
	}
	category, err := domain.ParseCategory(string(nt.Category))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	nt.Category = category
	if nt.Deadline.IsZero() {
		return nil, fmt.Errorf("%w: deadline is required", ErrInvalidTask)
	}

	task, err := t.store.AddTask(nt)
	if err != nil {
		return nil, err
	}

	metrics.RecordTaskCreated(task.Category)
	t.logger.Debug("task added", zap.String("id", task.ID), zap.String("category", string(task.Category)))
	return task, nil
}

// Dashboard runs the analytics pipeline over every stored task. When save is
// set the predicted score and risk level are kept as a performance snapshot.
func (t *Tracker) Dashboard(sleepHours, stressLevel float64, save bool) (domain.Analysis, error) {
	tasks, err := t.store.ListTasks()
	if err != nil {
		return domain.Analysis{}, err
	}

	a := t.analyze(tasks, sleepHours, stressLevel)

	if save {
		if _, err := t.store.SaveSnapshot(a.Prediction.Score, a.Burnout.RiskLevel); err != nil {
			return a, err
		}
	}
	return a, nil
}

// Overview summarizes task progress
func (t *Tracker) Overview() (domain.Overview, error) {
	tasks, err := t.store.ListTasks()
	if err != nil {
		return domain.Overview{}, err
	}
	return analytics.Summarize(tasks, t.now()), nil
}

// WriteReport renders the performance report for the stored tasks
func (t *Tracker) WriteReport(w io.Writer, sleepHours, stressLevel float64) error {
	tasks, err := t.store.ListTasks()
	if err != nil {
		return err
	}

	return report.Write(w, report.Report{
		GeneratedAt: t.now(),
		Tasks:       tasks,
		Analysis:    t.analyze(tasks, sleepHours, stressLevel),
	})
}

func (t *Tracker) analyze(tasks []domain.TaskRecord, sleepHours, stressLevel float64) domain.Analysis {
	a := analytics.Run(analytics.Input{
		Tasks:       tasks,
		SleepHours:  sleepHours,
		StressLevel: stressLevel,
		Predictor:   t.model,
		Now:         t.now(),
	})

	metrics.RecordAnalysis(a)
	if a.PredictorStatus != domain.PredictorOK {
		t.logger.Warn("performance prediction degraded",
			zap.String("status", string(a.PredictorStatus)),
			zap.String("reason", t.model.Reason()),
		)
	}
	t.logger.Info("analytics computed",
		zap.Int("tasks", a.Features.TotalCount),
		zap.String("risk", string(a.Burnout.RiskLevel)),
		zap.Float64("score", a.Prediction.Score),
	)
	return a
}

// Package analytics derives workload features from tasks and turns them into
// a burnout assessment, coaching suggestions and a performance prediction.
//
// Every function here is pure: inputs are passed explicitly, the evaluation
// time included, and results are freshly allocated.
package analytics

import (
	"time"

	"github.com/pbaille/planner/internal/domain"
)

// WindowDays is the fixed number of days total hours are averaged over.
const WindowDays = 7

// DeriveFeatures computes the workload feature vector for a task list.
// No date filtering happens here: every task passed in is counted.
func DeriveFeatures(tasks []domain.TaskRecord, sleepHours float64, now time.Time) domain.WorkloadFeatures {
	f := domain.WorkloadFeatures{
		TotalCount: len(tasks),
		SleepHours: sleepHours,
	}
	if f.TotalCount == 0 {
		return f
	}

	var totalHours float64
	for _, t := range tasks {
		totalHours += t.HoursSpent
		if t.Completed {
			f.CompletedCount++
		} else if t.Deadline.Before(now) {
			f.MissedDeadlines++
		}
	}

	f.AvgDailyHours = totalHours / WindowDays
	f.Consistency = float64(f.CompletedCount) / float64(f.TotalCount)
	return f
}

// MissedRate is the share of tasks whose deadline passed while incomplete.
func MissedRate(f domain.WorkloadFeatures) float64 {
	if f.TotalCount == 0 {
		return 0
	}
	return float64(f.MissedDeadlines) / float64(f.TotalCount)
}

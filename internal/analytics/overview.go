package analytics

import (
	"math"
	"time"

	"github.com/pbaille/planner/internal/domain"
)

// Summarize builds the progress overview shown on the analytics page.
// Rates and averages are rounded to one decimal.
func Summarize(tasks []domain.TaskRecord, now time.Time) domain.Overview {
	o := domain.Overview{TotalTasks: len(tasks)}
	if o.TotalTasks == 0 {
		return o
	}

	var completed int
	var hours float64
	for _, t := range tasks {
		hours += t.HoursSpent
		if !t.Completed {
			continue
		}
		completed++
		// approximation: completion time is not tracked
		if !t.Deadline.Before(now) {
			o.DeadlinesMet++
		}
	}

	o.AvgHours = round1(hours / float64(o.TotalTasks))
	o.CompletionRate = round1(float64(completed) / float64(o.TotalTasks) * 100)
	return o
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

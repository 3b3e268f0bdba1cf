// Package report renders the plain-text performance report.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pbaille/planner/internal/domain"
)

// RecentTasks is how many of the latest tasks the report lists.
const RecentTasks = 5

// Report is everything a rendered report shows
type Report struct {
	GeneratedAt time.Time
	Tasks       []domain.TaskRecord
	Analysis    domain.Analysis
}

// Write renders r to w. Suggestions are printed in the order given.
func Write(w io.Writer, r Report) error {
	var sb strings.Builder

	sb.WriteString("Study & Work Planner - Performance Report\n")
	sb.WriteString(strings.Repeat("=", 41) + "\n\n")
	fmt.Fprintf(&sb, "Date: %s\n\n", r.GeneratedAt.Format("2006-01-02"))

	sb.WriteString("Performance Summary\n")
	fmt.Fprintf(&sb, "Predicted Performance Score: %.2f%%\n", r.Analysis.Prediction.Score)
	if r.Analysis.PredictorStatus != domain.PredictorOK {
		fmt.Fprintf(&sb, "  (prediction %s)\n", r.Analysis.PredictorStatus)
	}
	fmt.Fprintf(&sb, "Burnout Risk Level: %s\n", r.Analysis.Burnout.RiskLevel)
	fmt.Fprintf(&sb, "  %s\n\n", r.Analysis.Burnout.Message)

	sb.WriteString("Recent Tasks\n")
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := writeTasks(w, recent(r.Tasks)); err != nil {
		return err
	}

	sb.Reset()
	sb.WriteString("\nSuggestions\n")
	for _, s := range r.Analysis.Suggestions {
		fmt.Fprintf(&sb, "* %s\n", s)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// recent returns the latest added tasks, oldest first. Ties keep their input order.
func recent(tasks []domain.TaskRecord) []domain.TaskRecord {
	byCreation := slices.Clone(tasks)
	slices.SortStableFunc(byCreation, func(a, b domain.TaskRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	if len(byCreation) <= RecentTasks {
		return byCreation
	}
	return byCreation[len(byCreation)-RecentTasks:]
}

func writeTasks(w io.Writer, tasks []domain.TaskRecord) error {
	if len(tasks) == 0 {
		_, err := io.WriteString(w, "No tasks tracked yet.\n")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Title", "Category", "Status")
	for _, t := range tasks {
		if err := table.Append(t.Title, string(t.Category), Status(t)); err != nil {
			return fmt.Errorf("append task row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render tasks: %w", err)
	}
	return nil
}

// Status is the human label for a task's completion state
func Status(t domain.TaskRecord) string {
	if t.Completed {
		return "Completed"
	}
	return "Pending"
}

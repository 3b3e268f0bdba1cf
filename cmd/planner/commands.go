package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pbaille/planner/internal/api"
	"github.com/pbaille/planner/internal/domain"
	"github.com/pbaille/planner/internal/report"
	"github.com/pbaille/planner/internal/store"
	"github.com/spf13/cobra"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

func addCmd() *cobra.Command {
	var (
		category string
		hours    float64
		deadline string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Track a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := parseDeadline(deadline)
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			task, err := getTracker(s).AddTask(store.NewTask{
				Title:      args[0],
				Category:   domain.Category(category),
				HoursSpent: hours,
				Deadline:   due,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added task: %s\n", task.ID[:8])
			fmt.Fprintf(out, "%s (%s), due %s\n", task.Title, task.Category, task.Deadline.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(domain.CategoryStudy), "task category (Study or Work)")
	cmd.Flags().Float64VarP(&hours, "hours", "H", 0, "hours spent")
	cmd.Flags().StringVarP(&deadline, "deadline", "d", "", "deadline (YYYY-MM-DD or RFC 3339)")
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

// parseDeadline accepts a date, read as end of that day in local time, or a full timestamp.
func parseDeadline(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return d.Add(24*time.Hour - time.Second), nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked tasks by deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			tasks, err := s.ListTasks()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks yet. Use 'planner add' to create one.")
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.Header("ID", "Title", "Category", "Hours", "Deadline", "Status")
			for _, t := range tasks {
				_ = table.Append(
					t.ID[:8],
					t.Title,
					string(t.Category),
					strconv.FormatFloat(t.HoursSpent, 'f', -1, 64),
					t.Deadline.Local().Format("2006-01-02 15:04"),
					report.Status(t),
				)
			}
			return table.Render()
		},
	}
}

func completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [id]",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			// Find task by prefix
			task, err := s.FindTask(args[0])
			if err != nil {
				return err
			}

			task, err = s.CompleteTask(task.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s\n", task.Title)
			return nil
		},
	}
}

func dashboardCmd() *cobra.Command {
	var (
		sleep  float64
		stress float64
		noSave bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show predicted performance, burnout risk and suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("sleep") {
				sleep = cfg.Analytics.SleepHours
			}
			if !cmd.Flags().Changed("stress") {
				stress = cfg.Analytics.StressLevel
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			a, err := getTracker(s).Dashboard(sleep, stress, !noSave)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			printDashboard(cmd.OutOrStdout(), a)
			return nil
		},
	}

	cmd.Flags().Float64Var(&sleep, "sleep", 0, "average nightly sleep in hours (default from config)")
	cmd.Flags().Float64Var(&stress, "stress", 0, "self-reported stress, 1 to 10 (default from config)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record a performance snapshot")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	return cmd
}

func printDashboard(out io.Writer, a domain.Analysis) {
	bold.Fprintln(out, "Performance")
	switch a.PredictorStatus {
	case domain.PredictorOK:
		fmt.Fprintf(out, "  Predicted score: %.2f%% (confidence %.1f%%)\n", a.Prediction.Score, a.Prediction.Confidence)
	default:
		fmt.Fprintf(out, "  Predicted score: n/a (prediction %s)\n", a.PredictorStatus)
	}
	fmt.Fprintf(out, "  Avg daily hours: %.2f  Completed: %d/%d  Missed: %d  Consistency: %.0f%%\n",
		a.Features.AvgDailyHours, a.Features.CompletedCount, a.Features.TotalCount,
		a.Features.MissedDeadlines, a.Features.Consistency*100)

	fmt.Fprintln(out)
	bold.Fprintln(out, "Burnout")
	fmt.Fprintf(out, "  Risk: %s (score %d)\n", riskColor(a.Burnout.RiskLevel).Sprint(a.Burnout.RiskLevel), a.Burnout.Score)
	fmt.Fprintf(out, "  %s\n", a.Burnout.Message)

	fmt.Fprintln(out)
	bold.Fprintln(out, "Suggestions")
	for _, s := range a.Suggestions {
		fmt.Fprintf(out, "  * %s\n", s)
	}
}

func riskColor(level domain.RiskLevel) *color.Color {
	switch level {
	case domain.RiskHigh:
		return red
	case domain.RiskMedium:
		return yellow
	default:
		return green
	}
}

func analyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show task progress totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			o, err := getTracker(s).Overview()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total tasks:     %d\n", o.TotalTasks)
			fmt.Fprintf(out, "Completion rate: %.1f%%\n", o.CompletionRate)
			fmt.Fprintf(out, "Avg hours/task:  %.1f\n", o.AvgHours)
			fmt.Fprintf(out, "Deadlines met:   %d\n", o.DeadlinesMet)
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	var (
		sleep  float64
		stress float64
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the performance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("sleep") {
				sleep = cfg.Analytics.SleepHours
			}
			if !cmd.Flags().Changed("stress") {
				stress = cfg.Analytics.StressLevel
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			return getTracker(s).WriteReport(cmd.OutOrStdout(), sleep, stress)
		},
	}

	cmd.Flags().Float64Var(&sleep, "sleep", 0, "average nightly sleep in hours (default from config)")
	cmd.Flags().Float64Var(&stress, "stress", 0, "self-reported stress, 1 to 10 (default from config)")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded performance snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			snapshots, err := s.ListSnapshots(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snapshots) == 0 {
				fmt.Fprintln(out, "No snapshots yet. Run 'planner dashboard' to record one.")
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.Header("Generated", "Score", "Burnout")
			for _, p := range snapshots {
				_ = table.Append(
					p.GeneratedAt.Local().Format("2006-01-02 15:04"),
					fmt.Sprintf("%.2f", p.PredictedScore),
					string(p.BurnoutLevel),
				)
			}
			return table.Render()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of snapshots to show")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			defaults := api.Defaults{
				SleepHours:  cfg.Analytics.SleepHours,
				StressLevel: cfg.Analytics.StressLevel,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.New(s, getTracker(s), defaults, logger, addr)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default from config)")
	return cmd
}

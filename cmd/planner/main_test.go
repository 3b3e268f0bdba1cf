package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/pbaille/planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	config string
	db     string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()

	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
predictor:
  kind: none
log:
  level: error
`), 0644))

	return &cli{t: t, config: config, db: filepath.Join(dir, "data", "planner.db")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", c.config, "--db", c.db}, args...))

	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

var addedID = regexp.MustCompile(`Added task: ([0-9a-f-]{8})`)

func TestCLIWorkflow(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("list")
	assert.Contains(t, out, "No tasks yet")

	out = c.mustRun("add", "Lab report", "--category", "study", "--hours", "2", "--deadline", "2099-01-01")
	m := addedID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	id := m[1]

	out = c.mustRun("list")
	assert.Contains(t, out, "Lab report")
	assert.Contains(t, out, "Study")
	assert.Contains(t, out, "Pending")

	out = c.mustRun("complete", id)
	assert.Contains(t, out, "Completed: Lab report")

	out = c.mustRun("dashboard", "--json")
	var a domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 1, a.Features.TotalCount)
	assert.Equal(t, 1, a.Features.CompletedCount)
	assert.Equal(t, 7.5, a.Features.SleepHours)
	assert.Equal(t, domain.PredictorUnavailable, a.PredictorStatus)
	assert.Equal(t, domain.RiskLow, a.Burnout.RiskLevel)

	out = c.mustRun("dashboard", "--sleep", "4", "--stress", "9", "--no-save")
	assert.Contains(t, out, "Medium")
	assert.Contains(t, out, "prediction unavailable")

	out = c.mustRun("history")
	assert.Contains(t, out, "Low")
	assert.NotContains(t, out, "Medium")

	out = c.mustRun("analytics")
	assert.Contains(t, out, "Total tasks:     1")
	assert.Contains(t, out, "Completion rate: 100.0%")
	assert.Contains(t, out, "Deadlines met:   1")

	out = c.mustRun("report")
	assert.Contains(t, out, "Performance Report")
	assert.Contains(t, out, "Lab report")
	assert.Contains(t, out, "Burnout Risk Level: Low")

	out = c.mustRun("report", "--sleep", "4", "--stress", "9")
	assert.Contains(t, out, "Burnout Risk Level: Medium")
}

func TestCLIRejectsBadInput(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("add", "Gym", "--category", "Fitness", "--deadline", "2099-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")

	_, err = c.run("add", "Essay", "--deadline", "next week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid deadline")

	_, err = c.run("complete", "ffffffff")
	require.Error(t, err)
}

func TestParseDeadline(t *testing.T) {
	got, err := parseDeadline("2026-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	got, err = parseDeadline("2026-03-01")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 1, 23, 59, 59, 0, time.Local)), "got %v", got)
}

package predictor

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pbaille/planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `version: test
intercept: 0
weights:
  avg_hours: 5
  tasks_completed: 4
  missed_deadlines: -5
  consistency: 10
  sleep_hours: 2
raw_min: -6
raw_max: 140
`

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestAvailability(t *testing.T) {
	t.Run("available exposes model", func(t *testing.T) {
		a := Available(Static{Score: 50, Confidence: 90})
		assert.True(t, a.IsAvailable())
		assert.Empty(t, a.Reason())
		m, ok := a.Model()
		require.True(t, ok)
		assert.NotNil(t, m)
	})

	t.Run("unavailable keeps reason", func(t *testing.T) {
		a := Unavailable("not trained yet")
		assert.False(t, a.IsAvailable())
		assert.Equal(t, "not trained yet", a.Reason())
		_, ok := a.Model()
		assert.False(t, ok)
	})

	t.Run("nil model is unavailable", func(t *testing.T) {
		assert.False(t, Available(nil).IsAvailable())
	})

	t.Run("zero value is unavailable", func(t *testing.T) {
		var a Availability
		assert.False(t, a.IsAvailable())
		assert.Equal(t, "no model loaded", a.Reason())
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   domain.PredictionResult
		want domain.PredictionResult
	}{
		{"rounds", domain.PredictionResult{Score: 72.3456, Confidence: 90.26}, domain.PredictionResult{Score: 72.35, Confidence: 90.3}},
		{"clamps high", domain.PredictionResult{Score: 130, Confidence: 120}, domain.PredictionResult{Score: 100, Confidence: 98}},
		{"clamps low", domain.PredictionResult{Score: -4, Confidence: 10}, domain.PredictionResult{Score: 0, Confidence: 85}},
		{"nan", domain.PredictionResult{Score: math.NaN(), Confidence: math.NaN()}, domain.PredictionResult{Score: 0, Confidence: 85}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file is unavailable", func(t *testing.T) {
		a, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.False(t, a.IsAvailable())
		assert.Contains(t, a.Reason(), "not found")
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		_, err := Load(writeModel(t, "weights: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse model")
	})

	t.Run("empty range is an error", func(t *testing.T) {
		_, err := Load(writeModel(t, "raw_min: 5\nraw_max: 5\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid model range")
	})

	t.Run("valid file is available", func(t *testing.T) {
		a, err := Load(writeModel(t, testModel))
		require.NoError(t, err)
		require.True(t, a.IsAvailable())
		m, _ := a.Model()
		assert.Equal(t, "test", m.(*LinearModel).Version())
	})

	t.Run("shipped model loads", func(t *testing.T) {
		a, err := Load(filepath.Join("..", "..", "models", "performance.yaml"))
		require.NoError(t, err)
		assert.True(t, a.IsAvailable())
	})
}

func TestLinearModelPredict(t *testing.T) {
	a, err := Load(writeModel(t, testModel), WithUniformSource(func() float64 { return 0.5 }))
	require.NoError(t, err)
	m, _ := a.Model()

	t.Run("weighted sum rescaled", func(t *testing.T) {
		got, err := m.Predict(domain.WorkloadFeatures{
			AvgDailyHours:   4,
			CompletedCount:  3,
			MissedDeadlines: 1,
			Consistency:     0.75,
			SleepHours:      7.5,
		})
		require.NoError(t, err)
		// raw = 20 + 12 - 5 + 7.5 + 15 = 49.5; (49.5+6)/146*100
		assert.Equal(t, 38.01, got.Score)
		assert.Equal(t, 91.5, got.Confidence)
	})

	t.Run("score clamped to 100", func(t *testing.T) {
		got, err := m.Predict(domain.WorkloadFeatures{AvgDailyHours: 30, CompletedCount: 10, SleepHours: 10})
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Score)
	})

	t.Run("confidence stays in range", func(t *testing.T) {
		hi, err := NewLinearModel(ModelFile{RawMin: 0, RawMax: 1}, WithUniformSource(func() float64 { return 0.9999 }))
		require.NoError(t, err)
		got, _ := hi.Predict(domain.WorkloadFeatures{})
		assert.Equal(t, 98.0, got.Confidence)
	})
}

func TestLinearModelDefaultSource(t *testing.T) {
	m, err := NewLinearModel(ModelFile{RawMin: -6, RawMax: 140})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		got, err := m.Predict(domain.WorkloadFeatures{SleepHours: 7.5})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Confidence, 85.0)
		assert.LessOrEqual(t, got.Confidence, 98.0)
	}
}

func TestNewRemoteModel(t *testing.T) {
	_, err := NewRemoteModel("", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url not set")
}

func TestRemoteModelPredict(t *testing.T) {
	t.Run("posts features and normalizes reply", func(t *testing.T) {
		var got predictRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"score": 81.236, "confidence": 92.44}`))
		}))
		defer srv.Close()

		m, err := NewRemoteModel(srv.URL, time.Second)
		require.NoError(t, err)

		res, err := m.Predict(domain.WorkloadFeatures{
			AvgDailyHours:   5,
			CompletedCount:  4,
			MissedDeadlines: 2,
			Consistency:     0.5,
			SleepHours:      7.5,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PredictionResult{Score: 81.24, Confidence: 92.4}, res)
		assert.Equal(t, predictRequest{AvgHours: 5, TasksCompleted: 4, MissedDeadlines: 2, Consistency: 0.5, SleepHours: 7.5}, got)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		m, err := NewRemoteModel(srv.URL, time.Second)
		require.NoError(t, err)
		_, err = m.Predict(domain.WorkloadFeatures{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})

	t.Run("error body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": {"message": "bad features"}}`))
		}))
		defer srv.Close()

		m, err := NewRemoteModel(srv.URL, time.Second)
		require.NoError(t, err)
		_, err = m.Predict(domain.WorkloadFeatures{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad features")
	})
}

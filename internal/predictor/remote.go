package predictor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pbaille/planner/internal/domain"
)

// RemoteModel asks a model-serving endpoint for predictions
type RemoteModel struct {
	url    string
	client *http.Client
}

// NewRemoteModel creates a RemoteModel posting to url
func NewRemoteModel(url string, timeout time.Duration) (*RemoteModel, error) {
	if url == "" {
		return nil, fmt.Errorf("predictor url not set")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &RemoteModel{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type predictRequest struct {
	AvgHours        float64 `json:"avg_hours"`
	TasksCompleted  int     `json:"tasks_completed"`
	MissedDeadlines int     `json:"missed_deadlines"`
	Consistency     float64 `json:"consistency"`
	SleepHours      float64 `json:"sleep_hours"`
}

type predictResponse struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Predict implements Model
func (r *RemoteModel) Predict(f domain.WorkloadFeatures) (domain.PredictionResult, error) {
	reqBody := predictRequest{
		AvgHours:        f.AvgDailyHours,
		TasksCompleted:  f.CompletedCount,
		MissedDeadlines: f.MissedDeadlines,
		Consistency:     f.Consistency,
		SleepHours:      f.SleepHours,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", r.url, bytes.NewReader(jsonBody))
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.PredictionResult{}, fmt.Errorf("predictor error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp predictResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return domain.PredictionResult{}, fmt.Errorf("predictor error: %s", apiResp.Error.Message)
	}

	return Normalize(domain.PredictionResult{
		Score:      apiResp.Score,
		Confidence: apiResp.Confidence,
	}), nil
}

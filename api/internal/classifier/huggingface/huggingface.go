// Package huggingface classifies plant photos with a hosted image
// classification model on the HuggingFace Inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agrisakhi/api/internal/classifier"
	"agrisakhi/api/internal/plant"
)

const (
	DefaultModel   = "linkanjarad/mobilenet_v2_1.0_224-plant-disease-identification"
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
)

type Engine struct {
	APIKey  string
	Model   string
	BaseURL string
	httpc   *http.Client
}

func New(apiKey, model, baseURL string, httpc *http.Client) *Engine {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Engine{
		APIKey:  strings.TrimSpace(apiKey),
		Model:   strings.TrimSpace(model),
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

func (e *Engine) Name() string     { return plant.SourceHuggingFace }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) endpoint() string { return e.BaseURL + "/" + e.Model }

type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Classify posts the raw image bytes and reads back [{label, score}].
// A 503 while the model is loading is reported as a failure, not retried.
func (e *Engine) Classify(ctx context.Context, image []byte, mime string) ([]plant.Prediction, error) {
	if e.APIKey == "" {
		return nil, fmt.Errorf("HF_API_KEY is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint(), bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.APIKey)
	if mime != "" {
		req.Header.Set("Content-Type", mime)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("huggingface read: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		var ae apiError
		if json.Unmarshal(body, &ae) == nil && ae.Error != "" {
			if ae.EstimatedTime > 0 {
				return nil, fmt.Errorf("huggingface %d: %s (estimated %.0fs)", resp.StatusCode, ae.Error, ae.EstimatedTime)
			}
			return nil, fmt.Errorf("huggingface %d: %s", resp.StatusCode, ae.Error)
		}
		return nil, fmt.Errorf("huggingface %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var preds []plant.Prediction
	if err := json.Unmarshal(body, &preds); err != nil {
		return nil, fmt.Errorf("%w: %v", classifier.ErrMalformedResponse, err)
	}
	return preds, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ppiankov/aegis/internal/model"
)

// DefaultWinstonURL is the Winston AI content detection endpoint
const DefaultWinstonURL = "https://api.gowinston.ai/v2/ai-content-detection"

// Winston uses the Winston AI detection API. Winston reports a human score
// (90 means 90% human), which is converted to an AI likelihood.
type Winston struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewWinston creates a Winston detector
func NewWinston(cfg model.DetectorConfig, client *http.Client) *Winston {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = DefaultWinstonURL
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Winston{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		httpClient: client,
	}
}

// Name returns the provider name
func (w *Winston) Name() string {
	return "winston"
}

type winstonRequest struct {
	Text      string `json:"text"`
	Sentences bool   `json:"sentences"`
}

type winstonResponse struct {
	Score *float64 `json:"score"`
}

// Detect calls Winston and returns (100 - human score) / 100
func (w *Winston) Detect(ctx context.Context, text string) (float64, error) {
	if w.apiKey == "" {
		return 0, ErrMissingAPIKey
	}

	payload, err := json.Marshal(winstonRequest{Text: text, Sentences: true})
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("winston: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("winston: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out winstonResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("winston: decode response: %w", err)
	}

	human := 100.0
	if out.Score != nil {
		human = *out.Score
	}
	return (100 - human) / 100, nil
}

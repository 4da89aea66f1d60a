package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/aegis/internal/model"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 4 << 20

// Submitter sends a draft for analysis
type Submitter interface {
	Submit(ctx context.Context, text string) Result
}

// Client submits drafts to the /analyze endpoint of an Aegis service
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the service at baseURL. A zero timeout
// leaves the request running until the transport gives up.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/analyze",
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Endpoint returns the full /analyze URL the client posts to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit issues exactly one POST carrying text and returns either the
// validated report or the reason it could not be obtained. It never retries.
func (c *Client) Submit(ctx context.Context, text string) Result {
	payload, err := json.Marshal(model.AnalysisRequest{Text: text})
	if err != nil {
		return c.fail(&Failure{Kind: FailureTransport, Err: fmt.Errorf("encode request: %w", err)})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return c.fail(&Failure{Kind: FailureTransport, Err: fmt.Errorf("create request: %w", err)})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(&Failure{Kind: FailureTransport, Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.fail(&Failure{Kind: FailureTransport, Err: fmt.Errorf("read body: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(&Failure{
			Kind:       FailureStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s: %s", resp.Status, strings.TrimSpace(string(body))),
		})
	}

	report, err := DecodeReport(body)
	if err != nil {
		return c.fail(&Failure{Kind: FailureMalformed, Err: err})
	}

	c.logger.Debug("analysis received",
		zap.Float64("ai_score", report.AIScore),
		zap.Int("claims", len(report.Claims)),
		zap.Duration("elapsed", time.Since(start)))

	return Ok(report)
}

func (c *Client) fail(f *Failure) Result {
	c.logger.Warn("analysis request failed",
		zap.String("endpoint", c.endpoint),
		zap.Stringer("kind", f.Kind),
		zap.Int("status", f.StatusCode),
		zap.Error(f.Err))
	return Err(f)
}

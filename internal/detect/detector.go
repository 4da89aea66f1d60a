// Package detect estimates how likely a text is to be machine-generated.
package detect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/aegis/internal/model"
)

// ErrMissingAPIKey is returned by detectors that have no credentials configured
var ErrMissingAPIKey = errors.New("API key missing")

// Detector returns an AI-likelihood score in [0, 1] for a text
type Detector interface {
	Name() string
	Detect(ctx context.Context, text string) (float64, error)
}

// New creates the detector selected by cfg.Provider. client carries the
// shared transport (proxy and rate limiting) for outbound calls.
func New(cfg model.DetectorConfig, client *http.Client) (Detector, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "winston":
		return NewWinston(cfg, client), nil
	case "openai":
		return NewOpenAI(cfg, client)
	default:
		return nil, fmt.Errorf("unknown detector provider: %s (supported: winston, openai)", cfg.Provider)
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

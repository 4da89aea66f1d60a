// Package analysis produces trust reports by running the AI detector and the
// fact-check search side by side.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/aegis/internal/cache"
	"github.com/ppiankov/aegis/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Detector scores AI likelihood
type Detector interface {
	Name() string
	Detect(ctx context.Context, text string) (float64, error)
}

// FactChecker finds published fact-checks for a text
type FactChecker interface {
	Search(ctx context.Context, text string) []model.Claim
}

// Service runs one analysis per text
type Service struct {
	detector Detector
	checker  FactChecker
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService creates an analysis service. A nil cache disables caching.
func NewService(detector Detector, checker FactChecker, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		detector: detector,
		checker:  checker,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Analyze returns the trust report for text. Upstream failures do not fail
// the analysis: a detector error yields a zero score and a warning, and
// fact-check problems come back as claim entries.
func (s *Service) Analyze(ctx context.Context, text string) model.AnalysisResponse {
	key := cache.Key("analysis", text)

	var cached model.AnalysisResponse
	if cache.GetJSON(s.cache, key, &cached) {
		s.logger.Debug("analysis cache hit")
		return cached
	}

	var (
		score     float64
		detectErr error
		claims    []model.Claim
	)

	// Neither goroutine returns an error, so one upstream never cancels the other
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		score, detectErr = s.detector.Detect(gctx, text)
		return nil
	})
	g.Go(func() error {
		claims = s.checker.Search(gctx, text)
		return nil
	})
	_ = g.Wait()

	resp := model.AnalysisResponse{
		AIScore: score,
		Claims:  claims,
		Status:  model.StatusSuccess,
	}
	if resp.Claims == nil {
		resp.Claims = []model.Claim{}
	}

	if detectErr != nil {
		resp.AIScore = 0
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%s: %v", s.detector.Name(), detectErr))
		s.logger.Warn("AI detection failed", zap.String("detector", s.detector.Name()), zap.Error(detectErr))
	}

	// Degraded results are not cached, so the next request retries upstream
	if len(resp.Warnings) == 0 && !hasErrorClaims(resp.Claims) {
		if err := cache.SetJSON(s.cache, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("analysis cache write failed", zap.Error(err))
		}
	}

	return resp
}

func hasErrorClaims(claims []model.Claim) bool {
	for _, c := range claims {
		if c.Rating == "Error" || c.Rating == "N/A" {
			return true
		}
	}
	return false
}

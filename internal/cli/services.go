package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ppiankov/aegis/internal/analysis"
	"github.com/ppiankov/aegis/internal/cache"
	"github.com/ppiankov/aegis/internal/detect"
	"github.com/ppiankov/aegis/internal/factcheck"
	"github.com/ppiankov/aegis/internal/ingest"
	"github.com/ppiankov/aegis/internal/model"
	"github.com/ppiankov/aegis/internal/util"
	"github.com/ppiankov/aegis/internal/worker"
	"go.uber.org/zap"
)

// fetchTimeout bounds a single page download for URL inputs
const fetchTimeout = 30 * time.Second

// newOutboundClient builds an HTTP client that honors the proxy settings and
// waits on the shared per-host limiter before every request
func newOutboundClient(cfg model.HTTPConfig, limiter *worker.Limiter, timeout time.Duration) *http.Client {
	client := util.NewHTTPClient(timeout, cfg)
	client.Transport = limiter.Transport(client.Transport)
	return client
}

// newAnalysisService wires the detector, fact checker and caches behind one service
func newAnalysisService(cfg *model.Config, logger *zap.Logger) (*analysis.Service, error) {
	limiter := worker.NewLimiter(cfg.HTTP.RequestsPerSec, cfg.HTTP.Burst)

	detector, err := detect.New(cfg.Detector, newOutboundClient(cfg.HTTP, limiter, cfg.Detector.Timeout))
	if err != nil {
		return nil, fmt.Errorf("create detector: %w", err)
	}
	if cfg.Detector.APIKey == "" {
		logger.Warn("detector API key not set; AI scores will be 0", zap.String("provider", detector.Name()))
	}
	if cfg.FactCheck.APIKey == "" {
		logger.Warn("fact-check API key not set")
	}

	opts := []factcheck.Option{factcheck.WithLogger(logger)}
	var results cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled {
		opts = append(opts, factcheck.WithCache(cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute), cfg.Cache.MemoryTTL))
		results = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	checker := factcheck.NewChecker(cfg.FactCheck, newOutboundClient(cfg.HTTP, limiter, cfg.FactCheck.Timeout), opts...)

	return analysis.NewService(detector, checker, results, cfg.Cache.DiskTTL, logger), nil
}

// newFetcher builds the page fetcher used for URL inputs
func newFetcher(cfg *model.Config, limiter *worker.Limiter) *ingest.Fetcher {
	return ingest.NewFetcher(
		newOutboundClient(cfg.HTTP, limiter, fetchTimeout),
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.RespectRobots,
	)
}

// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ppiankov/aegis/internal/model"
	"go.uber.org/zap"
)

// Analyzer produces a trust report for a text
type Analyzer interface {
	Analyze(ctx context.Context, text string) model.AnalysisResponse
}

// Server is the /analyze HTTP service
type Server struct {
	cfg      model.ServerConfig
	engine   *gin.Engine
	analyzer Analyzer
	logger   *zap.Logger
}

// New creates a server and registers its routes
func New(cfg model.ServerConfig, analyzer Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 10
	}

	engine := gin.New()
	engine.Use(recovery(logger), requestLogger(logger))
	engine.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		analyzer: analyzer,
		logger:   logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.POST("/analyze", s.handleAnalyze)
	s.engine.GET("/healthz", s.handleHealth)
}

// corsConfig allows the browser dashboard (or any configured origin) to call the API
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

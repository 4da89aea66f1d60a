// Package logging builds the zap loggers used by the aegis commands.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/aegis/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger at cfg.Level, or a console
// development logger at debug level when verbose is set.
func New(cfg model.LogConfig, verbose bool) (*zap.Logger, error) {
	config, err := buildConfig(cfg, verbose)
	if err != nil {
		return nil, err
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewFile returns a logger that writes only to path. The terminal UI owns
// stdout and stderr while it runs.
func NewFile(cfg model.LogConfig, verbose bool, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	config, err := buildConfig(cfg, verbose)
	if err != nil {
		return nil, err
	}
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func buildConfig(cfg model.LogConfig, verbose bool) (zap.Config, error) {
	if verbose {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return config, nil
	}

	config := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}
	return config, nil
}

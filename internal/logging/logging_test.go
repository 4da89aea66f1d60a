package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/aegis/internal/model"
	"go.uber.org/zap/zapcore"
)

func TestBuildConfig_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		verbose bool
		want    zapcore.Level
	}{
		{"default", "", false, zapcore.InfoLevel},
		{"warn", "warn", false, zapcore.WarnLevel},
		{"verbose overrides", "error", true, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := buildConfig(model.LogConfig{Level: tt.level}, tt.verbose)
			if err != nil {
				t.Fatalf("buildConfig: %v", err)
			}
			if got := config.Level.Level(); got != tt.want {
				t.Errorf("expected level %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(model.LogConfig{Level: "loud"}, false)
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Fatalf("expected invalid level error, got %v", err)
	}
}

func TestNewFile_WritesToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dashboard.log")

	logger, err := NewFile(model.LogConfig{Level: "info"}, false, path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	logger.Info("submission failed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "submission failed") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestNewFile_EmptyPath(t *testing.T) {
	logger, err := NewFile(model.LogConfig{}, false, "")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	logger.Info("dropped")
}

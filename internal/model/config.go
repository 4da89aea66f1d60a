package model

import "time"

// Config is the complete Aegis configuration. It is assembled from defaults,
// the config file, environment variables and flags (in increasing priority).
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Dashboard   DashboardConfig   `yaml:"dashboard" mapstructure:"dashboard"`
	Detector    DetectorConfig    `yaml:"detector" mapstructure:"detector"`
	FactCheck   FactCheckConfig   `yaml:"factcheck" mapstructure:"factcheck"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the /analyze service
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	AllowOrigins    []string      `yaml:"allow_origins" mapstructure:"allow_origins"`
	MinTextLength   int           `yaml:"min_text_length" mapstructure:"min_text_length"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// DashboardConfig configures the terminal dashboard and the one-shot client
type DashboardConfig struct {
	BackendURL string `yaml:"backend_url" mapstructure:"backend_url"`
	// Timeout of zero leaves the request to the transport.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DetectorConfig selects and configures the AI-likelihood detector
type DetectorConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"` // winston, openai
	APIKey   string        `yaml:"-" mapstructure:"api_key"`
	BaseURL  string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Model    string        `yaml:"model,omitempty" mapstructure:"model"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// FactCheckConfig configures the fact-check search client
type FactCheckConfig struct {
	APIKey     string        `yaml:"-" mapstructure:"api_key"`
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	QueryChars int           `yaml:"query_chars" mapstructure:"query_chars"`
	MaxResults int           `yaml:"max_results" mapstructure:"max_results"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig configures result caching in the service
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig configures outbound HTTP (upstream APIs and page ingestion)
type HTTPConfig struct {
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes   int64   `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
	HTTPProxy      string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy     string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	RespectRobots  bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// LogConfig configures zap logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	// File receives dashboard logs so they do not corrupt the terminal UI.
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			AllowOrigins:    []string{"*"},
			MinTextLength:   10,
			ShutdownTimeout: 10 * time.Second,
		},
		Dashboard: DashboardConfig{
			BackendURL: "http://localhost:8000",
		},
		Detector: DetectorConfig{
			Provider: "winston",
			Timeout:  10 * time.Second,
		},
		FactCheck: FactCheckConfig{
			BaseURL:    "https://factchecktools.googleapis.com/v1alpha1",
			QueryChars: 100,
			MaxResults: 5,
			Timeout:    10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		HTTP: HTTPConfig{
			UserAgent:      "Aegis/0.1 (+https://github.com/ppiankov/aegis)",
			MaxBodyBytes:   2_000_000,
			RequestsPerSec: 5,
			Burst:          5,
			RespectRobots:  true,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/aegis/internal/model"
	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())
	bindEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("WINSTONAI_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig(newTestViper())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("expected default addr :8000, got %s", cfg.Server.Addr)
	}
	if cfg.Server.MinTextLength != 10 {
		t.Errorf("expected min text length 10, got %d", cfg.Server.MinTextLength)
	}
	if cfg.FactCheck.Timeout != 10*time.Second {
		t.Errorf("expected fact-check timeout 10s, got %v", cfg.FactCheck.Timeout)
	}
	if !strings.HasSuffix(cfg.Log.File, filepath.Join(".aegis", "dashboard.log")) {
		t.Errorf("unexpected log file %s", cfg.Log.File)
	}
	if !strings.HasSuffix(cfg.Cache.Dir, filepath.Join(".aegis", "cache")) {
		t.Errorf("unexpected cache dir %s", cfg.Cache.Dir)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("AEGIS_SERVER_ADDR", ":9999")
	t.Setenv("AEGIS_DETECTOR_TIMEOUT", "3s")
	t.Setenv("WINSTONAI_API_KEY", "winston-key")
	t.Setenv("FACT_CHECK_API_KEY", "google-key")

	cfg, err := loadConfig(newTestViper())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Server.Addr != ":9999" {
		t.Errorf("expected addr from env, got %s", cfg.Server.Addr)
	}
	if cfg.Detector.Timeout != 3*time.Second {
		t.Errorf("expected detector timeout 3s, got %v", cfg.Detector.Timeout)
	}
	if cfg.Detector.APIKey != "winston-key" {
		t.Errorf("expected winston key, got %q", cfg.Detector.APIKey)
	}
	if cfg.FactCheck.APIKey != "google-key" {
		t.Errorf("expected fact-check key, got %q", cfg.FactCheck.APIKey)
	}
}

func TestLoadConfig_OpenAIProviderKey(t *testing.T) {
	t.Setenv("AEGIS_DETECTOR_PROVIDER", "openai")
	t.Setenv("WINSTONAI_API_KEY", "winston-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := loadConfig(newTestViper())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Detector.APIKey != "sk-test" {
		t.Errorf("expected OpenAI key for openai provider, got %q", cfg.Detector.APIKey)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  addr: \":7000\"\n  allow_origins:\n    - https://example.com\nfactcheck:\n  max_results: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := newTestViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected addr from file, got %s", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowOrigins) != 1 || cfg.Server.AllowOrigins[0] != "https://example.com" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowOrigins)
	}
	if cfg.FactCheck.MaxResults != 3 {
		t.Errorf("expected max results 3, got %d", cfg.FactCheck.MaxResults)
	}
	if cfg.FactCheck.QueryChars != 100 {
		t.Errorf("expected default query chars, got %d", cfg.FactCheck.QueryChars)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".aegis", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	v := newTestViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("written config does not parse: %v", err)
	}
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.MemoryTTL != 15*time.Minute {
		t.Errorf("expected memory TTL to round-trip, got %v", cfg.Cache.MemoryTTL)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestReadDraft(t *testing.T) {
	got, err := readDraft([]string{"The", "moon", "is", "cheese."}, "", strings.NewReader("ignored"))
	if err != nil || got != "The moon is cheese." {
		t.Errorf("args: got %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "post.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = readDraft(nil, path, strings.NewReader("ignored"))
	if err != nil || got != "from file" {
		t.Errorf("file: got %q, %v", got, err)
	}

	got, err = readDraft(nil, "", strings.NewReader("from stdin"))
	if err != nil || got != "from stdin" {
		t.Errorf("stdin: got %q, %v", got, err)
	}

	if _, err := readDraft(nil, "", strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestPrintReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	report := model.TrustReport{AIScore: 0.42, Claims: []model.Claim{}}

	if err := printReport(&buf, report, true); err != nil {
		t.Fatalf("printReport: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["ai_score"] != 0.42 {
		t.Errorf("unexpected ai_score %v", decoded["ai_score"])
	}
}

func TestPrintReport_Text(t *testing.T) {
	var buf bytes.Buffer
	report := model.TrustReport{AIScore: 0.87, Claims: []model.Claim{{Claim: "c", Rating: "False", Source: "Snopes"}}}

	if err := printReport(&buf, report, false); err != nil {
		t.Fatalf("printReport: %v", err)
	}
	if !strings.Contains(buf.String(), "87% AI-Likelihood") {
		t.Errorf("missing score in output: %s", buf.String())
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short"); got != "short" {
		t.Errorf("unexpected preview %q", got)
	}
	long := strings.Repeat("é", 100)
	got := preview(long)
	if len([]rune(got)) != 60 || !strings.HasSuffix(got, "...") {
		t.Errorf("unexpected preview %q", got)
	}
}

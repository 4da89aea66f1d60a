package detect

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ppiankov/aegis/internal/model"
	"github.com/sashabaranov/go-openai"
)

func TestOpenAI_Detect_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: "73",
					},
					FinishReason: "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	d, err := NewOpenAI(model.DetectorConfig{APIKey: "test-key", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}

	score, err := d.Detect(context.Background(), "Some paragraph of text.")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if math.Abs(score-0.73) > 1e-9 {
		t.Errorf("score = %v, want 0.73", score)
	}
}

func TestOpenAI_Detect_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	d, err := NewOpenAI(model.DetectorConfig{APIKey: "test-key", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}
	if _, err := d.Detect(context.Background(), "text"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI(model.DetectorConfig{}, nil)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		reply   string
		want    float64
		wantErr bool
	}{
		{"80", 0.8, false},
		{" 12.5 ", 0.125, false},
		{"Probability: 95", 0.95, false},
		{"250", 1, false},
		{"unsure", 0, true},
	}

	for _, tt := range tests {
		got, err := parseRating(tt.reply)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRating(%q) error = %v", tt.reply, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseRating(%q) = %v, want %v", tt.reply, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	d, err := New(model.DetectorConfig{}, nil)
	if err != nil || d.Name() != "winston" {
		t.Errorf("default provider should be winston, got %v %v", d, err)
	}

	d, err = New(model.DetectorConfig{Provider: "OpenAI", APIKey: "k"}, nil)
	if err != nil || d.Name() != "openai" {
		t.Errorf("expected openai detector, got %v %v", d, err)
	}

	if _, err := New(model.DetectorConfig{Provider: "copyleaks"}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}

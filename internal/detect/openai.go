package detect

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/aegis/internal/model"
	"github.com/sashabaranov/go-openai"
)

// maxPromptChars keeps long articles within a modest token budget
const maxPromptChars = 12000

const detectionPrompt = `Estimate the probability that the following text was written by an AI language model.
Respond with a single integer from 0 (certainly human) to 100 (certainly AI). Do not add any other words.

Text:
"""
%s
"""`

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// OpenAI asks a chat model to rate AI likelihood. It is a fallback for
// deployments without a dedicated detection API.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates an OpenAI-backed detector
func NewOpenAI(cfg model.DetectorConfig, httpClient *http.Client) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai detector: %w", ErrMissingAPIKey)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   modelName,
		timeout: timeout,
	}, nil
}

// Name returns the provider name
func (o *OpenAI) Name() string {
	return "openai"
}

// Detect returns the model's rating divided by 100
func (o *OpenAI) Detect(ctx context.Context, text string) (float64, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an AI-generated text detector. You answer only with a number.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(detectionPrompt, text),
			},
		},
		MaxTokens:   8,
		Temperature: 0,
	})
	if err != nil {
		return 0, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("openai: empty response")
	}

	return parseRating(resp.Choices[0].Message.Content)
}

// parseRating extracts the first number from a model reply and scales it to [0, 1]
func parseRating(reply string) (float64, error) {
	match := numberPattern.FindString(strings.TrimSpace(reply))
	if match == "" {
		return 0, fmt.Errorf("no rating in reply %q", reply)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rating %q: %w", match, err)
	}
	return clamp01(v / 100), nil
}

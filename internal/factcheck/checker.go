// Package factcheck searches published fact-checks that match a text.
package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/aegis/internal/cache"
	"github.com/ppiankov/aegis/internal/model"
	"go.uber.org/zap"
)

// Fallback values used when a fact-check record omits a field
const (
	missingText      = "N/A"
	missingRating    = "Unknown"
	noReviewRating   = "No Rating"
	missingPublisher = "Unknown Source"
)

// Checker queries the Google Fact Check Tools claim search API
type Checker struct {
	apiKey     string
	baseURL    string
	queryChars int
	maxResults int
	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// Option configures a Checker
type Option func(*Checker)

// WithCache caches results per query
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(ch *Checker) {
		ch.cache = c
		ch.cacheTTL = ttl
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(ch *Checker) {
		ch.logger = logger
	}
}

// NewChecker creates a fact-check client
func NewChecker(cfg model.FactCheckConfig, client *http.Client, opts ...Option) *Checker {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Checker{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		queryChars: cfg.QueryChars,
		maxResults: cfg.MaxResults,
		httpClient: client,
		cache:      cache.Nop{},
		logger:     zap.NewNop(),
	}
	if c.queryChars <= 0 {
		c.queryChars = 100
	}
	if c.maxResults <= 0 {
		c.maxResults = 5
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// claimSearchResponse is the subset of the claims:search response we read
type claimSearchResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		ClaimReview []struct {
			TextualRating string `json:"textualRating"`
			Publisher     struct {
				Name string `json:"name"`
			} `json:"publisher"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Search returns up to maxResults fact-checks matching the start of text.
// Problems are reported as claim entries rather than errors so that a
// report can still be produced when the fact-check API is unavailable.
func (c *Checker) Search(ctx context.Context, text string) []model.Claim {
	if c.apiKey == "" {
		return []model.Claim{{Claim: "API Key missing", Rating: "N/A"}}
	}

	query := Query(text, c.queryChars)
	key := cache.Key("factcheck", query)

	var cached []model.Claim
	if cache.GetJSON(c.cache, key, &cached) {
		c.logger.Debug("fact-check cache hit", zap.Int("claims", len(cached)))
		return cached
	}

	claims, err := c.search(ctx, query)
	if err != nil {
		c.logger.Warn("fact-check search failed", zap.Error(err))
		return []model.Claim{errorClaim(err)}
	}

	if err := cache.SetJSON(c.cache, key, claims, c.cacheTTL); err != nil {
		c.logger.Warn("fact-check cache write failed", zap.Error(err))
	}
	return claims
}

// statusError is a non-200 reply from the API
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("Google API Error: %d", e.code)
}

func errorClaim(err error) model.Claim {
	var se *statusError
	if errors.As(err, &se) {
		return model.Claim{Claim: se.Error(), Rating: "Error"}
	}
	return model.Claim{Claim: "Connection Error: " + err.Error(), Rating: "Error"}
}

func (c *Checker) search(ctx context.Context, query string) ([]model.Claim, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + "/claims:search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, redactKey(err, c.apiKey)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var body claimSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	claims := make([]model.Claim, 0, min(len(body.Claims), c.maxResults))
	for _, item := range body.Claims {
		if len(claims) == c.maxResults {
			break
		}

		claim := model.Claim{
			Claim:  item.Text,
			Rating: noReviewRating,
			Source: missingPublisher,
		}
		if claim.Claim == "" {
			claim.Claim = missingText
		}

		// A claim can carry several reviews; the first one is reported
		if len(item.ClaimReview) > 0 {
			review := item.ClaimReview[0]
			claim.Rating = review.TextualRating
			if claim.Rating == "" {
				claim.Rating = missingRating
			}
			if review.Publisher.Name != "" {
				claim.Source = review.Publisher.Name
			}
		}

		claims = append(claims, claim)
	}

	return claims, nil
}

// Query returns the first n characters of text, used as the search query
func Query(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// redactKey strips the API key from transport errors, which embed the URL
func redactKey(err error, key string) error {
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}

// Package ingest turns a web page into text that can be analyzed.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Fetcher downloads pages and extracts their readable text
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker // nil when robots.txt is not consulted
}

// NewFetcher creates a fetcher. With respectRobots set, every fetch is
// checked against the host's robots.txt first.
func NewFetcher(client *http.Client, userAgent string, maxBytes int64, respectRobots bool) *Fetcher {
	f := &Fetcher{
		httpClient: client,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
	if respectRobots {
		f.robots = NewRobotsChecker(client, userAgent)
	}
	return f
}

// Page is a fetched page
type Page struct {
	URL         string // final URL after redirects
	ContentType string
	Text        string
}

// Fetch downloads rawURL and extracts its text. Plain-text responses are
// returned as-is.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	page := &Page{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
	}

	if strings.HasPrefix(page.ContentType, "text/plain") {
		page.Text = strings.TrimSpace(string(body))
	} else {
		text, err := ExtractText(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
		page.Text = text
	}

	if page.Text == "" {
		return nil, fmt.Errorf("no readable text at %s", page.URL)
	}
	return page, nil
}

// FetchText is Fetch returning only the text
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	page, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return page.Text, nil
}

// IsURL reports whether s looks like an http(s) URL rather than prose
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

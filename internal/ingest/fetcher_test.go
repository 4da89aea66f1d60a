package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestFetcher(respectRobots bool, maxBytes int64) *Fetcher {
	return NewFetcher(&http.Client{Timeout: 5 * time.Second}, "Aegis/0.1 (+https://example.com)", maxBytes, respectRobots)
}

func TestFetch_ExtractsHTMLText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "Aegis/") {
			t.Errorf("unexpected User-Agent %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, `<html><body><h1>Title</h1><p>The moon is made of cheese.</p></body></html>`)
	}))
	defer server.Close()

	text, err := newTestFetcher(false, 1<<20).FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if text != "Title\nThe moon is made of cheese." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestFetch_PlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "  just some <b>text</b>  \n")
	}))
	defer server.Close()

	page, err := newTestFetcher(false, 1<<20).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.Text != "just some <b>text</b>" {
		t.Errorf("unexpected text %q", page.Text)
	}
	if page.URL != server.URL {
		t.Errorf("expected URL %s, got %s", server.URL, page.URL)
	}
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher(false, 1<<20).Fetch(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFetch_MaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, strings.Repeat("a", 100))
	}))
	defer server.Close()

	text, err := newTestFetcher(false, 10).FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if len(text) != 10 {
		t.Errorf("expected body truncated to 10 bytes, got %d", len(text))
	}
}

func TestFetch_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><head><script>var x = 1;</script></head><body></body></html>`)
	}))
	defer server.Close()

	_, err := newTestFetcher(false, 1<<20).Fetch(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "no readable text") {
		t.Fatalf("expected no readable text error, got %v", err)
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	var pageHits int
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pageHits++
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "public content")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := newTestFetcher(true, 1<<20)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/private/page")
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("expected ErrDisallowed, got %v", err)
	}
	if pageHits != 0 {
		t.Errorf("disallowed page was fetched")
	}

	text, err := fetcher.FetchText(context.Background(), server.URL+"/public")
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if text != "public content" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestFetch_RobotsMissingAllows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "hello")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	text, err := newTestFetcher(true, 1<<20).FetchText(context.Background(), server.URL+"/anything")
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if text != "hello" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"  https://example.com  ", true},
		{"ftp://example.com", false},
		{"https://example.com is a site", false},
		{"The moon is made of cheese.", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.input); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

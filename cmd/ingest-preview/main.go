// Program ingest-preview shows the text Aegis would analyze for a set of
// pages, so extraction can be checked against real sites.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/aegis/internal/ingest"
	"github.com/ppiankov/aegis/internal/model"
	"github.com/ppiankov/aegis/internal/util"
)

const previewChars = 400

func main() {
	fmt.Println("=== Aegis Ingest Preview ===")
	fmt.Println()

	urls := os.Args[1:]
	if len(urls) == 0 {
		urls = []string{
			"https://en.wikipedia.org/wiki/Moon_landing_conspiracy_theories",
			"https://www.snopes.com/fact-check/",
		}
	}

	cfg := model.DefaultConfig()
	fetcher := ingest.NewFetcher(
		util.NewHTTPClient(30*time.Second, cfg.HTTP),
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.RespectRobots,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	failed := 0
	for _, url := range urls {
		fmt.Printf("Fetching: %s\n", url)
		fmt.Println(strings.Repeat("-", 60))

		page, err := fetcher.Fetch(ctx, url)
		if err != nil {
			failed++
			fmt.Printf("  ✗ %v\n\n", err)
			continue
		}

		paragraphs := strings.Count(page.Text, "\n") + 1
		fmt.Printf("  Final URL:     %s\n", page.URL)
		fmt.Printf("  Content-Type:  %s\n", page.ContentType)
		fmt.Printf("  Paragraphs:    %d\n", paragraphs)
		fmt.Printf("  Characters:    %d\n", len([]rune(page.Text)))
		fmt.Println()

		text := []rune(page.Text)
		if len(text) > previewChars {
			text = append(text[:previewChars], []rune("...")...)
		}
		for _, line := range strings.Split(string(text), "\n") {
			fmt.Printf("  | %s\n", line)
		}
		fmt.Println()
	}

	if failed > 0 {
		os.Exit(1)
	}
}

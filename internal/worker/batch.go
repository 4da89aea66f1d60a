package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/aegis/internal/dashboard"
	"github.com/ppiankov/aegis/internal/ingest"
	"github.com/ppiankov/aegis/internal/model"
	"go.uber.org/zap"
)

// TextFetcher turns a URL into text to analyze
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// AnalyzeJob submits one batch input for analysis. URL inputs are fetched
// first and their extracted text is submitted instead.
type AnalyzeJob struct {
	Index     int
	Input     string
	Submitter dashboard.Submitter
	Fetcher   TextFetcher
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	result := &AnalyzeResult{Index: j.Index, Input: j.Input}

	text := j.Input
	if ingest.IsURL(j.Input) {
		if j.Fetcher == nil {
			result.Error = errors.New("URL input requires a fetcher")
			return result
		}
		fetched, err := j.Fetcher.FetchText(ctx, strings.TrimSpace(j.Input))
		if err != nil {
			result.Error = fmt.Errorf("fetch %s: %w", j.Input, err)
			return result
		}
		text = fetched
	}

	report, err := j.Submitter.Submit(ctx, text).Unwrap()
	result.Report = report
	result.Error = err
	return result
}

// AnalyzeResult represents the result of an analysis job
type AnalyzeResult struct {
	Index  int
	Input  string
	Report *model.TrustReport
	Error  error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many inputs concurrently
type BatchProcessor struct {
	submitter   dashboard.Submitter
	fetcher     TextFetcher
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor. fetcher may be nil when
// no input is a URL.
func NewBatchProcessor(submitter dashboard.Submitter, fetcher TextFetcher, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		submitter:   submitter,
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessInputs analyzes inputs concurrently and returns results in input order
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []string) []*AnalyzeResult {
	if len(inputs) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, input := range inputs {
		job := &AnalyzeJob{
			Index:     i,
			Input:     input,
			Submitter: b.submitter,
			Fetcher:   b.fetcher,
		}
		if !pool.Submit(job) {
			b.logger.Warn("batch cancelled", zap.Int("submitted", i), zap.Int("total", len(inputs)))
			break
		}
	}

	results := pool.Wait()

	analyzed := make([]*AnalyzeResult, 0, len(results))
	for _, result := range results {
		r := result.(*AnalyzeResult)
		if r.Error != nil {
			b.logger.Warn("analysis failed", zap.Int("index", r.Index), zap.Error(r.Error))
		}
		analyzed = append(analyzed, r)
	}
	sort.Slice(analyzed, func(i, j int) bool { return analyzed[i].Index < analyzed[j].Index })

	return analyzed
}

// ProcessFile reads inputs from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return b.ProcessInputs(ctx, inputs), nil
}

// ReadInputsFromFile reads batch inputs from a file, one text or URL per line
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}

// ReportFile is the JSON document written for each batch input
type ReportFile struct {
	Input   string        `json:"input"`
	AIScore *float64      `json:"ai_score,omitempty"`
	Claims  []model.Claim `json:"claims,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// WriteReports writes <n>-report.json for every result, n counting from 1 in input order
func WriteReports(dir string, results []*AnalyzeResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, r := range results {
		doc := ReportFile{Input: r.Input}
		if r.Error != nil {
			doc.Error = r.Error.Error()
		}
		if r.Report != nil {
			score := r.Report.AIScore
			doc.AIScore = &score
			doc.Claims = r.Report.Claims
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report %d: %w", r.Index+1, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%d-report.json", r.Index+1))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Summary counts batch outcomes
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Flagged   int // reports scoring above the AI-likelihood threshold
}

// Summarize tallies batch results
func Summarize(results []*AnalyzeResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Error != nil || r.Report == nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		if dashboard.ScoreFlagged(r.Report.AIScore) {
			s.Flagged++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d analyzed, %d succeeded, %d failed, %d flagged as likely AI", s.Total, s.Succeeded, s.Failed, s.Flagged)
}

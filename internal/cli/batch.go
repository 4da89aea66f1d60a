package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/aegis/internal/dashboard"
	"github.com/ppiankov/aegis/internal/logging"
	"github.com/ppiankov/aegis/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchBackend string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many texts or URLs from a file in parallel",
	Long: `Batch submits every line of a file to a running Aegis service:
- One text or URL per line; blank lines and # comments are skipped
- Duplicate lines are analyzed once
- URL lines are fetched and their readable text is analyzed
- Each result is written to <n>-report.json in the output directory

Example:
  aegis batch posts.txt
  aegis batch posts.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config, 4)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./aegis-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchBackend, "backend", "", "base URL of the Aegis service (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if batchBackend != "" {
		cfg.Dashboard.BackendURL = batchBackend
	}
	workers := cfg.Concurrency.BatchWorkers
	if concurrency > 0 {
		workers = concurrency
	}

	logger, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Aegis Batch Analysis\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Service:      %s\n", cfg.Dashboard.BackendURL)
	fmt.Fprintf(stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(stderr, "\n")

	limiter := worker.NewLimiter(cfg.HTTP.RequestsPerSec, cfg.HTTP.Burst)
	client := dashboard.NewClient(cfg.Dashboard.BackendURL, cfg.Dashboard.Timeout, logger)
	processor := worker.NewBatchProcessor(client, newFetcher(cfg, limiter), workers, logger)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(stderr, "✗ %d: %s: %v\n", result.Index+1, preview(result.Input), result.Error)
			continue
		}
		fmt.Fprintf(stderr, "✓ %d: %s (%s AI-likelihood, %d fact-checks)\n",
			result.Index+1, preview(result.Input), dashboard.ScorePercent(result.Report.AIScore), len(result.Report.Claims))
	}

	if err := worker.WriteReports(outputDir, results); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  %s\n", worker.Summarize(results))
	fmt.Fprintf(stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(stderr, "\n")

	return nil
}

// preview shortens an input for one-line progress output
func preview(s string) string {
	const maxPreview = 60
	runes := []rune(s)
	if len(runes) <= maxPreview {
		return s
	}
	return string(runes[:maxPreview-3]) + "..."
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/aegis/internal/dashboard"
	"github.com/ppiankov/aegis/internal/logging"
	"github.com/ppiankov/aegis/internal/model"
	"github.com/ppiankov/aegis/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	analyzeFile    string
	analyzeURL     string
	analyzeJSON    bool
	analyzeBackend string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Generate a trust report for one text",
	Long: `Analyze submits one text to a running Aegis service and prints the
trust report. The text comes from the arguments, --file, --url or stdin.

Example:
  aegis analyze "The moon landing was staged in a studio."
  aegis analyze --file post.txt --json
  aegis analyze --url https://example.com/article
  pbpaste | aegis analyze`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read text from file")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "fetch a web page and analyze its text")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
	analyzeCmd.Flags().StringVar(&analyzeBackend, "backend", "", "base URL of the Aegis service (default from config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if analyzeBackend != "" {
		cfg.Dashboard.BackendURL = analyzeBackend
	}

	logger, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	var text string
	switch {
	case analyzeURL != "":
		limiter := worker.NewLimiter(cfg.HTTP.RequestsPerSec, cfg.HTTP.Burst)
		text, err = newFetcher(cfg, limiter).FetchText(ctx, analyzeURL)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", analyzeURL, err)
		}
	default:
		text, err = readDraft(args, analyzeFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	client := dashboard.NewClient(cfg.Dashboard.BackendURL, cfg.Dashboard.Timeout, logger)
	report, err := client.Submit(ctx, text).Unwrap()
	if err != nil {
		var failure *dashboard.Failure
		if errors.As(err, &failure) {
			return fmt.Errorf("%s (%w)", dashboard.NoticeMessage(failure), err)
		}
		return err
	}

	return printReport(cmd.OutOrStdout(), *report, analyzeJSON)
}

// readDraft takes text from args, then file, then stdin
func readDraft(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("no text given: pass it as an argument, with --file, --url or on stdin")
	}
	return string(data), nil
}

func printReport(w io.Writer, report model.TrustReport, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	_, err := fmt.Fprintln(w, dashboard.DefaultStyles().RenderReport(report, 80))
	return err
}

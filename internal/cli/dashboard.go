package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ppiankov/aegis/internal/dashboard"
	"github.com/ppiankov/aegis/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var dashboardBackend string

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the terminal trust-report dashboard",
	Long: `Dashboard opens an interactive view for submitting text to a running
Aegis service and reading the resulting trust report.

Keys:
  ctrl+s      generate trust report
  enter/esc   dismiss a notification
  ctrl+c      quit

Diagnostics are written to the log file (log.file, default ~/.aegis/dashboard.log).`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringVar(&dashboardBackend, "backend", "", "base URL of the Aegis service (default from config)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if dashboardBackend != "" {
		cfg.Dashboard.BackendURL = dashboardBackend
	}

	logger, err := logging.NewFile(cfg.Log, verbose, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := dashboard.NewClient(cfg.Dashboard.BackendURL, cfg.Dashboard.Timeout, logger)
	logger.Info("dashboard started", zap.String("endpoint", client.Endpoint()))

	ctx := cmd.Context()
	program := tea.NewProgram(dashboard.NewApp(ctx, client, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

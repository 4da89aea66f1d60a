package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/aegis/internal/logging"
	"github.com/ppiankov/aegis/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	serveAddr     string
	serveNoCache  bool
	serveDetector string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the /analyze service",
	Long: `Serve runs the HTTP service that the dashboard talks to:
- POST /analyze scores a text for AI likelihood and searches published fact-checks
- GET /healthz reports liveness

Example:
  aegis serve
  aegis serve --addr :9000 --detector openai
  WINSTONAI_API_KEY=... FACT_CHECK_API_KEY=... aegis serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	serveCmd.Flags().BoolVar(&serveNoCache, "no-cache", false, "disable result caching")
	serveCmd.Flags().StringVar(&serveDetector, "detector", "", "AI detector provider (winston, openai)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveDetector != "" {
		viper.Set("detector.provider", serveDetector)
	}
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveNoCache {
		cfg.Cache.Enabled = false
	}

	logger, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, err := newAnalysisService(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting aegis service",
		zap.String("version", Version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("detector", cfg.Detector.Provider),
		zap.Bool("cache", cfg.Cache.Enabled))

	return server.New(cfg.Server, svc, logger).Run(ctx)
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/aegis/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aegis",
	Short: "Aegis - Disinformation trust reports",
	Long: `Aegis produces trust reports for a piece of text: how likely it is
to be machine-generated, and which published fact-checks match it.

Run "aegis serve" to start the analysis service, then "aegis dashboard"
to submit drafts from the terminal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "aegis %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.aegis/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".aegis"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(viper.GetViper(), model.DefaultConfig())
	bindEnv(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so that AEGIS_* variables are
// picked up by AutomaticEnv
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.allow_origins", cfg.Server.AllowOrigins)
	v.SetDefault("server.min_text_length", cfg.Server.MinTextLength)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("dashboard.backend_url", cfg.Dashboard.BackendURL)
	v.SetDefault("dashboard.timeout", cfg.Dashboard.Timeout)

	v.SetDefault("detector.provider", cfg.Detector.Provider)
	v.SetDefault("detector.api_key", "")
	v.SetDefault("detector.base_url", cfg.Detector.BaseURL)
	v.SetDefault("detector.model", cfg.Detector.Model)
	v.SetDefault("detector.timeout", cfg.Detector.Timeout)

	v.SetDefault("factcheck.api_key", "")
	v.SetDefault("factcheck.base_url", cfg.FactCheck.BaseURL)
	v.SetDefault("factcheck.query_chars", cfg.FactCheck.QueryChars)
	v.SetDefault("factcheck.max_results", cfg.FactCheck.MaxResults)
	v.SetDefault("factcheck.timeout", cfg.FactCheck.Timeout)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	v.SetDefault("http.requests_per_sec", cfg.HTTP.RequestsPerSec)
	v.SetDefault("http.burst", cfg.HTTP.Burst)
	v.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	v.SetDefault("http.respect_robots", cfg.HTTP.RespectRobots)

	v.SetDefault("concurrency.batch_workers", cfg.Concurrency.BatchWorkers)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// bindEnv maps AEGIS_SECTION_KEY variables onto section.key, plus the
// provider-specific API key variables
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("AEGIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("factcheck.api_key", "AEGIS_FACTCHECK_API_KEY", "FACT_CHECK_API_KEY")
}

// loadConfig assembles the effective configuration
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Detector.APIKey == "" {
		cfg.Detector.APIKey = providerKey(cfg.Detector.Provider)
	}

	if cfg.Cache.Dir == "" || cfg.Log.File == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			if cfg.Cache.Dir == "" {
				cfg.Cache.Dir = filepath.Join(home, ".aegis", "cache")
			}
			if cfg.Log.File == "" {
				cfg.Log.File = filepath.Join(home, ".aegis", "dashboard.log")
			}
		}
	}

	return cfg, nil
}

// providerKey returns the conventional API key variable for a detector provider
func providerKey(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("WINSTONAI_API_KEY")
	}
}

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fecfetch/fecfetch/config"
	"github.com/fecfetch/fecfetch/openfec"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *openfec.Client

	appVersion   = "dev"
	appBuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fecfetch",
	Short: "A tool to query FEC campaign finance data",
	Long: `fecfetch is a CLI tool for querying the OpenFEC API: recent filings,
committee finances, candidate committees, itemized contributions and
committee-to-committee payments.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records build metadata injected by the linker.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if cfg.FEC.APIKey == config.DemoKey {
		logger.Warn().Msg("No API key configured, using DEMO_KEY with reduced rate limits. Set FEC_API_KEY or fec.api_key.")
	}

	client, err = openfec.NewClient(cfg.FEC.APIKey, logger,
		openfec.WithBaseURL(cfg.FEC.BaseURL),
		openfec.WithTimeout(time.Duration(cfg.FEC.Timeout)*time.Second),
		openfec.WithRetryAttempts(cfg.FEC.RetryAttempts),
		openfec.WithRetryBackoff(cfg.FEC.RetryBackoff),
		openfec.WithUserAgent("fecfetch/"+appVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to create OpenFEC client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when writing to a real terminal
	color := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

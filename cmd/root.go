package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/dqaudit/internal/config"
	"github.com/KaramelBytes/dqaudit/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	flagLogLevel string

	// Loaded configuration; nil when loading failed (see cfgErr).
	cfg    *cfgpkg.Global
	cfgErr error

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dqaudit",
	Short: "dqaudit: data quality audit for policy exports",
	Long: `dqaudit inspects a spreadsheet export of insurance policies (one header row,
fixed column positions) and prints a quality report: distinct salespeople,
companies, policy and customer types, national ID length distribution, a
customer sample, and counts of missing or placeholder values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if cfg != nil {
			level = cfg.LogLevel
		}
		if cmd.Flags().Changed("log-level") {
			level = flagLogLevel
		}
		l, err := logging.New(level, debug)
		if err != nil {
			return err
		}
		logger = l
		if cfgErr != nil {
			logger.Warn("failed to load config", zap.Error(cfgErr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dqaudit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal here: commands that need config report cfgErr themselves.
		cfg, cfgErr = nil, err
		return
	}
	cfg, cfgErr = c, nil
}

// requireConfig returns the loaded configuration or the load error.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		if cfgErr != nil {
			return nil, fmt.Errorf("load config: %w", cfgErr)
		}
		return cfgpkg.Defaults(), nil
	}
	return cfg, nil
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/ioprof/internal/config"
	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/MeKo-Tech/ioprof/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Error from the last configuration load, returned before any command runs.
	configErr error
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ioprof",
	Short: "Lightweight I/O profiler for request-scoped operation timing",
	Long: `ioprof accumulates how often and for how long a program performs categorized
I/O operations (SQL queries, file reads, cache lookups) and reports the share of
wall time spent in each category next to the unmetered remainder.

This tool provides:
- A replay of a sample run with a rendered report
- SQL statement normalization as used for report keys
- An HTTP server exposing live reports, metrics and a profiled demo endpoint
- Benchmarks of the profiler's own overhead

Examples:
  ioprof demo --scale 0.1 --format html --output report.html
  ioprof normalize "update users set name = ? where id = ?"
  ioprof serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.PersistentFlags().GetBool("version")
		if v {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ioprof version "+version.String())
			return nil
		}
		// If no version flag, show help
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	// Initialize configuration loader
	cobra.OnInitialize(initConfig)

	// Global flags that apply to all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is search in ., $HOME, $HOME/.config/ioprof, /etc/ioprof)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-profiling", false, "start with the profiler switched off")

	// Version flag for tests and usability
	rootCmd.PersistentFlags().Bool("version", false, "print version information and exit")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Initialize configuration if not already done
		if globalConfig == nil && configErr == nil {
			initConfig()
		}
		if configErr != nil {
			return configErr
		}
		cfg := GetConfig()

		setupLogging(os.Stderr, cfg.LogLevel, cfg.Verbose)

		noProfiling, _ := cmd.Flags().GetBool("no-profiling")
		if cfg.Profiling.Enabled && !noProfiling {
			profiler.Enable()
		} else {
			profiler.Disable()
		}
		return nil
	}
}

// setupLogging installs a JSON slog handler writing to w.
func setupLogging(w io.Writer, level string, verbose bool) {
	// Determine log level from config
	var logLevel slog.Level

	// Check verbose flag first for backward compatibility
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		switch level {
		case "debug":
			logLevel = slog.LevelDebug
		case "info":
			logLevel = slog.LevelInfo
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
	}

	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()

	if cfgFile != "" {
		// Use config file from the flag
		globalConfig, configErr = configLoader.LoadWithFile(cfgFile)
	} else {
		// Search for config in default locations
		globalConfig, configErr = configLoader.Load()
	}

	if configErr != nil {
		configErr = fmt.Errorf("error loading configuration: %w", configErr)
	}
}

// GetConfig returns the global configuration.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}

	// Reload configuration to ensure CLI flags are included
	// This is necessary because flag binding happens after initial config loading
	cfg, err := GetConfigLoader().Reload()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling updated configuration: %v\n", err)
		return globalConfig // Return the original config if unmarshal fails
	}

	return cfg
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}

// writeOutput prints content or writes it to outputFile when one is given.
func writeOutput(cmd *cobra.Command, content, outputFile string) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(content), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile); err != nil {
			return err
		}
		return nil
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), content); err != nil {
		return fmt.Errorf("failed to write final output: %w", err)
	}
	return nil
}

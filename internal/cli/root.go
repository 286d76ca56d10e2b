// Package cli provides the command-line interface for tilestack.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilestack-labs/tilestack/internal/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tilestack",
		Short: "tilestack - on-demand raster tile compositing server",
		Long: `tilestack serves RGBA map tiles assembled on demand from independently
stored raster datasets. Four bands are fetched concurrently, stretched into
8-bit channels, composited, and returned as a PNG.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: tilestack.yaml)")
	rootCmd.PersistentFlags().Int("port", config.DefaultPort, "HTTP listen port")
	rootCmd.PersistentFlags().String("driver", config.DefaultDriver, "raster driver provider")
	rootCmd.PersistentFlags().String("driver-path", "", "driver catalog path or DSN")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig resolves the effective configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cfgFile, cmd.Root().PersistentFlags())
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

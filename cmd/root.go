package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/pkg/config"
	"github.com/killallgit/minewatch-api/pkg/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minewatch-api",
	Short: "MineWatch safety violation API server",
	Long: `MineWatch API - safety violation detection for underground mining video

Uploads are stored, cataloged and scanned for safety violations. A violation
label and timestamp encoded in the file name is trusted directly, otherwise
sampled frames are classified by a vision model or scored geometrically from
detector output.

Features:
  • Video upload and catalog
  • Filename, prompt and geometric violation detection
  • Violation browsing, CSV export and live event stream
  • Dataset annotations that steer classification`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig loads the configuration for commands that need it
func loadConfig() {
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// appConfig returns the loaded configuration
func appConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, err
	}
	return config.GetConfig()
}

// newLogger builds a logger from the persistent flags, falling back to the
// logging section of the configuration for flags left at their defaults.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if f := cmd.Flags().Lookup("log-level"); f != nil && (f.Changed || level == "") {
		level = f.Value.String()
	}

	format := cfg.Logging.Format
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		format = "json"
	} else if cmd.Flags().Changed("json-logs") {
		format = "console"
	}

	return logging.New(level, format)
}

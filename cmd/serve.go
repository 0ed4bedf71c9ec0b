package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/api"
	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/internal/database"
	"github.com/killallgit/minewatch-api/internal/services/analysis"
	"github.com/killallgit/minewatch-api/internal/services/cleanup"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the MineWatch API server with the configured settings.

The server accepts video uploads, runs violation analysis and serves the
video catalog, recorded violations and datasets.

Example:
  minewatch-api serve
  minewatch-api serve --port 9090
  minewatch-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := appConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.InitializeFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	deps, err := api.NewDependencies(cfg, db, logger)
	if err != nil {
		return err
	}
	deps.Build = buildInfo()

	srv, err := api.NewServer(deps)
	if err != nil {
		return err
	}
	if err := srv.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize routes: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Storage.SpoolSweepInterval > 0 {
		sweeper := cleanup.NewService(cfg.Storage.TempDir, analysis.SpoolPrefix,
			cfg.Storage.SpoolMaxAge, cfg.Storage.SpoolSweepInterval, logger.Named("cleanup"))
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	logger.Info("server started",
		zap.String("addr", srv.Addr()),
		zap.String("version", Version),
		zap.String("strategy", cfg.Analysis.Strategy))

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case runErr = <-serverErr:
		logger.Error("server stopped unexpectedly", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server gracefully stopped")
	return runErr
}

func buildInfo() types.BuildInfo {
	return types.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
	}
}

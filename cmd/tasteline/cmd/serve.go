package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasteline/tasteline/internal/api"
	"github.com/tasteline/tasteline/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port int
	var host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP search API",
		Long: `Start the HTTP search API server.

Missing search indexes are built on startup; an existing index is
reused as-is (run 'tasteline build' to refresh after corpus changes).

Endpoints:
  GET /search?query=...&method=simple|bm25|embedding&limit=N&include_scores=true
  GET /corpus-info
  GET /methods
  GET /healthz`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides config)")

	return cmd
}

func runServe(ctx context.Context, host string, port int) error {
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	logCfg := logging.DefaultConfig()
	logCfg.Level = a.cfg.Server.LogLevel
	logger, logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCleanup()

	if err := a.coordinator().EnsureReady(ctx); err != nil {
		return fmt.Errorf("failed to prepare search indexes: %w", err)
	}

	if host == "" {
		host = a.cfg.Server.Host
	}
	if port == 0 {
		port = a.cfg.Server.Port
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.New(a.engine, logger).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-quit:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// internal/app/bootstrap/run.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/app/system/workers"
	"go.uber.org/zap"
)

// Run executes the service lifecycle:
//
//	load config → logger → validate → connect DB → ensure schema →
//	startup → build handler → start workers → serve → graceful shutdown
//
// It returns when ctx is cancelled (after draining in-flight requests) or
// when any step fails.
func Run(ctx context.Context, args []string) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := ValidateConfig(cfg, logger); err != nil {
		return err
	}

	deps, err := ConnectDB(ctx, cfg, logger)
	if err != nil {
		logger.Error("database connection failed", zap.Error(err))
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = Shutdown(shutdownCtx, deps, logger)
	}()

	if err := EnsureSchema(ctx, deps, logger); err != nil {
		return err
	}

	Startup(cfg, logger)

	handler, err := BuildHandler(cfg, deps, logger)
	if err != nil {
		return err
	}

	cleanup := workers.NewResetTokenCleanup(userstore.New(deps.MongoDatabase), logger, cfg.ResetCleanupInterval)
	cleanup.Start()
	defer cleanup.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

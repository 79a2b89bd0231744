// internal/app/bootstrap/startup.go
package bootstrap

import (
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the DB connection
// and schema setup are complete, but before the HTTP handler is built.
func Startup(cfg AppConfig, logger *zap.Logger) {
	timeouts.Configure(timeouts.Config{
		Ping:   cfg.TimeoutPing,
		Short:  cfg.TimeoutShort,
		Medium: cfg.TimeoutMedium,
	})
	logger.Debug("timeouts configured",
		zap.Duration("ping", timeouts.Ping()),
		zap.Duration("short", timeouts.Short()),
		zap.Duration("medium", timeouts.Medium()),
	)
}

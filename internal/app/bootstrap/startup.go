// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/system/timeouts"
)

// Startup runs one-time application initialization after the corpus is
// opened and its partitions exist, but before the HTTP handler is
// built. Workify uses it to install the configured I/O budgets so every
// handler picks them up.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.TimeoutPing,
		Short: appCfg.TimeoutShort,
		Scan:  appCfg.TimeoutScan,
		Long:  appCfg.TimeoutLong,
	})
	logger.Info("timeouts configured",
		zap.Duration("ping", timeouts.Ping()),
		zap.Duration("short", timeouts.Short()),
		zap.Duration("scan", timeouts.Scan()),
		zap.Duration("long", timeouts.Long()),
	)
	return nil
}

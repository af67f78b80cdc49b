// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/system/timeouts"
)

// devPepper is the out-of-the-box pepper. It is only acceptable in
// development; ValidateConfig rejects it in production.
const devPepper = "dev-only-pepper-change-me-0123456789"

// minPepperLen is the shortest pepper accepted in production.
const minPepperLen = 16

// appConfigKeys defines the configuration keys for Workify.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: corpus_root, pepper, etc.
//   - Environment variables: WORKIFY_CORPUS_ROOT, WORKIFY_PEPPER, etc.
//   - Command-line flags: --corpus_root, --pepper, etc.
var appConfigKeys = []config.AppKey{
	{Name: "corpus_root", Default: "./data", Desc: "Root directory of the account corpus"},
	{Name: "pepper", Default: devPepper, Desc: "Deployment-wide password pepper (must be strong in production)"},

	// Argon2id cost settings. Defaults match the profile the corpus was
	// written with; zero disables an override.
	{Name: "hash_time", Default: 0, Desc: "Argon2id time cost (passes over memory; 0 = default)"},
	{Name: "hash_memory_kib", Default: 0, Desc: "Argon2id memory cost in KiB (0 = default)"},
	{Name: "hash_parallelism", Default: 0, Desc: "Argon2id parallelism (0 = default)"},

	// Corpus I/O budgets.
	{Name: "timeout_ping", Default: "2s", Desc: "Health check budget"},
	{Name: "timeout_short", Default: "5s", Desc: "Single-document load/save budget"},
	{Name: "timeout_scan", Default: "15s", Desc: "Full-corpus directory walk budget (token/username lookups)"},
	{Name: "timeout_long", Default: "30s", Desc: "Multi-document and shared-collection rewrite budget"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before the corpus is opened or handlers are
// built. WAFFLE's config.LoadWithAppConfig handles .env files, config
// files, environment variables (WAFFLE_* for core, WORKIFY_* for app),
// and command-line flags, merged with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WORKIFY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		CorpusRoot: appValues.String("corpus_root"),
		Pepper:     appValues.String("pepper"),

		HashTime:        appValues.Int("hash_time"),
		HashMemoryKiB:   appValues.Int("hash_memory_kib"),
		HashParallelism: appValues.Int("hash_parallelism"),

		TimeoutPing:  appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort: appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutScan:  appValues.Duration("timeout_scan", timeouts.DefaultScan),
		TimeoutLong:  appValues.Duration("timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Workify insists on a usable corpus root, sane hash costs, and a real
// pepper in production: shipping the dev pepper would leave every
// stored hash one corpus leak away from an offline attack.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.CorpusRoot == "" {
		return fmt.Errorf("corpus_root must not be empty")
	}
	if appCfg.HashTime < 0 || appCfg.HashMemoryKiB < 0 || appCfg.HashParallelism < 0 {
		return fmt.Errorf("argon2 cost settings must not be negative")
	}
	if appCfg.HashParallelism > 255 {
		return fmt.Errorf("hash_parallelism must fit in a byte, got %d", appCfg.HashParallelism)
	}

	if coreCfg.Env == "prod" {
		if appCfg.Pepper == devPepper {
			logger.Error("refusing to start with the development pepper in production")
			return fmt.Errorf("pepper must be changed from its development default in production")
		}
		if len(appCfg.Pepper) < minPepperLen {
			return fmt.Errorf("pepper must be at least %d characters in production", minPepperLen)
		}
	}

	return nil
}

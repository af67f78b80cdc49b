// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/applications"
	"github.com/workifyhq/workify/internal/app/store/document"
	"github.com/workifyhq/workify/internal/app/store/events"
	"github.com/workifyhq/workify/internal/app/store/social"
	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/secrets"
	"github.com/workifyhq/workify/internal/domain/models"
)

// ConnectDB opens the corpus and builds the store layers over it. The
// corpus is a directory tree, so "connecting" means resolving the root,
// creating it if missing, and wiring the document store, hasher, and
// domain stores together.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	root, err := filepath.Abs(appCfg.CorpusRoot)
	if err != nil {
		return DBDeps{}, fmt.Errorf("resolve corpus root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return DBDeps{}, fmt.Errorf("create corpus root: %w", err)
	}

	docs := document.New(root)
	hasher := secrets.NewHasher(appCfg.Pepper, secrets.Params{
		Time:      uint32(appCfg.HashTime),
		MemoryKiB: uint32(appCfg.HashMemoryKiB),
		Threads:   uint8(appCfg.HashParallelism),
	})
	userStore := users.New(docs, hasher, logger)

	deps := DBDeps{
		Docs:         docs,
		Users:        userStore,
		Social:       social.New(userStore, logger),
		Applications: applications.New(docs, logger),
		Events:       events.New(docs, logger),
	}

	logger.Info("corpus opened", zap.String("root", root))
	return deps, nil
}

// EnsureSchema creates the role partition directories under the corpus
// root so directory scans have something to walk even before the first
// registration.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	for _, role := range models.AllRoles {
		dir := filepath.Join(deps.Docs.Root(), role.Dir())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s partition: %w", role.Dir(), err)
		}
	}
	logger.Info("corpus partitions ready")
	return nil
}

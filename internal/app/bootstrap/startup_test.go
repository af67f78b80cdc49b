package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/domain/models"
	"github.com/workifyhq/workify/internal/testutil"
)

func testAppConfig(t *testing.T) AppConfig {
	t.Helper()
	return AppConfig{
		CorpusRoot: t.TempDir(),
		Pepper:     testutil.TestPepper,

		// Cheap costs so the credential round-trip below stays fast.
		HashTime:        1,
		HashMemoryKiB:   1024,
		HashParallelism: 1,
	}
}

func TestConnectDB_WiresStores(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	appCfg := testAppConfig(t)

	deps, err := ConnectDB(ctx, &config.CoreConfig{}, appCfg, zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	if deps.Docs == nil || deps.Users == nil || deps.Social == nil ||
		deps.Applications == nil || deps.Events == nil {
		t.Fatalf("ConnectDB left a nil store: %+v", deps)
	}

	// The wired user store can mint and resolve a real account.
	u, err := deps.Users.Register(ctx, users.RegisterParams{
		Username: "alice",
		Role:     models.RoleVolunteer,
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register through wired store failed: %v", err)
	}
	found, err := deps.Users.FindByToken(ctx, u.Token)
	if err != nil {
		t.Fatalf("find by token failed: %v", err)
	}
	if found.Username != "alice" {
		t.Errorf("found username: got %q, want alice", found.Username)
	}
}

func TestConnectDB_CreatesMissingRoot(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	appCfg := testAppConfig(t)
	appCfg.CorpusRoot = filepath.Join(appCfg.CorpusRoot, "nested", "corpus")

	deps, err := ConnectDB(ctx, &config.CoreConfig{}, appCfg, zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	if _, err := os.Stat(deps.Docs.Root()); err != nil {
		t.Errorf("corpus root not created: %v", err)
	}
}

func TestEnsureSchema_CreatesPartitions(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	appCfg := testAppConfig(t)
	coreCfg := &config.CoreConfig{}

	deps, err := ConnectDB(ctx, coreCfg, appCfg, zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	if err := EnsureSchema(ctx, coreCfg, appCfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	for _, dir := range []string{"Volunteer", "Organizer"} {
		info, err := os.Stat(filepath.Join(deps.Docs.Root(), dir))
		if err != nil {
			t.Errorf("%s partition missing: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s partition is not a directory", dir)
		}
	}
}

func TestValidateConfig_PepperPolicy(t *testing.T) {
	log := zap.NewNop()

	cases := map[string]struct {
		env     string
		pepper  string
		wantErr bool
	}{
		"dev default pepper in dev":  {"dev", devPepper, false},
		"dev default pepper in prod": {"prod", devPepper, true},
		"short pepper in prod":       {"prod", "tiny", true},
		"strong pepper in prod":      {"prod", "a-long-and-random-pepper-value", false},
		"short pepper outside prod":  {"dev", "tiny", false},
	}
	for name, tc := range cases {
		appCfg := AppConfig{CorpusRoot: "./data", Pepper: tc.pepper}
		err := ValidateConfig(&config.CoreConfig{Env: tc.env}, appCfg, log)
		if gotErr := err != nil; gotErr != tc.wantErr {
			t.Errorf("%s: got err %v, want error=%v", name, err, tc.wantErr)
		}
	}
}

func TestValidateConfig_Costs(t *testing.T) {
	log := zap.NewNop()
	core := &config.CoreConfig{Env: "dev"}

	if err := ValidateConfig(core, AppConfig{CorpusRoot: "./data", Pepper: devPepper, HashTime: -1}, log); err == nil {
		t.Error("negative hash_time accepted")
	}
	if err := ValidateConfig(core, AppConfig{CorpusRoot: "./data", Pepper: devPepper, HashParallelism: 300}, log); err == nil {
		t.Error("oversized hash_parallelism accepted")
	}
	if err := ValidateConfig(core, AppConfig{Pepper: devPepper}, log); err == nil {
		t.Error("empty corpus_root accepted")
	}
}

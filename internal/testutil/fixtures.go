// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/document"
	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/secrets"
	"github.com/workifyhq/workify/internal/domain/models"
)

// TestPepper is the pepper every test corpus hashes with.
const TestPepper = "test-pepper"

// CheapHashParams keeps argon2 fast in tests. Cost settings do not
// change any behavior under test; each stored hash carries its own.
var CheapHashParams = secrets.Params{Time: 1, MemoryKiB: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

// TestContext returns a context with a generous timeout for corpus
// operations in tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// Corpus is a throwaway on-disk corpus rooted in a test temp dir,
// removed automatically when the test finishes.
type Corpus struct {
	Root  string
	Docs  *document.Store
	Users *users.Store
	t     *testing.T
}

// NewCorpus creates a fresh corpus for one test.
func NewCorpus(t *testing.T) *Corpus {
	t.Helper()
	root := t.TempDir()
	docs := document.New(root)
	hasher := secrets.NewHasher(TestPepper, CheapHashParams)
	return &Corpus{
		Root:  root,
		Docs:  docs,
		Users: users.New(docs, hasher, zap.NewNop()),
		t:     t,
	}
}

// CreateUser registers an account with the given password and a stock
// profile, failing the test on error.
func (c *Corpus) CreateUser(ctx context.Context, username string, role models.Role, password string) *models.User {
	c.t.Helper()

	u, err := c.Users.Register(ctx, users.RegisterParams{
		Username: username,
		Role:     role,
		Password: password,
		Profile: users.Profile{
			Name:    "Test",
			Surname: username,
		},
	})
	if err != nil {
		c.t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return u
}

// CreateVolunteer registers a volunteer account with a default password.
func (c *Corpus) CreateVolunteer(ctx context.Context, username string) *models.User {
	c.t.Helper()
	return c.CreateUser(ctx, username, models.RoleVolunteer, "password123")
}

// CreateOrganizer registers an organizer account with a default password.
func (c *Corpus) CreateOrganizer(ctx context.Context, username string) *models.User {
	c.t.Helper()
	return c.CreateUser(ctx, username, models.RoleOrganizer, "password123")
}

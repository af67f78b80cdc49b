// internal/app/store/users/userstore.go
package users

// Terminology: Account Documents
//   - Every account lives in exactly one file, <root>/<Role>/<username>/user_data.json.
//   - The username doubles as the primary key and the directory name.
//   - All cross-account references (followers, ratings, assignments) are
//     stored as username strings and resolved on demand by scanning.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/document"
	"github.com/workifyhq/workify/internal/app/system/normalize"
	"github.com/workifyhq/workify/internal/app/system/secrets"
	"github.com/workifyhq/workify/internal/domain/models"
)

// UserDataFile is the fixed file name of an account document inside its
// corpus directory.
const UserDataFile = "user_data.json"

var (
	// ErrNotFound is returned when no account matches a lookup.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned by Register when an account with the
	// same username already exists in any role partition.
	ErrUsernameTaken = errors.New("username already taken")
)

// Store manages account documents in the corpus. It combines per-account
// operations (see Manager) with the corpus-wide directory scans that
// resolve accounts by token or username.
type Store struct {
	docs   *document.Store
	hasher *secrets.Hasher
	log    *zap.Logger
}

// New creates a user store over the given document store and hasher.
func New(docs *document.Store, hasher *secrets.Hasher, logger *zap.Logger) *Store {
	return &Store{docs: docs, hasher: hasher, log: logger}
}

// Path returns the document path for an account.
func (s *Store) Path(username string, role models.Role) string {
	return filepath.Join(s.docs.Root(), role.Dir(), username, UserDataFile)
}

// Profile is the caller-supplied portion of a new account.
type Profile struct {
	Name            string
	Surname         string
	Email           string
	AvatarURL       string
	Specializations []string // organizers
	Skills          []string // volunteers
}

// RegisterParams collects everything needed to create an account.
type RegisterParams struct {
	Username string
	Role     models.Role
	Password string
	Profile  Profile
}

// Register creates a new account after checking that the username is not
// already present in either role partition. The check and the write are
// not atomic: two concurrent registrations for the same name can still
// race, in which case the last write wins (the store's documented
// overwrite semantics).
func (s *Store) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	p.Username = normalize.Username(p.Username)
	if p.Username == "" {
		return nil, fmt.Errorf("register: empty username")
	}
	if !p.Role.Valid() {
		return nil, fmt.Errorf("register: invalid role %q", p.Role)
	}

	_, err := s.FindByUsername(ctx, p.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return s.Manager(p.Username, p.Role).Create(ctx, p.Password, p.Profile)
}

// Manager returns the per-account view for an account. The account does
// not have to exist yet; Create is the first write.
func (s *Store) Manager(username string, role models.Role) *Manager {
	return &Manager{s: s, username: normalize.Username(username), role: role}
}

// Mutate runs a locked load-mutate-save cycle on one account document.
// fn sees the freshly loaded document and edits it in place; the result
// is persisted before Mutate returns. Missing accounts return
// ErrNotFound without calling fn.
func (s *Store) Mutate(ctx context.Context, username string, role models.Role, fn func(*models.User)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.Path(username, role)
	defer s.docs.Lock(path)()

	var u models.User
	found, err := s.docs.Load(path, &u)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	return s.docs.Save(path, &u)
}

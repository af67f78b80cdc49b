// internal/app/store/users/manager.go
package users

import (
	"context"
	"fmt"
	"time"

	"github.com/workifyhq/workify/internal/app/system/normalize"
	"github.com/workifyhq/workify/internal/app/system/secrets"
	"github.com/workifyhq/workify/internal/domain/models"
)

// Manager is the per-account view of the Store: every method operates on
// one account document at a fixed path. Managers are cheap to construct
// and hold no state beyond the binding, so two Managers pointed at the
// same account see each other's writes only through the file.
type Manager struct {
	s        *Store
	username string
	role     models.Role
}

// Username returns the account the manager is bound to.
func (m *Manager) Username() string { return m.username }

// Role returns the role partition the manager is bound to.
func (m *Manager) Role() models.Role { return m.role }

// Path returns the account's document path.
func (m *Manager) Path() string { return m.s.Path(m.username, m.role) }

// Create writes the account document for the first time: fresh salt,
// hashed password, fresh bearer token, empty relation lists. A document
// already at the path is overwritten; uniqueness is the caller's job
// (Register checks it).
func (m *Manager) Create(ctx context.Context, password string, p Profile) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	salt, err := secrets.NewSalt()
	if err != nil {
		return nil, err
	}
	hash, err := m.s.hasher.Hash(password, salt)
	if err != nil {
		return nil, err
	}
	token, err := secrets.NewToken(m.role.TokenPrefix())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := models.User{
		Username:     m.username,
		Role:         m.role,
		Name:         normalize.Name(p.Name),
		Surname:      normalize.Name(p.Surname),
		Email:        normalize.Email(p.Email),
		PasswordHash: hash,
		Salt:         salt,
		AvatarURL:    p.AvatarURL,
		Token:        token,
		Events:       []string{},
		Rating:       []models.RatingEntry{},
		Followers:    []string{},
		Following:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch m.role {
	case models.RoleVolunteer:
		u.Skills = p.Skills
		u.IsAvailable = true
	case models.RoleOrganizer:
		u.Specializations = p.Specializations
	}

	path := m.Path()
	defer m.s.docs.Lock(path)()
	if err := m.s.docs.Save(path, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Profile loads the account document. Missing accounts return
// ErrNotFound.
func (m *Manager) Profile(ctx context.Context) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var u models.User
	found, err := m.s.docs.Load(m.Path(), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &u, nil
}

// Verify reports whether password matches the stored credentials. Any
// failure (missing account, corrupt hash, wrong password) reads as
// false so call sites stay branch-free.
func (m *Manager) Verify(ctx context.Context, password string) bool {
	u, err := m.Profile(ctx)
	if err != nil {
		return false
	}
	return m.s.hasher.Verify(u.PasswordHash, password, u.Salt)
}

// VerifyToken reports whether token is the account's current bearer
// token.
func (m *Manager) VerifyToken(ctx context.Context, token string) bool {
	u, err := m.Profile(ctx)
	if err != nil {
		return false
	}
	return token != "" && u.Token == token
}

// ChangePassword verifies the old password and, on success, persists a
// new salt and hash. A wrong old password returns (false, nil) and
// leaves the document untouched. The salt is rotated on every change so
// a hash is never reused across secrets.
func (m *Manager) ChangePassword(ctx context.Context, oldPassword, newPassword string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path := m.Path()
	defer m.s.docs.Lock(path)()

	var u models.User
	found, err := m.s.docs.Load(path, &u)
	if err != nil {
		return false, err
	}
	if !found {
		return false, ErrNotFound
	}
	if !m.s.hasher.Verify(u.PasswordHash, oldPassword, u.Salt) {
		return false, nil
	}

	salt, err := secrets.NewSalt()
	if err != nil {
		return false, err
	}
	hash, err := m.s.hasher.Hash(newPassword, salt)
	if err != nil {
		return false, err
	}
	u.Salt = salt
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	if err := m.s.docs.Save(path, &u); err != nil {
		return false, err
	}
	return true, nil
}

// RotateToken mints a fresh bearer token and persists it, invalidating
// the previous one. Call it only after the caller's credentials have
// been verified.
func (m *Manager) RotateToken(ctx context.Context) (string, error) {
	token, err := secrets.NewToken(m.role.TokenPrefix())
	if err != nil {
		return "", err
	}
	if err := m.s.Mutate(ctx, m.username, m.role, func(u *models.User) {
		u.Token = token
	}); err != nil {
		return "", err
	}
	return token, nil
}

// ProfilePatch enumerates the mutable profile fields. Nil pointers mean
// "leave unchanged"; non-nil pointers overwrite, including with empty
// values. Credentials and relation lists are deliberately absent — they
// have their own operations.
type ProfilePatch struct {
	Name            *string
	Surname         *string
	Email           *string
	AvatarURL       *string
	Specializations *[]string
	Skills          *[]string
	IsAvailable     *bool
}

// UpdateProfile merges the patch into the stored document with a locked
// load-merge-save.
func (m *Manager) UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.User, error) {
	var updated models.User
	err := m.s.Mutate(ctx, m.username, m.role, func(u *models.User) {
		if patch.Name != nil {
			u.Name = normalize.Name(*patch.Name)
		}
		if patch.Surname != nil {
			u.Surname = normalize.Name(*patch.Surname)
		}
		if patch.Email != nil {
			u.Email = normalize.Email(*patch.Email)
		}
		if patch.AvatarURL != nil {
			u.AvatarURL = *patch.AvatarURL
		}
		if patch.Specializations != nil {
			u.Specializations = *patch.Specializations
		}
		if patch.Skills != nil {
			u.Skills = *patch.Skills
		}
		if patch.IsAvailable != nil {
			u.IsAvailable = *patch.IsAvailable
		}
		updated = *u
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &updated, nil
}

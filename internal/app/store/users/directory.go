// internal/app/store/users/directory.go
package users

import (
	"context"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/system/metrics"
	"github.com/workifyhq/workify/internal/domain/models"
)

// The directory "index" is a full-corpus scan: every lookup walks every
// account document under the corpus root, decodes it, and compares the
// target field. Cost is O(total accounts) per lookup and the first match
// in traversal order wins. That is the storage contract — there is no
// maintained secondary index to fall out of sync.

// FindByToken resolves the account whose current bearer token equals
// token. Unknown tokens return ErrNotFound.
func (s *Store) FindByToken(ctx context.Context, token string) (*models.User, error) {
	metrics.DirectoryScans.WithLabelValues("token").Inc()
	if token == "" {
		return nil, ErrNotFound
	}
	return s.scan(ctx, func(u *models.User) bool {
		return u.Token == token
	})
}

// FindByUsername resolves an account by its exact username.
func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	metrics.DirectoryScans.WithLabelValues("username").Inc()
	if username == "" {
		return nil, ErrNotFound
	}
	return s.scan(ctx, func(u *models.User) bool {
		return u.Username == username
	})
}

// scan walks the corpus and returns the first account for which match
// reports true. Unreadable or malformed documents are skipped with a
// warning; they must not take the whole directory down.
func (s *Store) scan(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	var found *models.User

	err := filepath.WalkDir(s.docs.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A vanished or unreadable directory entry; keep walking.
			s.log.Warn("directory scan: skipping entry",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || d.Name() != UserDataFile {
			return nil
		}

		var u models.User
		ok, err := s.docs.Load(path, &u)
		if err != nil || !ok {
			metrics.SkippedDocuments.Inc()
			s.log.Warn("directory scan: skipping malformed document",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		metrics.ScannedDocuments.Inc()

		// The document's role field can drift from its partition; the
		// directory on disk is authoritative, as it decides the path.
		if role := models.RoleFromDir(filepath.Dir(filepath.Dir(path))); role != "" {
			u.Role = role
		}
		if match(&u) {
			found = &u
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

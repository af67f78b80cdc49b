// internal/app/store/applications/store.go
package applications

// Applications live in one shared collection document,
// <root>/applications.json, not one file per application. Every
// operation is a locked load of the whole collection, a linear scan,
// and (for mutations) a full rewrite.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/document"
	"github.com/workifyhq/workify/internal/app/system/normalize"
	"github.com/workifyhq/workify/internal/domain/models"
)

// CollectionFile is the collection document's name under the corpus root.
const CollectionFile = "applications.json"

// ErrNotFound is returned when no application has the requested id.
var ErrNotFound = errors.New("application not found")

// collection is the on-disk shape of the shared document.
type collection struct {
	Applications []models.Application `json:"applications"`
}

// Store manages the shared application collection.
type Store struct {
	docs *document.Store
	path string
	log  *zap.Logger
}

// New creates an application store over the document store's corpus.
func New(docs *document.Store, logger *zap.Logger) *Store {
	return &Store{
		docs: docs,
		path: filepath.Join(docs.Root(), CollectionFile),
		log:  logger,
	}
}

// Create appends a new application. The store assigns the id
// (max existing + 1), the creation time, the default status, and an
// empty volunteer list; whatever the caller put in those fields is
// ignored.
func (s *Store) Create(ctx context.Context, app models.Application) (models.Application, error) {
	if err := ctx.Err(); err != nil {
		return models.Application{}, err
	}
	defer s.docs.Lock(s.path)()

	col, err := s.load()
	if err != nil {
		return models.Application{}, err
	}

	app.ID = lastID(col.Applications) + 1
	app.CreatedAt = time.Now().UTC()
	app.Volunteers = []string{}
	if app.Status = normalize.Status(app.Status); app.Status == "" {
		app.Status = models.ApplicationStatusOpen
	}
	if app.Skills == nil {
		app.Skills = []string{}
	}

	col.Applications = append(col.Applications, app)
	if err := s.docs.Save(s.path, col); err != nil {
		return models.Application{}, err
	}
	return app, nil
}

// All returns every application in the collection.
func (s *Store) All(ctx context.Context) ([]models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	col, err := s.load()
	if err != nil {
		return nil, err
	}
	return col.Applications, nil
}

// Get returns the application with the given id.
func (s *Store) Get(ctx context.Context, id int) (models.Application, error) {
	apps, err := s.All(ctx)
	if err != nil {
		return models.Application{}, err
	}
	for _, app := range apps {
		if app.ID == id {
			return app, nil
		}
	}
	return models.Application{}, ErrNotFound
}

// ByCreator returns the applications created by username.
func (s *Store) ByCreator(ctx context.Context, username string) ([]models.Application, error) {
	apps, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	mine := []models.Application{}
	for _, app := range apps {
		if app.WhoCreated == username {
			mine = append(mine, app)
		}
	}
	return mine, nil
}

// Update replaces the application with the given id. The stored id,
// creation time, and creator survive regardless of what the caller
// supplies in app.
func (s *Store) Update(ctx context.Context, id int, app models.Application) error {
	return s.mutate(ctx, id, func(stored *models.Application) {
		app.ID = stored.ID
		app.CreatedAt = stored.CreatedAt
		app.WhoCreated = stored.WhoCreated
		if app.Volunteers == nil {
			app.Volunteers = stored.Volunteers
		}
		*stored = app
	})
}

// UpdateStatus sets only the status field of an application.
func (s *Store) UpdateStatus(ctx context.Context, id int, status string) error {
	status = normalize.Status(status)
	return s.mutate(ctx, id, func(app *models.Application) {
		app.Status = status
	})
}

// AssignVolunteer appends username to the application's volunteer list.
// It reports true when the volunteer was added and false (with no
// error) when they were already assigned; the list never holds
// duplicates.
func (s *Store) AssignVolunteer(ctx context.Context, id int, username string) (bool, error) {
	assigned := false
	err := s.mutate(ctx, id, func(app *models.Application) {
		for _, v := range app.Volunteers {
			if v == username {
				return
			}
		}
		app.Volunteers = append(app.Volunteers, username)
		assigned = true
	})
	if err != nil {
		return false, err
	}
	return assigned, nil
}

// Volunteers returns the volunteers assigned to an application.
func (s *Store) Volunteers(ctx context.Context, id int) ([]string, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return app.Volunteers, nil
}

// mutate runs a locked load-edit-save cycle on one application inside
// the collection.
func (s *Store) mutate(ctx context.Context, id int, fn func(*models.Application)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.docs.Lock(s.path)()

	col, err := s.load()
	if err != nil {
		return err
	}
	for i := range col.Applications {
		if col.Applications[i].ID == id {
			fn(&col.Applications[i])
			return s.docs.Save(s.path, col)
		}
	}
	return ErrNotFound
}

// load reads the collection, treating a missing file as empty.
func (s *Store) load() (*collection, error) {
	col := &collection{Applications: []models.Application{}}
	if _, err := s.docs.Load(s.path, col); err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	return col, nil
}

func lastID(apps []models.Application) int {
	max := 0
	for _, app := range apps {
		if app.ID > max {
			max = app.ID
		}
	}
	return max
}

// internal/app/store/events/store.go
package events

// Events share one collection document, <root>/events.json, like
// applications do. Deletion is soft: the record keeps its slot with
// status "deleted" so references from account documents stay
// resolvable.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/document"
	"github.com/workifyhq/workify/internal/app/system/normalize"
	"github.com/workifyhq/workify/internal/domain/models"
)

// CollectionFile is the collection document's name under the corpus root.
const CollectionFile = "events.json"

// ErrNotFound is returned when no event has the requested id.
var ErrNotFound = errors.New("event not found")

type collection struct {
	Events []models.Event `json:"events"`
}

// Store manages the shared event collection.
type Store struct {
	docs     *document.Store
	path     string
	sanitize *bluemonday.Policy
	log      *zap.Logger
}

// New creates an event store over the document store's corpus. Comment
// text is run through a strict HTML sanitizer before it is persisted,
// since comments are the one free-text field rendered back to other
// users verbatim.
func New(docs *document.Store, logger *zap.Logger) *Store {
	return &Store{
		docs:     docs,
		path:     filepath.Join(docs.Root(), CollectionFile),
		sanitize: bluemonday.StrictPolicy(),
		log:      logger,
	}
}

// Create appends a new event. The store assigns a UUID id, the creation
// time, the creator, and the active status; caller-supplied values for
// those fields are ignored.
func (s *Store) Create(ctx context.Context, ev models.Event, creator string) (models.Event, error) {
	if err := ctx.Err(); err != nil {
		return models.Event{}, err
	}
	defer s.docs.Lock(s.path)()

	col, err := s.load()
	if err != nil {
		return models.Event{}, err
	}

	now := time.Now().UTC()
	ev.ID = uuid.NewString()
	ev.WhoCreated = creator
	ev.Status = models.EventStatusActive
	ev.CreatedAt = now
	ev.UpdatedAt = now
	ev.Participants = []string{}
	ev.Comments = []models.EventComment{}

	col.Events = append(col.Events, ev)
	if err := s.docs.Save(s.path, col); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// List returns events, optionally filtered by status and/or creator.
// Empty filter values match everything.
func (s *Store) List(ctx context.Context, status, creator string) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	col, err := s.load()
	if err != nil {
		return nil, err
	}
	status = normalize.Status(status)

	out := []models.Event{}
	for _, ev := range col.Events {
		if status != "" && ev.Status != status {
			continue
		}
		if creator != "" && ev.WhoCreated != creator {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// Get returns the event with the given id.
func (s *Store) Get(ctx context.Context, id string) (models.Event, error) {
	evs, err := s.List(ctx, "", "")
	if err != nil {
		return models.Event{}, err
	}
	for _, ev := range evs {
		if ev.ID == id {
			return ev, nil
		}
	}
	return models.Event{}, ErrNotFound
}

// Update replaces the event with the given id. The stored id, creation
// time, and creator survive regardless of what the caller supplies, so
// an attacker-controlled payload cannot rewrite an event's identity.
func (s *Store) Update(ctx context.Context, id string, ev models.Event) error {
	return s.mutate(ctx, id, func(stored *models.Event) {
		ev.ID = stored.ID
		ev.CreatedAt = stored.CreatedAt
		ev.WhoCreated = stored.WhoCreated
		if ev.Status = normalize.Status(ev.Status); ev.Status == "" {
			ev.Status = stored.Status
		}
		if ev.Participants == nil {
			ev.Participants = stored.Participants
		}
		if ev.Comments == nil {
			ev.Comments = stored.Comments
		}
		ev.UpdatedAt = time.Now().UTC()
		*stored = ev
	})
}

// SoftDelete marks the event deleted without removing its record.
func (s *Store) SoftDelete(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(ev *models.Event) {
		ev.Status = models.EventStatusDeleted
		ev.UpdatedAt = time.Now().UTC()
	})
}

// AddParticipant appends username to the event's participant list. It
// reports true when the participant was added and false (with no error)
// when they were already on the list.
func (s *Store) AddParticipant(ctx context.Context, id, username string) (bool, error) {
	added := false
	err := s.mutate(ctx, id, func(ev *models.Event) {
		for _, p := range ev.Participants {
			if p == username {
				return
			}
		}
		ev.Participants = append(ev.Participants, username)
		ev.UpdatedAt = time.Now().UTC()
		added = true
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// AddComment appends a comment to the event, stamping it with the
// current time and sanitizing the text.
func (s *Store) AddComment(ctx context.Context, id string, comment models.EventComment) error {
	comment.Text = s.sanitize.Sanitize(comment.Text)
	comment.Timestamp = time.Now().UTC()
	return s.mutate(ctx, id, func(ev *models.Event) {
		ev.Comments = append(ev.Comments, comment)
		ev.UpdatedAt = comment.Timestamp
	})
}

func (s *Store) mutate(ctx context.Context, id string, fn func(*models.Event)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.docs.Lock(s.path)()

	col, err := s.load()
	if err != nil {
		return err
	}
	for i := range col.Events {
		if col.Events[i].ID == id {
			fn(&col.Events[i])
			return s.docs.Save(s.path, col)
		}
	}
	return ErrNotFound
}

func (s *Store) load() (*collection, error) {
	col := &collection{Events: []models.Event{}}
	if _, err := s.docs.Load(s.path, col); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return col, nil
}

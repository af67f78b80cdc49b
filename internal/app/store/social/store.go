// internal/app/store/social/store.go
package social

// The follow graph and rating list live on the account documents
// themselves, not in a separate collection. Every operation here is a
// read-mutate-write of one or two documents through the users store.
// Where two documents are touched (follow/unfollow) the saves are
// independent: a crash between them leaves an asymmetric relation that
// the next successful call repairs. There is no transaction primitive
// to do better with.

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/domain/models"
)

// MaxRate is the top of the rating scale. Callers enforce the range;
// the store appends what it is given.
const MaxRate = 5

// Store runs the cross-account social operations.
type Store struct {
	users *users.Store
	log   *zap.Logger
}

// New creates a social store over the user store.
func New(u *users.Store, logger *zap.Logger) *Store {
	return &Store{users: u, log: logger}
}

// Follow records that follower follows followee: followee is appended to
// the follower's following list, then follower to the followee's
// followers list, each only if absent. Both accounts must exist. The two
// writes are independent; each side is idempotent on its own.
func (s *Store) Follow(ctx context.Context, follower, followee string) error {
	a, b, err := s.resolvePair(ctx, follower, followee)
	if err != nil {
		return err
	}

	if err := s.users.Mutate(ctx, a.Username, a.Role, func(u *models.User) {
		u.Following = appendAbsent(u.Following, followee)
	}); err != nil {
		return fmt.Errorf("follow: update follower: %w", err)
	}
	if err := s.users.Mutate(ctx, b.Username, b.Role, func(u *models.User) {
		u.Followers = appendAbsent(u.Followers, follower)
	}); err != nil {
		return fmt.Errorf("follow: update followee: %w", err)
	}
	return nil
}

// Unfollow removes the relation from both sides, mirroring Follow.
func (s *Store) Unfollow(ctx context.Context, follower, followee string) error {
	a, b, err := s.resolvePair(ctx, follower, followee)
	if err != nil {
		return err
	}

	if err := s.users.Mutate(ctx, a.Username, a.Role, func(u *models.User) {
		u.Following = remove(u.Following, followee)
	}); err != nil {
		return fmt.Errorf("unfollow: update follower: %w", err)
	}
	if err := s.users.Mutate(ctx, b.Username, b.Role, func(u *models.User) {
		u.Followers = remove(u.Followers, follower)
	}); err != nil {
		return fmt.Errorf("unfollow: update followee: %w", err)
	}
	return nil
}

// Followers returns the usernames following the account.
func (s *Store) Followers(ctx context.Context, username string) ([]string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return u.Followers, nil
}

// Following returns the usernames the account follows.
func (s *Store) Following(ctx context.Context, username string) ([]string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return u.Following, nil
}

// Rate appends a rating entry to the ratee's document. The entry id is a
// random integer and is not guaranteed unique; entries are never updated
// or removed, only appended and averaged. rate is expected to already be
// within [0, MaxRate].
func (s *Store) Rate(ctx context.Context, rater, ratee string, rate float64, comment string) error {
	target, err := s.users.FindByUsername(ctx, ratee)
	if err != nil {
		return err
	}
	entry := models.RatingEntry{
		ID:      rand.Intn(100001),
		WhoRate: rater,
		Rate:    rate,
		Comment: comment,
	}
	if err := s.users.Mutate(ctx, target.Username, target.Role, func(u *models.User) {
		u.Rating = append(u.Rating, entry)
	}); err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	return nil
}

// AverageRating returns the arithmetic mean of the account's rating
// entries, 0 when it has none.
func (s *Store) AverageRating(ctx context.Context, username string) (float64, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return u.AverageRating(), nil
}

// resolvePair looks up both ends of a relation so their role partitions
// are known before any write happens.
func (s *Store) resolvePair(ctx context.Context, follower, followee string) (a, b *models.User, err error) {
	if follower == followee {
		return nil, nil, fmt.Errorf("account %q cannot follow itself", follower)
	}
	a, err = s.users.FindByUsername(ctx, follower)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve follower %q: %w", follower, err)
	}
	b, err = s.users.FindByUsername(ctx, followee)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve followee %q: %w", followee, err)
	}
	return a, b, nil
}

func appendAbsent(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

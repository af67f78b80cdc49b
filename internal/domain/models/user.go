// internal/domain/models/user.go
package models

import (
	"path/filepath"
	"strings"
	"time"
)

// Role distinguishes the two kinds of accounts on the platform.
// The role decides which corpus partition a user's document lives in
// and which prefix their bearer tokens carry.
type Role string

const (
	RoleVolunteer Role = "VOLUNTEER"
	RoleOrganizer Role = "ORGANIZER"
)

// AllRoles lists every role the platform accepts at registration.
var AllRoles = []Role{RoleVolunteer, RoleOrganizer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleVolunteer || r == RoleOrganizer
}

// Dir returns the corpus partition directory for the role,
// e.g. "Volunteer" or "Organizer".
func (r Role) Dir() string {
	s := strings.ToLower(string(r))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TokenPrefix returns the lowercase prefix stamped onto bearer tokens,
// e.g. "vol" or "org".
func (r Role) TokenPrefix() string {
	if len(r) < 3 {
		return strings.ToLower(string(r))
	}
	return strings.ToLower(string(r[:3]))
}

// RoleFromDir maps a corpus partition directory name back to a Role.
// It returns the empty Role for directories that are not partitions.
func RoleFromDir(dir string) Role {
	switch strings.ToLower(filepath.Base(dir)) {
	case "volunteer":
		return RoleVolunteer
	case "organizer":
		return RoleOrganizer
	}
	return ""
}

// User is the per-account document persisted as user_data.json inside
// the account's corpus directory.
//
// NOTE:
//   - PasswordHash holds the encoded argon2id string, never the password.
//   - Salt is the per-user ingredient mixed into the hash input; it is
//     regenerated whenever the password changes.
//   - Token is the current bearer token; rotating it invalidates the
//     previous one because lookups scan for an exact match.
type User struct {
	Username     string `json:"username"`
	Role         Role   `json:"role"` // VOLUNTEER | ORGANIZER
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"password_hash"`
	Salt         string `json:"salt"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	Token        string `json:"token"`

	// Specializations applies to organizers, Skills to volunteers.
	Specializations []string `json:"specializations,omitempty"`
	Skills          []string `json:"skills,omitempty"`

	// IsAvailable marks volunteers open to new assignments.
	IsAvailable bool `json:"is_available,omitempty"`

	Events    []string      `json:"events"`
	Rating    []RatingEntry `json:"rating"`
	Followers []string      `json:"followers"`
	Following []string      `json:"following"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingEntry is one score left on a user by another account.
type RatingEntry struct {
	ID      int     `json:"id"` // random, not guaranteed unique
	WhoRate string  `json:"who_rate"`
	Rate    float64 `json:"rate"` // 0..5
	Comment string  `json:"comment,omitempty"`
}

// AverageRating returns the mean of all rating entries, or 0 when the
// user has none.
func (u *User) AverageRating() float64 {
	if len(u.Rating) == 0 {
		return 0
	}
	var sum float64
	for _, r := range u.Rating {
		sum += r.Rate
	}
	return sum / float64(len(u.Rating))
}

// internal/domain/models/application.go
package models

import "time"

// Application statuses.
const (
	ApplicationStatusOpen      = "open"
	ApplicationStatusAssigned  = "assigned"
	ApplicationStatusCompleted = "completed"
	ApplicationStatusCancelled = "cancelled"
)

// Location pins an application to a place on the map.
type Location struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Landmark string  `json:"landmark,omitempty"`
}

// Application is a request for volunteer help, stored in the shared
// applications.json collection.
//
// IDs are small sequential integers: the store assigns max(existing)+1
// under the collection lock, so they stay unique within one corpus.
type Application struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    Location `json:"location"`
	WhoCreated  string   `json:"who_created"`
	Skills      []string `json:"skills"`

	// StartTime/EndTime are caller-supplied schedule strings and are
	// stored verbatim.
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	Reward     bool     `json:"reward"`
	Volunteers []string `json:"volunteers"`
	Status     string   `json:"status"` // open | assigned | completed | cancelled

	CreatedAt time.Time `json:"created_at"`
}

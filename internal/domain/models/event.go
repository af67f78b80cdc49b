// internal/domain/models/event.go
package models

import "time"

// Event statuses. Deleting an event is a soft operation: the record
// stays in events.json with StatusDeleted so existing references on
// user documents keep resolving.
const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
	EventStatusDeleted   = "deleted"
)

// Event is a scheduled gathering stored in the shared events.json
// collection. IDs are UUID strings.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Date and Location are caller-supplied strings, stored verbatim.
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`

	WhoCreated   string         `json:"who_created"`
	Status       string         `json:"status"` // active | cancelled | deleted
	Participants []string       `json:"participants"`
	Comments     []EventComment `json:"comments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventComment is one remark left on an event's wall.
type EventComment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

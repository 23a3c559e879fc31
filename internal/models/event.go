package models

import "time"

type EventType string

const (
	EventPlaceSelected   EventType = "place.selected"
	EventFavoriteAdded   EventType = "favorite.added"
	EventFavoriteRemoved EventType = "favorite.removed"
	EventImageSelected   EventType = "image.selected"
)

// Event records a session change for the event stream.
type Event struct {
	Type     EventType `json:"type"`
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	TZ       string    `json:"tz,omitempty"`
	ImageURL string    `json:"imageUrl,omitempty"`
	At       time.Time `json:"at"`
}

// NewEvent builds an event of type t about p.
func NewEvent(t EventType, p Place, at time.Time) Event {
	return Event{Type: t, Key: p.Key, Label: p.Label, TZ: p.TZ, At: at.UTC()}
}

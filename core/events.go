package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates board events.
type EventType string

const (
	EventEntryAdmitted EventType = "entry_admitted"
	EventEntryRejected EventType = "entry_rejected"
	EventEntryRemoved  EventType = "entry_removed"
)

// EventTypes lists every event type the board service emits.
var EventTypes = []EventType{EventEntryAdmitted, EventEntryRejected, EventEntryRemoved}

// Event represents an immutable board event.
type Event struct {
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	Time    time.Time `json:"time"`
	Entry   Entry     `json:"entry"`
	Place   int       `json:"place,omitempty"`
	Evicted *Entry    `json:"evicted,omitempty"`
	// Lowest is the score a rejected entry failed to beat.
	Lowest *int64 `json:"lowest,omitempty"`
	Size   int    `json:"size"`
}

func newEvent(typ EventType, e Entry, size int) Event {
	return Event{ID: uuid.NewString(), Type: typ, Time: time.Now().UTC(), Entry: e, Size: size}
}

// NewEntryAdmitted records an entry landing at place. evicted is nil unless
// the board was full and its lowest entry fell off.
func NewEntryAdmitted(e Entry, place int, evicted *Entry, size int) Event {
	ev := newEvent(EventEntryAdmitted, e, size)
	ev.Place = place
	ev.Evicted = evicted
	return ev
}

func NewEntryRejected(e Entry, lowest int64, size int) Event {
	ev := newEvent(EventEntryRejected, e, size)
	ev.Lowest = &lowest
	return ev
}

func NewEntryRemoved(e Entry, place int, size int) Event {
	ev := newEvent(EventEntryRemoved, e, size)
	ev.Place = place
	return ev
}

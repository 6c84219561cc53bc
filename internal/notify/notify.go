// Package notify tells connected realtime listeners that an entity
// collection changed so they can re-fetch it.
//
// Delivery is best effort: events are not persisted, acknowledged or
// retried, and a listener that connects after an event never sees it.
package notify

import (
	"context"

	"github.com/voyagen/tvguide/internal/models"
)

// Event is the name of a change notification.
type Event string

const (
	ChannelsUpdated Event = "channelsUpdated"
	ProgramsUpdated Event = "programsUpdated"
	UsersUpdated    Event = "usersUpdated"
)

var updatedEvents = map[string]Event{
	models.EntityChannels: ChannelsUpdated,
	models.EntityPrograms: ProgramsUpdated,
	models.EntityUsers:    UsersUpdated,
}

// UpdatedEvent returns the change event for an entity collection name.
func UpdatedEvent(entity string) (Event, bool) {
	ev, ok := updatedEvents[entity]
	return ev, ok
}

// Valid reports whether ev is one of the known change events.
func (ev Event) Valid() bool {
	switch ev {
	case ChannelsUpdated, ProgramsUpdated, UsersUpdated:
		return true
	}
	return false
}

// Notifier emits change events. Notify must not block on slow listeners and
// never reports failure to the caller.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Broadcaster delivers an event to the listeners connected to this process.
type Broadcaster interface {
	Broadcast(ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

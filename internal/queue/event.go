// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
    "time"

    "github.com/iliyamo/event-ticket-finder/internal/model"
)

// EventListedQueue is the durable queue carrying EventListedMessage values.
const EventListedQueue = "event.listed"

// EventListedMessage is published whenever an event is added to the world.
// Summary is the event's string form, so consumers can log or notify without
// access to the world itself.
type EventListedMessage struct {
    EventID     int    `json:"event_id"`
    X           int    `json:"x"`
    Y           int    `json:"y"`
    TicketCount int    `json:"ticket_count"`
    Summary     string `json:"summary"`
    ListedAt    string `json:"listed_at"`
}

// NewEventListedMessage builds the message for e, stamped with at in UTC.
func NewEventListedMessage(e *model.Event, at time.Time) EventListedMessage {
    loc := e.Location()
    return EventListedMessage{
        EventID:     e.Identifier(),
        X:           loc.X,
        Y:           loc.Y,
        TicketCount: e.TicketCount(),
        Summary:     e.String(),
        ListedAt:    at.UTC().Format(time.RFC3339),
    }
}

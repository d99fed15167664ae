package model

import (
    "fmt"
    "math/rand/v2"
    "sync"
)

// MaxTicketsPerEvent bounds the ticket count drawn for a new event.  The
// count is uniform over [0, MaxTicketsPerEvent).
const MaxTicketsPerEvent = 10

// Event is something happening at a location in the world.  It carries a
// unique identifier and the tickets on sale for it.  An Event is never
// modified after it is built.
//
// Fields:
//  identifier – value drawn from a Counter at construction.
//  location   – where the event takes place.
//  tickets    – tickets on sale, in creation order.  Never nil.
type Event struct {
    identifier int
    location   Location
    tickets    []Ticket
}

// eventCounter backs NewEvent and ResetEventCounter.
var eventCounter Counter

var defaultFactory = NewEventFactory(&eventCounter, nil)

// NewEvent builds an event at loc using the process-wide counter and the
// default random source.
func NewEvent(loc Location) *Event {
    return defaultFactory.New(loc)
}

// ResetEventCounter resets the process-wide counter used by NewEvent.  It
// exists so test runs can start again from identifier 1.
func ResetEventCounter() {
    eventCounter.Reset()
}

// Identifier returns the event's unique identifier.
func (e *Event) Identifier() int { return e.identifier }

// Location returns where the event takes place.
func (e *Event) Location() Location { return e.location }

// TicketCount returns how many tickets are on sale.
func (e *Event) TicketCount() int { return len(e.tickets) }

// cheapestTicket returns the lowest priced ticket.  ok is false when the
// event has no tickets.
func (e *Event) cheapestTicket() (Ticket, bool) {
    i := e.cheapestIndex()
    if i < 0 {
        return Ticket{}, false
    }
    return e.tickets[i], true
}

// cheapestIndex returns the position of the lowest priced ticket, or -1 when
// there are none.  When several tickets share the lowest price the earliest
// one wins.
func (e *Event) cheapestIndex() int {
    switch len(e.tickets) {
    case 0:
        return -1
    case 1:
        return 0
    }
    best := 0
    for i := 1; i < len(e.tickets); i++ {
        if e.tickets[i].Price() < e.tickets[best].Price() {
            best = i
        }
    }
    return best
}

// String summarises the event, e.g. "Event 1 at (2, 4) - $12.50".
func (e *Event) String() string {
    s := fmt.Sprintf("Event %d at %s", e.identifier, e.location)
    if t, ok := e.cheapestTicket(); ok {
        return s + " - $" + t.String()
    }
    return s + " - No Tickets for this Event"
}

// EventFactory builds events from an injected Counter and random source.
// It is safe for concurrent use.
type EventFactory struct {
    counter *Counter

    mu  sync.Mutex
    rng *rand.Rand // nil means the math/rand/v2 global source
}

// NewEventFactory returns a factory drawing identifiers from counter and
// ticket counts and prices from src.  A nil counter gets a fresh one; a nil
// src uses the global random source.
func NewEventFactory(counter *Counter, src rand.Source) *EventFactory {
    if counter == nil {
        counter = &Counter{}
    }
    f := &EventFactory{counter: counter}
    if src != nil {
        f.rng = rand.New(src)
    }
    return f
}

// Counter returns the counter the factory draws identifiers from.
func (f *EventFactory) Counter() *Counter { return f.counter }

// New builds an event at loc.  The identifier is taken first, then a
// uniform number of tickets in [0, MaxTicketsPerEvent) is generated.
func (f *EventFactory) New(loc Location) *Event {
    id := f.counter.Next()

    f.mu.Lock()
    n := f.intN(MaxTicketsPerEvent)
    tickets := make([]Ticket, 0, n)
    for i := 0; i < n; i++ {
        tickets = append(tickets, ticketWithPrice(randomPrice(f.int64N)))
    }
    f.mu.Unlock()

    return &Event{identifier: id, location: loc, tickets: tickets}
}

// IntN draws a value in [0, n) from the factory's random source.
func (f *EventFactory) IntN(n int) int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return f.intN(n)
}

// intN and int64N must be called with mu held.
func (f *EventFactory) intN(n int) int {
    if f.rng == nil {
        return rand.IntN(n)
    }
    return f.rng.IntN(n)
}

func (f *EventFactory) int64N(n int64) int64 {
    if f.rng == nil {
        return rand.Int64N(n)
    }
    return f.rng.Int64N(n)
}

package repository

import (
    "context"
    "fmt"
    "sort"
    "sync"

    "github.com/iliyamo/event-ticket-finder/internal/model"
)

// DefaultWorldSize is the default half-width of the world grid.  Valid
// coordinates lie in [-size, +size] on both axes.
const DefaultWorldSize = 10

// MaxWorldSize caps the half-width so the cell count fits in an int on
// every platform.
const MaxWorldSize = 1 << 14

// Limits applied to NearestQuery.Limit.
const (
    DefaultNearestLimit = 5
    MaxNearestLimit     = 50
)

// EventListener is notified after an event is added to the world.
type EventListener func(ctx context.Context, e *model.Event)

// EventRepo stores events in memory, keyed by identifier and by location.
// At most one event occupies each location.  It is safe for concurrent use.
type EventRepo struct {
    size     int
    factory  *model.EventFactory
    listener EventListener

    mu      sync.RWMutex
    byID    map[int]*model.Event
    byPlace map[model.Location]*model.Event
}

// NewEventRepo returns an empty world of the given half-width.  Events are
// built with factory; a nil factory uses a fresh counter and the global
// random source.  A size below one falls back to DefaultWorldSize and one
// above MaxWorldSize is clamped to it.
func NewEventRepo(size int, factory *model.EventFactory) *EventRepo {
    if size < 1 {
        size = DefaultWorldSize
    }
    if size > MaxWorldSize {
        size = MaxWorldSize
    }
    if factory == nil {
        factory = model.NewEventFactory(nil, nil)
    }
    return &EventRepo{
        size:    size,
        factory: factory,
        byID:    make(map[int]*model.Event),
        byPlace: make(map[model.Location]*model.Event),
    }
}

// OnCreate registers fn to run after every event added by Place or Seed.
// It must be called before the repo is shared.
func (r *EventRepo) OnCreate(fn EventListener) { r.listener = fn }

// Size returns the world's half-width.
func (r *EventRepo) Size() int { return r.size }

// Capacity returns the number of grid locations in the world.
func (r *EventRepo) Capacity() int {
    side := 2*r.size + 1
    return side * side
}

// Contains reports whether loc lies inside the world.
func (r *EventRepo) Contains(loc model.Location) bool {
    return loc.X >= -r.size && loc.X <= r.size && loc.Y >= -r.size && loc.Y <= r.size
}

// Count returns the number of events in the world.
func (r *EventRepo) Count() int {
    r.mu.RLock()
    defer r.mu.RUnlock()
    return len(r.byID)
}

// Place builds a new event at loc.
func (r *EventRepo) Place(ctx context.Context, loc model.Location) (*model.Event, error) {
    if !r.Contains(loc) {
        return nil, fmt.Errorf("place %s: %w", loc, ErrOutOfBounds)
    }
    r.mu.Lock()
    if _, taken := r.byPlace[loc]; taken {
        r.mu.Unlock()
        return nil, fmt.Errorf("place %s: %w", loc, ErrLocationTaken)
    }
    e := r.factory.New(loc)
    r.store(e)
    r.mu.Unlock()

    r.notify(ctx, e)
    return e, nil
}

// Seed clears the world, resets the factory's counter and fills n distinct
// random locations with new events.  Identifiers of the seeded events run
// from 1 to n.
func (r *EventRepo) Seed(ctx context.Context, n int) ([]*model.Event, error) {
    if n < 0 {
        n = 0
    }
    if n > r.Capacity() {
        return nil, fmt.Errorf("seed %d events into %d cells: %w", n, r.Capacity(), ErrWorldFull)
    }

    r.mu.Lock()
    r.byID = make(map[int]*model.Event, n)
    r.byPlace = make(map[model.Location]*model.Event, n)
    r.factory.Counter().Reset()

    // partial Fisher-Yates over the cell indexes picks n distinct cells.
    // Only swapped positions are stored, so memory follows n, not the area.
    side := 2*r.size + 1
    total := r.Capacity()
    swapped := make(map[int]int, 2*n)
    cellAt := func(i int) int {
        if v, ok := swapped[i]; ok {
            return v
        }
        return i
    }
    created := make([]*model.Event, 0, n)
    for i := 0; i < n; i++ {
        j := i + r.factory.IntN(total-i)
        cell := cellAt(j)
        swapped[j] = cellAt(i)
        loc := model.Location{X: cell%side - r.size, Y: cell/side - r.size}
        e := r.factory.New(loc)
        r.store(e)
        created = append(created, e)
    }
    r.mu.Unlock()

    for _, e := range created {
        r.notify(ctx, e)
    }
    return created, nil
}

// GetByID returns the event with the given identifier.
func (r *EventRepo) GetByID(ctx context.Context, id int) (*model.Event, error) {
    r.mu.RLock()
    defer r.mu.RUnlock()
    e, ok := r.byID[id]
    if !ok {
        return nil, ErrEventNotFound
    }
    return e, nil
}

// NearestQuery selects events around a point.
type NearestQuery struct {
    From  model.Location
    Limit int
}

// EventDistance pairs an event with its distance from a query point.
type EventDistance struct {
    Event    *model.Event
    Distance int
}

// Nearest returns the events closest to q.From by Manhattan distance.
// Events at equal distance are ordered by identifier.  A Limit of zero or
// less uses DefaultNearestLimit and values above MaxNearestLimit are capped.
func (r *EventRepo) Nearest(ctx context.Context, q NearestQuery) ([]EventDistance, error) {
    if !r.Contains(q.From) {
        return nil, fmt.Errorf("nearest to %s: %w", q.From, ErrOutOfBounds)
    }
    limit := q.Limit
    if limit <= 0 {
        limit = DefaultNearestLimit
    }
    if limit > MaxNearestLimit {
        limit = MaxNearestLimit
    }

    r.mu.RLock()
    out := make([]EventDistance, 0, len(r.byID))
    for _, e := range r.byID {
        out = append(out, EventDistance{Event: e, Distance: q.From.Distance(e.Location())})
    }
    r.mu.RUnlock()

    sort.Slice(out, func(i, j int) bool {
        if out[i].Distance != out[j].Distance {
            return out[i].Distance < out[j].Distance
        }
        return out[i].Event.Identifier() < out[j].Event.Identifier()
    })
    if len(out) > limit {
        out = out[:limit]
    }
    return out, nil
}

// store must be called with mu held for writing.
func (r *EventRepo) store(e *model.Event) {
    r.byID[e.Identifier()] = e
    r.byPlace[e.Location()] = e
}

func (r *EventRepo) notify(ctx context.Context, e *model.Event) {
    if r.listener != nil {
        r.listener(ctx, e)
    }
}

package repository

import (
    "context"
    "math/rand/v2"

    "github.com/iliyamo/event-ticket-finder/internal/model"
)

// NewWorld builds a world of the given half-width and seeds it with count
// events.  A zero seed picks a random one, so each run differs; any other
// value makes the world reproducible.  onCreate, if not nil, is registered
// before seeding and so sees every seeded event.
func NewWorld(ctx context.Context, size, count int, seed uint64, onCreate EventListener) (*EventRepo, error) {
    if seed == 0 {
        seed = rand.Uint64()
    }
    factory := model.NewEventFactory(&model.Counter{}, rand.NewPCG(seed, seed>>1|1))
    repo := NewEventRepo(size, factory)
    if onCreate != nil {
        repo.OnCreate(onCreate)
    }
    if _, err := repo.Seed(ctx, count); err != nil {
        return nil, err
    }
    return repo, nil
}

package repository

import (
    "context"
    "runtime"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/event-ticket-finder/internal/model"
)

func TestNewWorld_SameSeedSameWorld(t *testing.T) {
    ctx := context.Background()
    a, err := NewWorld(ctx, 10, 40, 1234, nil)
    require.NoError(t, err)
    b, err := NewWorld(ctx, 10, 40, 1234, nil)
    require.NoError(t, err)

    for id := 1; id <= 40; id++ {
        ea, err := a.GetByID(ctx, id)
        require.NoError(t, err)
        eb, err := b.GetByID(ctx, id)
        require.NoError(t, err)
        assert.Equal(t, ea.String(), eb.String())
    }
}

func TestNewWorld_NotifiesAndRejectsOverflow(t *testing.T) {
    ctx := context.Background()
    n := 0
    _, err := NewWorld(ctx, 2, 7, 0, func(context.Context, *model.Event) { n++ })
    require.NoError(t, err)
    assert.Equal(t, 7, n)

    _, err = NewWorld(ctx, 1, 10, 1, nil)
    assert.ErrorIs(t, err, ErrWorldFull)
}

func TestNewWorld_LargeWorldAllocatesByEventCount(t *testing.T) {
    ctx := context.Background()
    var before, after runtime.MemStats
    runtime.GC()
    runtime.ReadMemStats(&before)
    repo, err := NewWorld(ctx, 4000, 5, 1, nil)
    runtime.ReadMemStats(&after)
    require.NoError(t, err)

    assert.Equal(t, 5, repo.Count())
    assert.Equal(t, 8001*8001, repo.Capacity())
    allocated := after.TotalAlloc - before.TotalAlloc
    assert.Less(t, allocated, uint64(1<<20), "seeding 5 events allocated %d bytes", allocated)

    seen := map[model.Location]bool{}
    for id := 1; id <= 5; id++ {
        e, err := repo.GetByID(ctx, id)
        require.NoError(t, err)
        assert.True(t, repo.Contains(e.Location()))
        assert.False(t, seen[e.Location()])
        seen[e.Location()] = true
    }
}

func TestNewEventRepo_ClampsSize(t *testing.T) {
    r := NewEventRepo(MaxWorldSize*4, nil)
    assert.Equal(t, MaxWorldSize, r.Size())
    side := 2*MaxWorldSize + 1
    assert.Equal(t, side*side, r.Capacity())
}

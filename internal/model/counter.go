package model

import "sync/atomic"

// Counter hands out event identifiers.  Next is an atomic
// fetch-and-increment so identifiers stay unique when events are built
// from several goroutines.  The zero value is ready to use.
type Counter struct {
    n atomic.Int64
}

// Next increments the counter and returns the new value.  The first call
// after construction or Reset returns 1.
func (c *Counter) Next() int {
    return int(c.n.Add(1))
}

// Reset sets the counter back to zero.  Identifiers already handed out
// are unaffected.
func (c *Counter) Reset() {
    c.n.Store(0)
}

// Current returns the last identifier handed out, or 0 if none.
func (c *Counter) Current() int {
    return int(c.n.Load())
}

// Package repository defines the in-memory event world and the sentinel
// errors it returns.  Handlers compare against these values with errors.Is
// and translate them into HTTP statuses.
package repository

import "errors"

// ErrEventNotFound is returned when no event has the requested identifier.
// Handlers should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrOutOfBounds is returned when a coordinate lies outside the world.
// Handlers should translate this into an HTTP 400 response.
var ErrOutOfBounds = errors.New("location out of bounds")

// ErrLocationTaken is returned when an event already occupies the
// requested location.  Handlers should translate this into an HTTP 409.
var ErrLocationTaken = errors.New("location already has an event")

// ErrWorldFull is returned when more events are requested than the world
// has free locations.
var ErrWorldFull = errors.New("world has no free locations")

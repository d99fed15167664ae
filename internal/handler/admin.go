package handler

// This file defines the admin handlers that change the world: placing a
// single event and reseeding the whole world.  Reseeding resets the event
// counter, so identifiers start again from 1.  Both routes sit behind
// JWTAuth and RequireRole("ADMIN").

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticket-finder/internal/model"
    "github.com/iliyamo/event-ticket-finder/internal/repository"
)

// AdminHandler serves the world-changing admin routes.
type AdminHandler struct {
    Repo *repository.EventRepo
}

// NewAdminHandler constructs an AdminHandler and panics on a nil repo.
func NewAdminHandler(repo *repository.EventRepo) *AdminHandler {
    if repo == nil {
        panic("nil repository passed to NewAdminHandler")
    }
    return &AdminHandler{Repo: repo}
}

type placeEventRequest struct {
    X *int `json:"x"`
    Y *int `json:"y"`
}

type reseedRequest struct {
    Count *int `json:"count"`
}

// PlaceEvent handles POST /v1/admin/events with body {"x":..,"y":..}.  It
// answers 201 with the new event, 400 when the location is outside the
// world and 409 when it is already taken.
func (h *AdminHandler) PlaceEvent(c echo.Context) error {
    var req placeEventRequest
    if err := c.Bind(&req); err != nil || req.X == nil || req.Y == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "x and y are required"})
    }
    e, err := h.Repo.Place(c.Request().Context(), model.Location{X: *req.X, Y: *req.Y})
    switch {
    case errors.Is(err, repository.ErrOutOfBounds):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "location out of bounds", "size": h.Repo.Size()})
    case errors.Is(err, repository.ErrLocationTaken):
        return c.JSON(http.StatusConflict, echo.Map{"error": "location already has an event"})
    case err != nil:
        c.Logger().Errorf("place event: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    return c.JSON(http.StatusCreated, toEventItem(e))
}

// Reseed handles POST /v1/admin/world/reseed with body {"count":..}.  The
// world is cleared, the counter reset and count events created.
func (h *AdminHandler) Reseed(c echo.Context) error {
    var req reseedRequest
    if err := c.Bind(&req); err != nil || req.Count == nil || *req.Count < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be a non-negative integer"})
    }
    events, err := h.Repo.Seed(c.Request().Context(), *req.Count)
    if err != nil {
        if errors.Is(err, repository.ErrWorldFull) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "count exceeds world capacity", "capacity": h.Repo.Capacity()})
        }
        c.Logger().Errorf("reseed world: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"count": len(events), "capacity": h.Repo.Capacity()})
}

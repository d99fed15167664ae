// Package handler exposes the HTTP handlers of the finder API.  This file
// holds the public read-only routes that look up events and search for the
// events closest to a point.
package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticket-finder/internal/model"
    "github.com/iliyamo/event-ticket-finder/internal/repository"
)

// EventHandler serves public event lookups from the world.
type EventHandler struct {
    Repo *repository.EventRepo
}

// NewEventHandler constructs an EventHandler and panics on a nil repo.
func NewEventHandler(repo *repository.EventRepo) *EventHandler {
    if repo == nil {
        panic("nil repository passed to NewEventHandler")
    }
    return &EventHandler{Repo: repo}
}

// EventItem is an event as exposed by the API.  Summary is the event's
// string form, e.g. "Event 1 at (2, 4) - $12.50".
type EventItem struct {
    ID          int    `json:"id"`
    X           int    `json:"x"`
    Y           int    `json:"y"`
    Distance    *int   `json:"distance,omitempty"`
    TicketCount int    `json:"ticket_count"`
    Summary     string `json:"summary"`
}

func toEventItem(e *model.Event) EventItem {
    loc := e.Location()
    return EventItem{
        ID:          e.Identifier(),
        X:           loc.X,
        Y:           loc.Y,
        TicketCount: e.TicketCount(),
        Summary:     e.String(),
    }
}

// Nearest handles GET /v1/events/nearest?x=&y=&limit=.  x and y are
// required; limit defaults to 5 and is capped at 50.
func (h *EventHandler) Nearest(c echo.Context) error {
    x, errX := strconv.Atoi(c.QueryParam("x"))
    y, errY := strconv.Atoi(c.QueryParam("y"))
    if errX != nil || errY != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "x and y must be integers"})
    }
    limit := 0
    if raw := c.QueryParam("limit"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 1 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
        }
        limit = n
    }

    found, err := h.Repo.Nearest(c.Request().Context(), repository.NearestQuery{
        From:  model.Location{X: x, Y: y},
        Limit: limit,
    })
    if err != nil {
        if errors.Is(err, repository.ErrOutOfBounds) {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "location out of bounds",
                "size":  h.Repo.Size(),
            })
        }
        c.Logger().Errorf("nearest events: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }

    out := make([]EventItem, 0, len(found))
    for _, d := range found {
        item := toEventItem(d.Event)
        dist := d.Distance
        item.Distance = &dist
        out = append(out, item)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEvent handles GET /v1/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
    id, err := strconv.Atoi(c.Param("id"))
    if err != nil || id < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    e, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        c.Logger().Errorf("get event %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    return c.JSON(http.StatusOK, toEventItem(e))
}

package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticket-finder/internal/handler"
    "github.com/iliyamo/event-ticket-finder/internal/middleware"
    "github.com/iliyamo/event-ticket-finder/internal/utils"
)

// RegisterRoutes registers routes that need neither authentication nor
// caching.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the read-only event routes.  Extra middleware,
// typically the rate limiter and response cache, wraps only this group.
func RegisterPublic(e *echo.Echo, h *handler.EventHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1/events", mw...)
    // nearest must be registered before :id so the static segment wins
    g.GET("/nearest", h.Nearest)
    g.GET("/:id", h.GetEvent)
}

// RegisterAdmin registers the world-changing routes under /v1/admin.  They
// require a Bearer token signed with jwtSecret and carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(utils.RoleAdmin))
    g.Use(mw...)
    g.POST("/events", a.PlaceEvent)
    g.POST("/world/reseed", a.Reseed)
}

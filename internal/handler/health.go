package handler // declare the package name; contains HTTP handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is a health-check endpoint for load balancers and monitoring.  It
// returns a plain text "ok" with status 200.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

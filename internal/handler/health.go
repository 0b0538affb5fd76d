package handler // declare the package name; contains HTTP handlers

import (
	"context"  // deadline for the database ping
	"net/http" // net/http provides status codes and response helpers
	"time"     // ping timeout

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Version is reported by the index endpoint.
const Version = "1.0.0"

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Index describes the API and where its route groups live.
func Index(c echo.Context) error {
	return ok(c, http.StatusOK, "Donor Darah API", echo.Map{
		"version": Version,
		"endpoints": echo.Map{
			"auth":        "/api/auth",
			"users":       "/api/users",
			"blood_banks": "/api/blood-banks",
			"donations":   "/api/donations",
		},
	})
}

// Health reports whether the service can reach its database. Load
// balancers take the instance out of rotation on 503.
func Health(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if db == nil || db.PingContext(ctx) != nil {
			return fail(c, http.StatusServiceUnavailable, "database unavailable")
		}
		return ok(c, http.StatusOK, "ok", nil)
	}
}

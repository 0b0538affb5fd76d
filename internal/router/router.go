package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/donordarah/donor-darah-api/internal/handler"    // handlers implementing each endpoint
	"github.com/donordarah/donor-darah-api/internal/metrics"    // Prometheus exposition
	"github.com/donordarah/donor-darah-api/internal/middleware" // JWT authentication and self-scoping
)

// APIPrefix is the mount point of every versionless API group.
const APIPrefix = "/api"

// RegisterRoutes registers the unauthenticated operational endpoints: the
// service banner, a health check that pings the database and the
// Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/", handler.Index)
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterAuth registers registration and login under /api/auth, plus the
// token-protected /api/auth/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group(APIPrefix + "/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	// /me requires a valid access token; the handler echoes its claims.
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

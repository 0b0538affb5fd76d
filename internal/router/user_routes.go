package router

import (
	"github.com/labstack/echo/v4"

	"github.com/donordarah/donor-darah-api/internal/handler"
	"github.com/donordarah/donor-darah-api/internal/middleware"
)

// RegisterUsers registers the self-scoped account endpoints. The :id of
// every route must match the token subject.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group(
		APIPrefix+"/users",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireSelf("id"),
	)
	g.GET("/profile/:id", h.Profile)
	g.PUT("/profile/:id", h.UpdateProfile)
	g.PUT("/password/:id", h.ChangePassword)
	g.GET("/stats/:id", h.Stats)
}

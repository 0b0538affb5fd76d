package router

import (
	"github.com/labstack/echo/v4"

	"github.com/donordarah/donor-darah-api/internal/handler"
	"github.com/donordarah/donor-darah-api/internal/middleware"
)

// RegisterDonations registers the donation endpoints under /api/donations.
// Every route requires a valid JWT; the per-user history is additionally
// restricted to the caller's own id.
func RegisterDonations(e *echo.Echo, h *handler.DonationHandler, jwtSecret string) {
	g := e.Group(APIPrefix+"/donations", middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create)
	g.GET("/user/:userId", h.ListByUser, middleware.RequireSelf("userId"))
	g.GET("/:id", h.Get)
	g.PUT("/:id/status", h.UpdateStatus)
	g.DELETE("/:id", h.Delete)
}

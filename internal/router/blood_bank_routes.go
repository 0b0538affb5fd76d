package router

import (
	"github.com/labstack/echo/v4"

	"github.com/donordarah/donor-darah-api/internal/handler"
)

// RegisterBloodBanks registers the public blood bank directory. cache is
// applied to every route of the group; pass a pass-through middleware when
// caching is disabled.
func RegisterBloodBanks(e *echo.Echo, h *handler.BloodBankHandler, cache echo.MiddlewareFunc) {
	g := e.Group(APIPrefix+"/blood-banks", cache)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/stock", h.Stock)
}

package handler // handler defines http handlers

import (
	"context" // per-request deadlines for store calls
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts path parameters to numeric ids
	"time"    // handler timeout

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/donordarah/donor-darah-api/internal/middleware" // authenticated identity
)

// requestTimeout bounds every store round trip started by a handler.
const requestTimeout = 5 * time.Second

var errNoUser = errors.New("no authenticated user in context")

// getUserID returns the user id placed in the context by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	id, found := middleware.UserID(c) // set by JWTAuth as uint64
	if !found {
		return 0, errNoUser
	}
	return id, nil
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64) // ids are unsigned
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// reqCtx derives the store context from the request context.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

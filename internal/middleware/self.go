package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// RequireSelf returns a middleware that only lets a request through when the
// numeric path parameter param names the authenticated user.  It must run
// after JWTAuth.  Requests for another user's resources get 403; a
// malformed id gets 400.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := UserID(c)
			if !ok {
				return deny(c, http.StatusUnauthorized, "access token required")
			}
			target, err := strconv.ParseUint(c.Param(param), 10, 64)
			if err != nil || target == 0 {
				return deny(c, http.StatusBadRequest, "invalid "+param)
			}
			if target != uid {
				return deny(c, http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}

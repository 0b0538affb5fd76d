package middleware

// identity.go holds helpers shared across middleware files and handlers for
// reading the authenticated user that JWTAuth stored in the Echo context.

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/donordarah/donor-darah-api/internal/utils"
)

// UserID returns the authenticated user id, or false on public routes.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok && id != 0
}

// userKey is the rate limit identity: the user id when authenticated,
// "anon" otherwise. The limiter runs before JWTAuth on grouped routes, so
// when the context holds no identity yet the bearer token is verified here.
func userKey(c echo.Context, secret string) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	if secret == "" {
		return "anon"
	}
	raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !ok {
		return "anon"
	}
	claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
	if err != nil {
		return "anon"
	}
	return strconv.FormatUint(claims.UserID, 10)
}

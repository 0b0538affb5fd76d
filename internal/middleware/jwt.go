package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/donordarah/donor-darah-api/internal/utils" // token verification
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id" // uint64
	CtxEmail  = "email"   // string
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's user id and email into the request context.  A
// request without a token is answered 401; a token that is present but
// invalid or expired is answered 403.  Handlers read the identity with
// UserID(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return deny(c, http.StatusUnauthorized, "access token required")
			}

			claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return deny(c, http.StatusForbidden, "invalid or expired token")
			}

			c.Set(CtxUserID, claims.UserID) // authenticated user id
			c.Set(CtxEmail, claims.Email)   // email at login time
			return next(c)
		}
	}
}

// deny writes the API error envelope and stops the chain.
func deny(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

package handler

import (
	"context"  // provides context with cancellation for store calls
	"net/http" // HTTP status codes and primitives
	"time"     // token expiry in responses

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/donordarah/donor-darah-api/internal/middleware" // token identity
	"github.com/donordarah/donor-darah-api/internal/model"      // user representation
	"github.com/donordarah/donor-darah-api/internal/service"    // account rules
	"github.com/donordarah/donor-darah-api/internal/utils"      // access token type
)

// UserService is the account API used by AuthHandler and UserHandler.
type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (model.User, error)
	Login(ctx context.Context, email, password string) (model.User, utils.AccessToken, error)
	Profile(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, in service.ProfileInput) (model.User, error)
	ChangePassword(ctx context.Context, id uint64, in service.PasswordInput) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users UserService
}

func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	User      model.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Register creates an account. The password hash never appears in the
// response.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Register(ctx, req)
	if err != nil {
		return writeError(c, err, "user")
	}
	return ok(c, http.StatusCreated, "registration successful", u)
}

// Login exchanges credentials for an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, tok, err := h.Users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return writeError(c, err, "user")
	}
	return ok(c, http.StatusOK, "login successful", loginResp{User: u, Token: tok.Token, ExpiresAt: tok.Exp})
}

// Me echoes the identity carried by the caller's token.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "access token required")
	}
	email, _ := c.Get(middleware.CtxEmail).(string)
	return ok(c, http.StatusOK, "", echo.Map{"id": uid, "email": email})
}

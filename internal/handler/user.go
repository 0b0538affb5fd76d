package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donordarah/donor-darah-api/internal/model"
	"github.com/donordarah/donor-darah-api/internal/service"
)

// StatsService computes donor statistics.
type StatsService interface {
	ForUser(ctx context.Context, userID uint64) (model.UserStats, error)
}

// UserHandler serves the self-scoped /users routes. RequireSelf has
// already checked that :id is the caller.
type UserHandler struct {
	users UserService
	stats StatsService
}

func NewUserHandler(users UserService, stats StatsService) *UserHandler {
	return &UserHandler{users: users, stats: stats}
}

func (h *UserHandler) Profile(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.users.Profile(ctx, id)
	if err != nil {
		return writeError(c, err, "user")
	}
	return ok(c, http.StatusOK, "", u)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	var req service.ProfileInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.users.UpdateProfile(ctx, id, req)
	if err != nil {
		return writeError(c, err, "user")
	}
	return ok(c, http.StatusOK, "profile updated", u)
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	var req service.PasswordInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.users.ChangePassword(ctx, id, req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return fail(c, http.StatusUnauthorized, "old password is incorrect")
	}
	if err != nil {
		return writeError(c, err, "user")
	}
	return ok(c, http.StatusOK, "password updated", nil)
}

// Stats summarises the caller's completed donations.
func (h *UserHandler) Stats(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.stats.ForUser(ctx, id)
	if err != nil {
		return writeError(c, err, "user")
	}
	return ok(c, http.StatusOK, "", st)
}

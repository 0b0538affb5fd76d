package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donordarah/donor-darah-api/internal/model"
	"github.com/donordarah/donor-darah-api/internal/service"
)

// DonationService is the donation lifecycle API.
type DonationService interface {
	Create(ctx context.Context, in service.CreateDonationInput) (model.Donation, error)
	UpdateStatus(ctx context.Context, id uint64, status string, notes *string) (model.Donation, error)
	Get(ctx context.Context, id uint64) (model.DonationView, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.DonationView, error)
	Delete(ctx context.Context, id, requesterID uint64) error
}

// DonationHandler serves the /donations routes; all of them sit behind
// JWTAuth.
type DonationHandler struct {
	Donations DonationService
}

func NewDonationHandler(donations DonationService) *DonationHandler {
	return &DonationHandler{Donations: donations}
}

type statusReq struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// Create files a donation request for the caller. A user_id in the body,
// if present, must be the caller's own.
func (h *DonationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "access token required")
	}
	var req service.CreateDonationInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == 0 {
		req.UserID = uid
	} else if req.UserID != uid {
		return fail(c, http.StatusForbidden, "cannot create donations for another user")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.Create(ctx, req)
	if err != nil {
		return writeError(c, err, "donation")
	}
	return ok(c, http.StatusCreated, "donation request created", d)
}

// UpdateStatus moves a donation along its lifecycle.
func (h *DonationHandler) UpdateStatus(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid donation id")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.UpdateStatus(ctx, id, req.Status, req.Notes)
	if err != nil {
		return writeError(c, err, "donation")
	}
	return ok(c, http.StatusOK, "donation status updated", d)
}

func (h *DonationHandler) Get(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid donation id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Donations.Get(ctx, id)
	if err != nil {
		return writeError(c, err, "donation")
	}
	return ok(c, http.StatusOK, "", v)
}

// ListByUser returns the donation history of :userId, newest first.
func (h *DonationHandler) ListByUser(c echo.Context) error {
	userID, valid := parseID(c, "userId")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Donations.ListByUser(ctx, userID)
	if err != nil {
		return writeError(c, err, "donation")
	}
	return ok(c, http.StatusOK, "", list)
}

// Delete withdraws one of the caller's pending or rejected donations.
func (h *DonationHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "access token required")
	}
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid donation id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Donations.Delete(ctx, id, uid); err != nil {
		return writeError(c, err, "donation")
	}
	return ok(c, http.StatusOK, "donation deleted", nil)
}

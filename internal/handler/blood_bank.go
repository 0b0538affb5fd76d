package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/donordarah/donor-darah-api/internal/geo"
	"github.com/donordarah/donor-darah-api/internal/model"
)

// BloodBankService is the read API over banks and their stock.
type BloodBankService interface {
	List(ctx context.Context, loc *geo.Point) ([]model.BloodBank, error)
	Get(ctx context.Context, id uint64) (model.BloodBankDetail, error)
	Stock(ctx context.Context, id uint64) ([]model.BloodStock, error)
}

// BloodBankHandler serves the public /blood-banks routes.
type BloodBankHandler struct {
	Banks BloodBankService
}

func NewBloodBankHandler(banks BloodBankService) *BloodBankHandler {
	return &BloodBankHandler{Banks: banks}
}

// List returns all banks, nearest first when both lat and lng are given.
// Supplying only one of them returns the unranked list.
func (h *BloodBankHandler) List(c echo.Context) error {
	loc, err := locationFrom(c.QueryParam("lat"), c.QueryParam("lng"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "lat and lng must be numbers")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	banks, err := h.Banks.List(ctx, loc)
	if err != nil {
		return writeError(c, err, "blood bank")
	}
	return ok(c, http.StatusOK, "", banks)
}

func (h *BloodBankHandler) Get(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid blood bank id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Banks.Get(ctx, id)
	if err != nil {
		return writeError(c, err, "blood bank")
	}
	return ok(c, http.StatusOK, "", detail)
}

func (h *BloodBankHandler) Stock(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid blood bank id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	stock, err := h.Banks.Stock(ctx, id)
	if err != nil {
		return writeError(c, err, "blood bank")
	}
	return ok(c, http.StatusOK, "", stock)
}

// locationFrom returns nil unless both coordinates are present.
func locationFrom(lat, lng string) (*geo.Point, error) {
	if lat == "" || lng == "" {
		return nil, nil
	}
	la, err := parseCoord(lat)
	if err != nil {
		return nil, err
	}
	lo, err := parseCoord(lng)
	if err != nil {
		return nil, err
	}
	return &geo.Point{Lat: la, Lng: lo}, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

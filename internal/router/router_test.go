package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donordarah/donor-darah-api/internal/handler"
	"github.com/donordarah/donor-darah-api/internal/utils"
)

const secret = "router-secret"

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// newServer wires every route with nil services: requests stopped by the
// auth gate never reach a handler.
func newServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler(logrus.New())
	RegisterRoutes(e, okPinger{})
	RegisterAuth(e, handler.NewAuthHandler(nil), secret)
	RegisterBloodBanks(e, handler.NewBloodBankHandler(nil), passThrough)
	RegisterDonations(e, handler.NewDonationHandler(nil), secret)
	RegisterUsers(e, handler.NewUserHandler(nil, nil), secret)
	return e
}

func call(e *echo.Echo, method, target string, userID uint64) int {
	req := httptest.NewRequest(method, target, nil)
	if userID != 0 {
		tok, err := utils.NewAccessToken(secret, userID, "u@example.com", time.Hour)
		if err != nil {
			panic(err)
		}
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouteTable(t *testing.T) {
	e := newServer()
	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /",
		"GET /healthz",
		"GET /metrics",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"GET /api/auth/me",
		"GET /api/blood-banks",
		"GET /api/blood-banks/:id",
		"GET /api/blood-banks/:id/stock",
		"POST /api/donations",
		"GET /api/donations/user/:userId",
		"GET /api/donations/:id",
		"PUT /api/donations/:id/status",
		"DELETE /api/donations/:id",
		"GET /api/users/profile/:id",
		"PUT /api/users/profile/:id",
		"PUT /api/users/password/:id",
		"GET /api/users/stats/:id",
	} {
		assert.True(t, have[want], want)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e := newServer()
	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/donations"},
		{http.MethodGet, "/api/donations/1"},
		{http.MethodPut, "/api/donations/1/status"},
		{http.MethodDelete, "/api/donations/1"},
		{http.MethodGet, "/api/donations/user/1"},
		{http.MethodGet, "/api/users/profile/1"},
		{http.MethodGet, "/api/users/stats/1"},
	} {
		assert.Equal(t, http.StatusUnauthorized, call(e, tc.method, tc.target, 0), tc.target)
	}
}

func TestSelfScopedRoutes(t *testing.T) {
	e := newServer()
	assert.Equal(t, http.StatusForbidden, call(e, http.MethodGet, "/api/donations/user/5", 6))
	assert.Equal(t, http.StatusForbidden, call(e, http.MethodGet, "/api/users/profile/5", 6))
	assert.Equal(t, http.StatusForbidden, call(e, http.MethodPut, "/api/users/password/5", 6))
	assert.Equal(t, http.StatusForbidden, call(e, http.MethodGet, "/api/users/stats/5", 6))
}

func TestOperationalRoutes(t *testing.T) {
	e := newServer()
	require.Equal(t, http.StatusOK, call(e, http.MethodGet, "/healthz", 0))
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/metrics", 0))
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/", 0))
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodGet, "/api/unknown", 0))
}

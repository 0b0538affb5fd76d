package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donordarah/donor-darah-api/internal/geo"
	"github.com/donordarah/donor-darah-api/internal/middleware"
	"github.com/donordarah/donor-darah-api/internal/model"
	"github.com/donordarah/donor-darah-api/internal/service"
	"github.com/donordarah/donor-darah-api/internal/utils"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logrus.New())
	return e
}

// asUser injects an authenticated identity the way JWTAuth does.
func asUser(id uint64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserID, id)
			c.Set(middleware.CtxEmail, "donor@example.com")
			return next(c)
		}
	}
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

// ----- fakes -----

type fakeBankService struct {
	gotLoc *geo.Point
	banks  []model.BloodBank
	err    error
}

func (f *fakeBankService) List(_ context.Context, loc *geo.Point) ([]model.BloodBank, error) {
	f.gotLoc = loc
	return f.banks, f.err
}

func (f *fakeBankService) Get(_ context.Context, id uint64) (model.BloodBankDetail, error) {
	if id != 1 {
		return model.BloodBankDetail{}, service.ErrNotFound
	}
	return model.BloodBankDetail{BloodBank: model.BloodBank{ID: 1}, BloodStock: []model.BloodStock{}}, nil
}

func (f *fakeBankService) Stock(context.Context, uint64) ([]model.BloodStock, error) {
	return []model.BloodStock{}, nil
}

type fakeDonationService struct {
	created   service.CreateDonationInput
	createErr error
	updateErr error
	deleteErr error
	deletedBy uint64
}

func (f *fakeDonationService) Create(_ context.Context, in service.CreateDonationInput) (model.Donation, error) {
	f.created = in
	if f.createErr != nil {
		return model.Donation{}, f.createErr
	}
	return model.Donation{ID: 10, UserID: in.UserID, Status: model.StatusPending}, nil
}

func (f *fakeDonationService) UpdateStatus(_ context.Context, id uint64, status string, _ *string) (model.Donation, error) {
	if f.updateErr != nil {
		return model.Donation{}, f.updateErr
	}
	return model.Donation{ID: id, Status: model.DonationStatus(status)}, nil
}

func (f *fakeDonationService) Get(_ context.Context, id uint64) (model.DonationView, error) {
	return model.DonationView{}, service.ErrNotFound
}

func (f *fakeDonationService) ListByUser(context.Context, uint64) ([]model.DonationView, error) {
	return []model.DonationView{}, nil
}

func (f *fakeDonationService) Delete(_ context.Context, _, requester uint64) error {
	f.deletedBy = requester
	return f.deleteErr
}

type fakeUserService struct {
	registerErr error
	loginErr    error
	changeErr   error
}

func (f *fakeUserService) Register(_ context.Context, in service.RegisterInput) (model.User, error) {
	if f.registerErr != nil {
		return model.User{}, f.registerErr
	}
	return model.User{ID: 1, Email: in.Email, PasswordHash: "secret-hash"}, nil
}

func (f *fakeUserService) Login(context.Context, string, string) (model.User, utils.AccessToken, error) {
	if f.loginErr != nil {
		return model.User{}, utils.AccessToken{}, f.loginErr
	}
	return model.User{ID: 1, PasswordHash: "secret-hash"}, utils.AccessToken{Token: "tok"}, nil
}

func (f *fakeUserService) Profile(_ context.Context, id uint64) (model.User, error) {
	return model.User{ID: id}, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, id uint64, _ service.ProfileInput) (model.User, error) {
	return model.User{ID: id}, nil
}

func (f *fakeUserService) ChangePassword(context.Context, uint64, service.PasswordInput) error {
	return f.changeErr
}

type fakeStats struct{}

func (fakeStats) ForUser(context.Context, uint64) (model.UserStats, error) {
	return model.UserStats{}, nil
}

// ----- tests -----

func TestBloodBankList(t *testing.T) {
	svc := &fakeBankService{banks: []model.BloodBank{}}
	h := NewBloodBankHandler(svc)
	e := newEcho()
	e.GET("/blood-banks", h.List)

	rec, env := do(t, e, http.MethodGet, "/blood-banks?lat=-6.2&lng=106.8", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, svc.gotLoc)
	assert.Equal(t, geo.Point{Lat: -6.2, Lng: 106.8}, *svc.gotLoc)

	_, _ = do(t, e, http.MethodGet, "/blood-banks?lat=-6.2", "")
	assert.Nil(t, svc.gotLoc, "one coordinate alone does not rank")

	rec, env = do(t, e, http.MethodGet, "/blood-banks?lat=abc&lng=106.8", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, e, http.MethodGet, "/blood-banks?lat=NaN&lng=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBloodBankListStoreFailure(t *testing.T) {
	h := NewBloodBankHandler(&fakeBankService{err: errors.New("db down")})
	e := newEcho()
	e.GET("/blood-banks", h.List)

	rec, env := do(t, e, http.MethodGet, "/blood-banks", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", env.Message)
}

func TestBloodBankGet(t *testing.T) {
	h := NewBloodBankHandler(&fakeBankService{})
	e := newEcho()
	e.GET("/blood-banks/:id", h.Get)

	rec, _ := do(t, e, http.MethodGet, "/blood-banks/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, e, http.MethodGet, "/blood-banks/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "blood bank not found", env.Message)

	rec, _ = do(t, e, http.MethodGet, "/blood-banks/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDonationCreate(t *testing.T) {
	svc := &fakeDonationService{}
	h := NewDonationHandler(svc)
	e := newEcho()
	e.POST("/donations", h.Create, asUser(7))

	rec, env := do(t, e, http.MethodPost, "/donations",
		`{"blood_bank_id":1,"donation_date":"2024-06-01","blood_type":"A+","quantity":350}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, uint64(7), svc.created.UserID)
	assert.Contains(t, string(env.Data), `"id":10`)

	rec, _ = do(t, e, http.MethodPost, "/donations", `{"user_id":8,"blood_bank_id":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/donations", `{"quantity":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.createErr = &service.ValidationError{Field: "quantity", Message: "must be greater than 0"}
	rec, env = do(t, e, http.MethodPost, "/donations", `{"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity: must be greater than 0", env.Message)
}

func TestDonationUpdateStatusErrors(t *testing.T) {
	svc := &fakeDonationService{}
	h := NewDonationHandler(svc)
	e := newEcho()
	e.PUT("/donations/:id/status", h.UpdateStatus, asUser(7))

	rec, env := do(t, e, http.MethodPut, "/donations/3/status", `{"status":"approved"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"approved"`)

	svc.updateErr = &service.ValidationError{Field: "status", Message: "bad"}
	rec, _ = do(t, e, http.MethodPut, "/donations/3/status", `{"status":"invalid_value"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.updateErr = service.ErrInvalidTransition
	rec, _ = do(t, e, http.MethodPut, "/donations/3/status", `{"status":"pending"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	svc.updateErr = service.ErrNotFound
	rec, env = do(t, e, http.MethodPut, "/donations/3/status", `{"status":"approved"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "donation not found", env.Message)
}

func TestDonationDelete(t *testing.T) {
	svc := &fakeDonationService{}
	h := NewDonationHandler(svc)
	e := newEcho()
	e.DELETE("/donations/:id", h.Delete, asUser(7))

	rec, _ := do(t, e, http.MethodDelete, "/donations/3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), svc.deletedBy)

	for err, code := range map[error]int{
		service.ErrNotFound:          http.StatusNotFound,
		service.ErrForbidden:         http.StatusForbidden,
		service.ErrInvalidTransition: http.StatusConflict,
	} {
		svc.deleteErr = err
		rec, env := do(t, e, http.MethodDelete, "/donations/3", "")
		assert.Equal(t, code, rec.Code, err.Error())
		assert.False(t, env.Success)
	}
}

func TestDonationListAndGet(t *testing.T) {
	h := NewDonationHandler(&fakeDonationService{})
	e := newEcho()
	e.GET("/donations/user/:userId", h.ListByUser, asUser(7))
	e.GET("/donations/:id", h.Get, asUser(7))

	rec, env := do(t, e, http.MethodGet, "/donations/user/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	rec, _ = do(t, e, http.MethodGet, "/donations/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc := &fakeUserService{}
	h := NewAuthHandler(svc)
	e := newEcho()
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.GET("/auth/me", h.Me, asUser(5))

	rec, env := do(t, e, http.MethodPost, "/auth/register", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, string(env.Data), "secret-hash")

	svc.registerErr = service.ErrEmailExists
	rec, _ = do(t, e, http.MethodPost, "/auth/register", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/auth/login", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"token":"tok"`)
	assert.NotContains(t, string(env.Data), "secret-hash")

	svc.loginErr = service.ErrInvalidCredentials
	rec, _ = do(t, e, http.MethodPost, "/auth/login", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5,"email":"donor@example.com"}`, string(env.Data))
}

func TestUserRoutes(t *testing.T) {
	svc := &fakeUserService{}
	h := NewUserHandler(svc, fakeStats{})
	e := newEcho()
	e.GET("/users/profile/:id", h.Profile)
	e.PUT("/users/password/:id", h.ChangePassword)
	e.GET("/users/stats/:id", h.Stats)

	rec, _ := do(t, e, http.MethodGet, "/users/profile/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, e, http.MethodGet, "/users/stats/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_donations":0,"total_blood_donated":0,"last_donation":null}`, string(env.Data))

	svc.changeErr = service.ErrInvalidCredentials
	rec, env = do(t, e, http.MethodPut, "/users/password/5", `{"old_password":"x","new_password":"yyyyyy"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "old password is incorrect", env.Message)
}

func TestErrorHandlerEnvelope(t *testing.T) {
	e := newEcho()
	e.GET("/exists", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/panics", func(c echo.Context) error { return errors.New("boom") })

	rec, env := do(t, e, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "endpoint not found", env.Message)
	assert.False(t, env.Success)

	rec, _ = do(t, e, http.MethodPost, "/exists", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/panics", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", env.Message)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthAndIndex(t *testing.T) {
	e := newEcho()
	e.GET("/", Index)
	e.GET("/up", Health(pingerFunc(func(context.Context) error { return nil })))
	e.GET("/down", Health(pingerFunc(func(context.Context) error { return errors.New("no db") })))

	rec, env := do(t, e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Donor Darah API", env.Message)
	assert.Contains(t, string(env.Data), `"version":"1.0.0"`)

	rec, _ = do(t, e, http.MethodGet, "/up", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, e, http.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

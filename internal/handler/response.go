package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/donordarah/donor-darah-api/internal/service"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, Response{Success: true, Message: msg, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Response{Success: false, Message: msg})
}

// writeError maps service errors onto status codes. subject names the
// resource in 404 messages ("donation not found"). Unexpected errors are
// logged with the request id and answered with a generic 500.
func writeError(c echo.Context, err error, subject string) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrNotFound):
		return fail(c, http.StatusNotFound, subject+" not found")
	case errors.Is(err, service.ErrForbidden):
		return fail(c, http.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrInvalidTransition):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmailExists):
		return fail(c, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"route":      c.Path(),
	}).Error("request failed")
	return fail(c, http.StatusInternalServerError, "internal server error")
}

// ErrorHandler renders framework errors (unknown route, wrong method,
// oversized body, recovered panics) with the same envelope as handlers.
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = http.StatusText(code)
			if code == http.StatusNotFound {
				msg = "endpoint not found"
			} else if s, isStr := he.Message.(string); isStr && s != "" && code < 500 {
				msg = s
			}
		}
		if code >= 500 {
			log.WithError(err).WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
			}).Error("unhandled error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = fail(c, code, msg)
		}
		if werr != nil {
			log.WithError(fmt.Errorf("write error response: %w", werr)).Warn("error handler")
		}
	}
}

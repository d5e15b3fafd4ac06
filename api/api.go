package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	rest "github.com/maintdesk/maintdesk/api/rest/v1"
	"github.com/maintdesk/maintdesk/internal/metrics"
	"github.com/maintdesk/maintdesk/pkg/apperr"
	"github.com/maintdesk/maintdesk/pkg/env"
	"github.com/maintdesk/maintdesk/pkg/log"
)

var server *echo.Echo

// ErrorResponse is the JSON envelope every failed request returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Start launches the maintdesk API.
func Start() error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	// health
	e.GET("/health", Health)

	// metrics
	metrics.Register()
	prometheus.NewPrometheus("maintdesk", nil).Use(e)

	// REST
	rest.Bind(e.Group("/v1"))

	server = e

	return e.Start(fmt.Sprintf(":%v", env.Variables().Port))
}

// Shutdown stops the API gracefully.
func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// errorHandler maps classified errors onto HTTP statuses via their
// kind and writes the failure envelope. Internal causes are logged
// and never leak to the caller.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status  = http.StatusInternalServerError
		message = "internal server error"
	)

	var (
		appErr  *apperr.Error
		httpErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &appErr):
		status = appErr.Kind.HTTPStatus()
		message = apperr.Message(err)
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failure",
			"error", err,
			"method", c.Request().Method,
			"path", c.Path(),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}

	_ = c.JSON(status, ErrorResponse{Success: false, Message: message})
}

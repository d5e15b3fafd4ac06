package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/auth"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Login(c echo.Context) error {
	var req auth.LoginRequest

	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return apperr.New(apperr.Validation, "email and password are required")
	}

	resp, err := auth.Service(c.Request().Context()).Login(&req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

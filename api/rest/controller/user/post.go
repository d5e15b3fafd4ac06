package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/user"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Post(c echo.Context) error {
	var req user.CreateRequest

	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	u, err := user.Service(c.Request().Context()).Create(&req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, u)
}

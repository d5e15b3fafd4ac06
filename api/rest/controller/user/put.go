package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/user"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Put(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req user.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	u, err := user.Service(c.Request().Context()).Update(id, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, u)
}

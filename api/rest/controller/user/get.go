package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/user"
)

func Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	u, err := user.Service(c.Request().Context()).Get(id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, u)
}

package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/user"
)

func Activate(c echo.Context) error {
	return setActive(c, true)
}

func Deactivate(c echo.Context) error {
	return setActive(c, false)
}

func setActive(c echo.Context, active bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	u, err := user.Service(c.Request().Context()).SetActive(id, active)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, u)
}

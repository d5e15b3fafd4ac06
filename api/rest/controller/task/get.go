package task

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
)

func Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	t, err := task.Service(c.Request().Context()).Get(id)
	if err != nil {
		return err
	}

	if err := requireVisible(c, t); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, t)
}

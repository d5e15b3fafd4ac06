package task

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
)

func Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := task.Service(c.Request().Context()).Delete(id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

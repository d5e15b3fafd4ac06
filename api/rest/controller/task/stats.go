package task

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
)

func Stats(c echo.Context) error {
	stats, err := task.Service(c.Request().Context()).Stats()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

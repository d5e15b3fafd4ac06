package task

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Put(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req task.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	t, err := task.Service(c.Request().Context()).Update(id, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, t)
}

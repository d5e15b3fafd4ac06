package task

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Post(c echo.Context) error {
	var req task.CreateRequest

	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	req.CreatedBy = middleware.Session(c).UserID

	t, err := task.Service(c.Request().Context()).Create(&req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, t)
}

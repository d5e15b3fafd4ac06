package task

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Assign(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	if req.UserID == uuid.Nil {
		return apperr.New(apperr.Validation, "user_id is required")
	}

	t, err := task.Service(c.Request().Context()).Assign(id, req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, t)
}

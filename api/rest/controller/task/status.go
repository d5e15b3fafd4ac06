package task

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

// Status updates a task's lifecycle status. Operators may only
// move tasks assigned to them.
func Status(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	svc := task.Service(c.Request().Context())

	if session := middleware.Session(c); session != nil && !session.Role.AtLeast(models.RoleSupervisor) {
		t, err := svc.Get(id)
		if err != nil {
			return err
		}
		if err := requireVisible(c, t); err != nil {
			return err
		}
	}

	t, err := svc.UpdateStatus(id, req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, t)
}

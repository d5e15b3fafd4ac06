package task

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.New(apperr.Validation, "invalid task id")
	}
	return id, nil
}

// requireVisible enforces operator visibility: operators may only
// touch tasks assigned to them. Supervisors and admins see
// everything. The entity service stays role-agnostic; this is the
// route layer's narrowing.
func requireVisible(c echo.Context, task *models.Task) error {
	session := middleware.Session(c)
	if session == nil {
		return apperr.New(apperr.Unauthorized, "missing bearer token")
	}

	if session.Role.AtLeast(models.RoleSupervisor) {
		return nil
	}

	if task.AssignedTo != nil && *task.AssignedTo == session.UserID {
		return nil
	}

	return apperr.New(apperr.Permission, "task is not assigned to you")
}

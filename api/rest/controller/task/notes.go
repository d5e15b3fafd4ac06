package task

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Notes(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	svc := task.Service(c.Request().Context())

	if err := requireOperatorScope(c, svc, id); err != nil {
		return err
	}

	notes, err := svc.Notes(id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notes)
}

func PostNote(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req task.NoteRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	req.TaskID = id
	req.UserID = middleware.Session(c).UserID

	svc := task.Service(c.Request().Context())

	if err := requireOperatorScope(c, svc, id); err != nil {
		return err
	}

	note, err := svc.AddNote(&req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, note)
}

// requireOperatorScope loads the task for operator callers and
// rejects the request unless it is assigned to them. Supervisors
// and admins skip the extra read.
func requireOperatorScope(c echo.Context, svc task.Task, id uuid.UUID) error {
	session := middleware.Session(c)
	if session == nil {
		return apperr.New(apperr.Unauthorized, "missing bearer token")
	}

	if session.Role.AtLeast(models.RoleSupervisor) {
		return nil
	}

	t, err := svc.Get(id)
	if err != nil {
		return err
	}

	return requireVisible(c, t)
}

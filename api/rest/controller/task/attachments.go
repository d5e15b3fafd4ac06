package task

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Attachments(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	svc := task.Service(c.Request().Context())

	if err := requireOperatorScope(c, svc, id); err != nil {
		return err
	}

	attachments, err := svc.Attachments(id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, attachments)
}

func PostAttachment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req task.AttachmentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	req.TaskID = id
	req.UploadedBy = middleware.Session(c).UserID

	svc := task.Service(c.Request().Context())

	if err := requireOperatorScope(c, svc, id); err != nil {
		return err
	}

	attachment, err := svc.AddAttachment(&req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, attachment)
}

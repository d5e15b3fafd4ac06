package report

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/api/rest/service/report"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Performance(c echo.Context) error {
	req, err := parseRequest(c)
	if err != nil {
		return err
	}

	resp, err := report.Service(c.Request().Context()).Performance(req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func parseRequest(c echo.Context) (*report.Request, error) {
	req := &report.Request{
		Type:     models.TaskType(c.QueryParam("type")),
		Priority: models.TaskPriority(c.QueryParam("priority")),
		Status:   models.TaskStatus(c.QueryParam("status")),
	}

	if raw := c.QueryParam("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "invalid from filter")
		}
		req.From = &ts
	}

	if raw := c.QueryParam("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "invalid to filter")
		}
		req.To = &ts
	}

	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "invalid user_id filter")
		}
		req.UserID = &id
	}

	// operators only report on their own tasks
	if session := middleware.Session(c); session != nil && !session.Role.AtLeast(models.RoleSupervisor) {
		userID := session.UserID
		req.UserID = &userID
	}

	return req, nil
}

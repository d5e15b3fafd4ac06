package task

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

// maxLimit caps the page size at the route layer; the service
// itself does not enforce an upper bound.
const maxLimit = 100

func List(c echo.Context) error {
	req, err := parseListRequest(c)
	if err != nil {
		return err
	}

	// operators only see tasks assigned to them
	if session := middleware.Session(c); session != nil && !session.Role.AtLeast(models.RoleSupervisor) {
		userID := session.UserID
		req.AssignedTo = &userID
	}

	resp, err := task.Service(c.Request().Context()).List(req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func parseListRequest(c echo.Context) (*task.ListRequest, error) {
	req := &task.ListRequest{
		Type:      models.TaskType(c.QueryParam("type")),
		Status:    models.TaskStatus(c.QueryParam("status")),
		Priority:  models.TaskPriority(c.QueryParam("priority")),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}

	if raw := c.QueryParam("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "invalid assigned_to filter")
		}
		req.AssignedTo = &id
	}

	if raw := c.QueryParam("created_by"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "invalid created_by filter")
		}
		req.CreatedBy = &id
	}

	if raw := c.QueryParam("due_before"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "invalid due_before filter")
		}
		req.DueBefore = &ts
	}

	if raw := c.QueryParam("due_after"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "invalid due_after filter")
		}
		req.DueAfter = &ts
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, apperr.New(apperr.Validation, "invalid page")
		}
		req.Page = page
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, apperr.New(apperr.Validation, "invalid limit")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		req.Limit = limit
	}

	return req, nil
}

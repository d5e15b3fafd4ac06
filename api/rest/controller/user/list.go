package user

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/user"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

const maxLimit = 100

func List(c echo.Context) error {
	req := &user.ListRequest{
		Role:   models.Role(c.QueryParam("role")),
		Search: c.QueryParam("search"),
	}

	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return apperr.New(apperr.Validation, "invalid is_active filter")
		}
		req.IsActive = &active
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return apperr.New(apperr.Validation, "invalid page")
		}
		req.Page = page
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return apperr.New(apperr.Validation, "invalid limit")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		req.Limit = limit
	}

	resp, err := user.Service(c.Request().Context()).List(req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

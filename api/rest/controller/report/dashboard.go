package report

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/report"
)

func Dashboard(c echo.Context) error {
	resp, err := report.Service(c.Request().Context()).Dashboard()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

package report

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/report"
)

func Export(c echo.Context) error {
	req, err := parseRequest(c)
	if err != nil {
		return err
	}

	data, contentType, err := report.Service(c.Request().Context()).
		Export(req, c.QueryParam("format"))
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, contentType, data)
}

package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/bind"
)

// Bind the REST endpoints to the versioned endpoint group.
func Bind(group *echo.Group) {
	bind.All(group)
}

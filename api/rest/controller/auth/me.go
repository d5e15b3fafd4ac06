package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/api/rest/service/user"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

func Me(c echo.Context) error {
	session := middleware.Session(c)

	u, err := user.Service(c.Request().Context()).Get(session.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, u)
}

// UpdateMe lets callers change their own name, email, or password.
// Role and activation changes are deliberately not accepted here;
// those go through the admin user routes.
func UpdateMe(c echo.Context) error {
	session := middleware.Session(c)

	var body struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}

	u, err := user.Service(c.Request().Context()).Update(session.UserID, &user.UpdateRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, u)
}

package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/api/rest/service/auth"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

const sessionKey = "maintdesk.session"

// Authenticate validates the bearer token and stores the decoded
// session on the request context. Deactivated accounts are
// rejected even when their token is otherwise valid.
func Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)

		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return apperr.New(apperr.Unauthorized, "missing bearer token")
		}

		session, err := auth.Service(c.Request().Context()).
			Validate(strings.TrimPrefix(header, prefix))
		if err != nil {
			return err
		}

		if !session.IsActive {
			return apperr.New(apperr.Unauthorized, "account is deactivated")
		}

		c.Set(sessionKey, session)

		return next(c)
	}
}

// Require rejects callers whose role does not grant at least the
// given role under the admin > supervisor > operator order.
func Require(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := Session(c)
			if session == nil {
				return apperr.New(apperr.Unauthorized, "missing bearer token")
			}

			if !session.Role.AtLeast(role) {
				return apperr.New(apperr.Permission, "insufficient role")
			}

			return next(c)
		}
	}
}

// Session returns the authenticated caller's session, or nil when
// the request has not passed Authenticate.
func Session(c echo.Context) *auth.Session {
	session, _ := c.Get(sessionKey).(*auth.Session)
	return session
}

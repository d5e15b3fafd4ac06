package task

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maintdesk/maintdesk/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

func emptyContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireVisibleWithoutSession(t *testing.T) {
	err := requireVisible(emptyContext(), nil)
	assert.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestRequireOperatorScopeWithoutSession(t *testing.T) {
	err := requireOperatorScope(emptyContext(), nil, uuid.New())
	assert.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

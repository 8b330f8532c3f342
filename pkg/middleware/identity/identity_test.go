package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProbe() *echo.Echo {
	e := echo.New()
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	}, Middleware())
	return e
}

func TestMissingHeaderIsUnauthorized(t *testing.T) {
	e := newProbe()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHeaderValueReachesHandler(t *testing.T) {
	e := newProbe()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(Header, "user-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

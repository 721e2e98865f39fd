package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kopikeliling/marketplace/pkg/tokens"
)

var secret = []byte("mw-secret")

func run(t *testing.T, h echo.HandlerFunc, authHeader string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return h(e.NewContext(req, rec))
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}

func TestRequireAuth(t *testing.T) {
	m := NewBearerAuth(secret)

	var gotID uint
	var gotRole string
	h := m.RequireAuth(func(c echo.Context) error {
		gotID, _ = UserID(c)
		gotRole = Role(c)
		return nil
	})

	require.Equal(t, http.StatusUnauthorized, httpCode(t, run(t, h, "")))
	require.Equal(t, http.StatusUnauthorized, httpCode(t, run(t, h, "Bearer garbage")))
	require.Equal(t, http.StatusUnauthorized, httpCode(t, run(t, h, "Basic abc")))

	tok, _, err := tokens.SignAccess(7, "staff", secret, time.Hour, time.Now())
	require.NoError(t, err)
	require.NoError(t, run(t, h, "Bearer "+tok))
	require.Equal(t, uint(7), gotID)
	require.Equal(t, "staff", gotRole)
}

func TestRequireValidator(t *testing.T) {
	m := NewBearerAuth(secret)
	onlyStaff := func(c *tokens.AccessClaims) error {
		if c.Role != "staff" {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
		return nil
	}
	called := false
	h := m.Require(onlyStaff)(func(c echo.Context) error {
		called = true
		return nil
	})

	tok, _, err := tokens.SignAccess(3, "customer", secret, time.Hour, time.Now())
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, httpCode(t, run(t, h, "Bearer "+tok)))
	require.False(t, called)
}

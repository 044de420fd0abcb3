package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatmate/seatmate/internal/utils"
)

func callProtected(t *testing.T, secret, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/daily-reset", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, JWTAuth(secret)(next)(c))
	return rec
}

func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"

	t.Run("valid token passes and exposes the caller", func(t *testing.T) {
		tok, err := utils.NewSchedulerToken(secret, time.Minute)
		require.NoError(t, err)
		rec := callProtected(t, secret, "Bearer "+tok)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := callProtected(t, secret, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme is rejected", func(t *testing.T) {
		rec := callProtected(t, secret, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		tok, err := utils.NewSchedulerToken("other-secret", time.Minute)
		require.NoError(t, err)
		rec := callProtected(t, secret, "Bearer "+tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		tok, err := utils.NewSchedulerToken(secret, -time.Minute)
		require.NoError(t, err)
		rec := callProtected(t, secret, "Bearer "+tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

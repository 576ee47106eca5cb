package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	helper "spectra_backend/internals/helpers"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix(), "sub": "4135"}).
		SignedString([]byte("someone-elses-key"))
	require.NoError(t, err)
	return tok
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Post("/p", RequireUpstreamToken(zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(helper.GetRawAccessToken(c))
	})
	return app
}

func TestRequireUpstreamToken(t *testing.T) {
	app := newApp()

	do := func(setup func(r *http.Request)) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/p", nil)
		setup(req)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	t.Run("missing token", func(t *testing.T) {
		resp := do(func(*http.Request) {})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bearer jwt", func(t *testing.T) {
		resp := do(func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signed(t, time.Now().Add(time.Hour)))
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("expired jwt", func(t *testing.T) {
		resp := do(func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signed(t, time.Now().Add(-time.Hour)))
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("opaque cookie token", func(t *testing.T) {
		resp := do(func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: helper.TokenCookie, Value: "opaque-token"})
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestValidateTokenExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{}, 0, now))
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() + 10)}, 0, now))
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() - 10)}, 30*time.Second, now))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() - 60)}, 30*time.Second, now))
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": "1700000100"}, 0, now))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": "soon"}, 0, now))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": true}, 0, now))
}

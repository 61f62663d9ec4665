package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(tokens TokenParser) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(tokens), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	app.Get("/admin", AuthMiddleware(tokens), AdminMiddleware, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenManager("secret", time.Hour)
	app := newAuthApp(tokens)
	token, err := tokens.Issue("u1", models.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"token header", "token", token, http.StatusOK},
		{"bearer", "Authorization", "Bearer " + token, http.StatusOK},
		{"malformed bearer", "Authorization", "Token " + token, http.StatusUnauthorized},
		{"bad token", "token", "abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	tokens := services.NewTokenManager("secret", time.Hour)
	app := newAuthApp(tokens)

	for role, want := range map[string]int{models.RoleUser: http.StatusForbidden, models.RoleAdmin: http.StatusOK} {
		token, err := tokens.Issue("u1", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("token", token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}

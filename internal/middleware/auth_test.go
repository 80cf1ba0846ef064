package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(secret), func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c).String())
	})
	return app
}

func TestProtected(t *testing.T) {
	userID := uuid.New()
	valid, err := GenerateToken(secret, userID, "a@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(secret, userID, "a@example.com", -time.Hour)
	require.NoError(t, err)
	forged, err := GenerateToken("other-secret", userID, "a@example.com", time.Hour)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		want   int
	}{
		"valid":      {"Bearer " + valid, fiber.StatusOK},
		"missing":    {"", fiber.StatusUnauthorized},
		"not bearer": {valid, fiber.StatusUnauthorized},
		"expired":    {"Bearer " + expired, fiber.StatusUnauthorized},
		"forged":     {"Bearer " + forged, fiber.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := newApp().Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

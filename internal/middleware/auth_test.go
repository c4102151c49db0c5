package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/user-only", RequireAuth(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": Claims(c).UserID})
	})
	app.Get("/admin-only", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": Claims(c).UserID})
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) (int, model.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body model.ErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	app := newProtectedApp()

	userToken, err := jwt.Mint(7, "user@example.com", jwt.RoleUser, jwt.UserSessionTTL)
	require.NoError(t, err)

	status, _ := get(t, app, "/user-only", userToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := get(t, app, "/user-only", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIAL", body.Code)

	status, _ = get(t, app, "/user-only", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

// An admin token and a user token are distinct artifacts: a valid user token
// on an admin route is Forbidden, while garbage is InvalidCredential.
func TestRequireAdminDistinguishesRoles(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	app := newProtectedApp()

	adminToken, err := jwt.Mint(1, "staff@example.com", jwt.RoleAdmin, jwt.AdminSessionTTL)
	require.NoError(t, err)
	userToken, err := jwt.Mint(7, "user@example.com", jwt.RoleUser, jwt.UserSessionTTL)
	require.NoError(t, err)

	status, _ := get(t, app, "/admin-only", adminToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := get(t, app, "/admin-only", userToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body.Code)

	status, body = get(t, app, "/admin-only", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIAL", body.Code)

	// Admin tokens also pass plain user auth.
	status, _ = get(t, app, "/user-only", adminToken)
	assert.Equal(t, fiber.StatusOK, status)
}

package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edvora/edvora-api/internal/auth/repository"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/pkg/jwt"
	"github.com/edvora/edvora-api/pkg/password"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "admin-handler-test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Tables()...))

	hash, err := password.HashPassword("staff-password")
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Admin{
		Name:         "Priya",
		Email:        "priya@edvora.in",
		PasswordHash: hash,
	}).Error)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	NewAdminHandler(repository.NewAdminRepository(db)).RegisterRoutes(app)
	return app
}

func postLogin(t *testing.T, app *fiber.App, email, pw string) (int, model.AdminAuthResponse) {
	t.Helper()
	payload, _ := json.Marshal(model.AdminLoginRequest{Email: email, Password: pw})
	req := httptest.NewRequest("POST", "/api/admin/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body model.AdminAuthResponse
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func TestAdminLogin(t *testing.T) {
	app := newTestApp(t)

	status, body := postLogin(t, app, "priya@edvora.in", "staff-password")
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "priya@edvora.in", body.Admin.Email)

	claims, err := jwt.Validate(body.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())

	status, _ = postLogin(t, app, "priya@edvora.in", "wrong-password")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = postLogin(t, app, "nobody@edvora.in", "staff-password")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminVerify(t *testing.T) {
	app := newTestApp(t)

	_, login := postLogin(t, app, "priya@edvora.in", "staff-password")
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest("GET", "/api/admin/verify", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body model.AdminVerifyResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Priya", body.Admin.Name)

	// A regular user token is not an admin session.
	userToken, err := jwt.Mint(42, "user@example.com", jwt.RoleUser, jwt.UserSessionTTL)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/api/admin/verify", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

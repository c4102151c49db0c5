package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/edvora/edvora-api/internal/auth/repository"
	"github.com/edvora/edvora-api/internal/auth/service"
	"github.com/edvora/edvora-api/internal/configs"
	"github.com/edvora/edvora-api/internal/database"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/internal/otp"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type recordingSender struct {
	bodies []string
}

func (r *recordingSender) Send(_ context.Context, _ string, body string) error {
	r.bodies = append(r.bodies, body)
	return nil
}

var codePattern = regexp.MustCompile(`\d{6}`)

func (r *recordingSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, r.bodies, "no SMS was sent")
	code := codePattern.FindString(r.bodies[len(r.bodies)-1])
	require.NotEmpty(t, code)
	return code
}

type stubVerifier struct {
	claim *model.ProviderClaim
}

func (s *stubVerifier) VerifyGoogle(context.Context, string) (*model.ProviderClaim, error) {
	return s.claim, nil
}

func (s *stubVerifier) VerifyFacebook(context.Context, string) (*model.ProviderClaim, error) {
	return s.claim, nil
}

type testEnv struct {
	app    *fiber.App
	sender *recordingSender
	stub   *stubVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "auth-handler-test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Tables()...))

	cache := database.NewMemoryCache()
	sender := &recordingSender{}
	stub := &stubVerifier{}

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		&configs.Config{},
		cache,
		otp.NewStore(cache, sender),
		stub,
	)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	limiter := middleware.NewRateLimiter(cache, 100, time.Minute)
	NewAuthHandler(authService).RegisterRoutes(app, limiter)

	return &testEnv{app: app, sender: sender, stub: stub}
}

func (e *testEnv) post(t *testing.T, path string, payload any) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRegistrationEndpoints(t *testing.T) {
	e := newTestEnv(t)

	// Registering before verifying the phone is refused.
	status, raw := e.post(t, "/api/register", model.RegisterRequest{
		FirstName:   "Asha",
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
		Password:    "sup3r-secret",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", decode[model.ErrorResponse](t, raw).Code)

	status, _ = e.post(t, "/api/send-otp", model.SendOtpRequest{PhoneNumber: "9876543210"})
	require.Equal(t, fiber.StatusOK, status)
	code := e.sender.lastCode(t)

	// Wrong code gets its own error class.
	status, raw = e.post(t, "/api/verify-otp", model.VerifyOtpRequest{PhoneNumber: "9876543210", Otp: "000000"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "OTP_MISMATCH", decode[model.ErrorResponse](t, raw).Code)

	// The number may be submitted in display format; it still matches.
	status, _ = e.post(t, "/api/verify-otp", model.VerifyOtpRequest{PhoneNumber: "+91 98765 43210", Otp: code})
	require.Equal(t, fiber.StatusOK, status)

	status, raw = e.post(t, "/api/register", model.RegisterRequest{
		FirstName:   "Asha",
		LastName:    "Verma",
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
		Password:    "sup3r-secret",
	})
	require.Equal(t, fiber.StatusCreated, status)
	auth := decode[model.AuthResponse](t, raw)
	assert.True(t, auth.Success)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "919876543210", auth.User.Phone)

	// The login endpoint accepts the same credentials.
	status, raw = e.post(t, "/api/login", model.LoginRequest{Email: "asha@example.com", Password: "sup3r-secret"})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, decode[model.AuthResponse](t, raw).Token)

	status, _ = e.post(t, "/api/login", model.LoginRequest{Email: "asha@example.com", Password: "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestGoogleSignupEndpoints(t *testing.T) {
	e := newTestEnv(t)
	e.stub.claim = &model.ProviderClaim{
		Email:     "ravi@example.com",
		FirstName: "Ravi",
		LastName:  "Nair",
		SubjectID: "google-sub-1",
		Provider:  model.ProviderGoogle,
	}

	status, raw := e.post(t, "/api/auth/google/signup", model.GoogleAuthRequest{Credential: "stub-credential"})
	require.Equal(t, fiber.StatusOK, status)
	temp := decode[model.TempUserResponse](t, raw)
	require.NotEmpty(t, temp.TempUser.LinkToken)
	assert.Equal(t, "ravi@example.com", temp.TempUser.Email)
	assert.Equal(t, "google", temp.TempUser.Provider)

	status, _ = e.post(t, "/api/send-otp", model.SendOtpRequest{PhoneNumber: "9876543210"})
	require.Equal(t, fiber.StatusOK, status)

	status, raw = e.post(t, "/api/auth/google/complete-signup", model.CompleteSignupRequest{
		TempUser:         temp.TempUser,
		PhoneNumber:      "9876543210",
		VerificationCode: e.sender.lastCode(t),
	})
	require.Equal(t, fiber.StatusCreated, status)
	auth := decode[model.AuthResponse](t, raw)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "ravi@example.com", auth.User.Email)

	// A second signup with the same Google identity is just a login.
	status, raw = e.post(t, "/api/auth/google/signup", model.GoogleAuthRequest{Credential: "stub-credential"})
	require.Equal(t, fiber.StatusOK, status)
	again := decode[model.AuthResponse](t, raw)
	assert.Equal(t, auth.User.ID, again.User.ID)
	assert.NotEmpty(t, again.Token)

	// And the plain login endpoint works for it too.
	status, _ = e.post(t, "/api/auth/google", model.GoogleAuthRequest{Credential: "stub-credential"})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCompleteSignupRejectsForgedToken(t *testing.T) {
	e := newTestEnv(t)

	status, _ := e.post(t, "/api/send-otp", model.SendOtpRequest{PhoneNumber: "9876543210"})
	require.Equal(t, fiber.StatusOK, status)

	// A made-up linking token finds no server-held identity, whatever else
	// the client claims about itself.
	status, raw := e.post(t, "/api/auth/google/complete-signup", model.CompleteSignupRequest{
		TempUser: model.PublicTempUser{
			LinkToken: "forged-token",
			Email:     "attacker@example.com",
			Provider:  "google",
		},
		PhoneNumber:      "9876543210",
		VerificationCode: e.sender.lastCode(t),
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIAL", decode[model.ErrorResponse](t, raw).Code)
}

func TestForgotPasswordEndpoints(t *testing.T) {
	e := newTestEnv(t)

	// Seed an account through the public surface.
	e.post(t, "/api/send-otp", model.SendOtpRequest{PhoneNumber: "9876543210"})
	e.post(t, "/api/verify-otp", model.VerifyOtpRequest{PhoneNumber: "9876543210", Otp: e.sender.lastCode(t)})
	status, _ := e.post(t, "/api/register", model.RegisterRequest{
		FirstName:   "Asha",
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
		Password:    "old-password",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = e.post(t, "/api/forgot-password/send-otp", model.ForgotPasswordSendRequest{PhoneNumber: "9876543210"})
	require.Equal(t, fiber.StatusOK, status)

	status, raw := e.post(t, "/api/forgot-password/verify-otp", model.ForgotPasswordVerifyRequest{
		PhoneNumber: "9876543210",
		Otp:         e.sender.lastCode(t),
	})
	require.Equal(t, fiber.StatusOK, status)
	verify := decode[model.ForgotPasswordVerifyResponse](t, raw)
	require.NotZero(t, verify.UserID)

	status, _ = e.post(t, "/api/forgot-password/reset", model.ResetPasswordRequest{
		UserID:      verify.UserID,
		NewPassword: "new-password",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = e.post(t, "/api/login", model.LoginRequest{Email: "asha@example.com", Password: "old-password"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = e.post(t, "/api/login", model.LoginRequest{Email: "asha@example.com", Password: "new-password"})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestProfileEndpoints(t *testing.T) {
	e := newTestEnv(t)

	e.post(t, "/api/send-otp", model.SendOtpRequest{PhoneNumber: "9876543210"})
	e.post(t, "/api/verify-otp", model.VerifyOtpRequest{PhoneNumber: "9876543210", Otp: e.sender.lastCode(t)})
	_, raw := e.post(t, "/api/register", model.RegisterRequest{
		FirstName:   "Asha",
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
		Password:    "password123",
	})
	token := decode[model.AuthResponse](t, raw).Token
	require.NotEmpty(t, token)

	req := httptest.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	grade := "12"
	body, _ := json.Marshal(model.UpdateProfileRequest{Grade: &grade})
	req = httptest.NewRequest("PUT", "/api/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = e.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile struct {
		Profile *model.Profile `json:"profile"`
	}
	rawBody, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(rawBody, &profile))
	require.NotNil(t, profile.Profile)
	assert.Equal(t, "12", profile.Profile.Grade)

	// No token, no profile.
	req = httptest.NewRequest("GET", "/api/profile", nil)
	resp, err = e.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

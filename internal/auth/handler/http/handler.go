// Package http exposes the authentication and identity-linking endpoints.
package http

import (
	"github.com/edvora/edvora-api/internal/auth/service"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes wires the public auth surface. otpLimiter fronts the two
// endpoints that cost an SMS per request.
func (h *AuthHandler) RegisterRoutes(app *fiber.App, otpLimiter *middleware.RateLimiter) {
	api := app.Group("/api")

	limit := middleware.LimitOtpSend(otpLimiter)
	api.Post("/send-otp", limit, h.SendOtp)
	api.Post("/verify-otp", h.VerifyOtp)
	api.Post("/register", h.Register)
	api.Post("/login", h.Login)

	api.Post("/auth/google", h.GoogleLogin)
	api.Post("/auth/google/signup", h.GoogleSignup)
	api.Post("/auth/google/complete-signup", h.CompleteSignup)
	api.Post("/auth/facebook/signup", h.FacebookSignup)
	api.Post("/auth/facebook/complete-signup", h.CompleteSignup)

	api.Post("/forgot-password/send-otp", limit, h.ForgotPasswordSendOtp)
	api.Post("/forgot-password/verify-otp", h.ForgotPasswordVerifyOtp)
	api.Post("/forgot-password/reset", h.ResetPassword)

	api.Post("/refresh-token", h.RefreshToken)

	api.Get("/profile", middleware.RequireAuth(), h.GetProfile)
	api.Put("/profile", middleware.RequireAuth(), h.UpdateProfile)
}

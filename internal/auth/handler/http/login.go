package http

import (
	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/gofiber/fiber/v2"
)

// Login accepts either email+password or phoneNumber+otp.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	var (
		user  *model.User
		token string
		err   error
	)
	switch {
	case req.Email != "" && req.Password != "":
		user, token, err = h.authService.LoginWithPassword(c.UserContext(), req.Email, req.Password)
	case req.PhoneNumber != "" && req.Otp != "":
		user, token, err = h.authService.LoginWithOtp(c.UserContext(), req.PhoneNumber, req.Otp)
	default:
		return apperrors.BadRequest("Provide email and password, or phoneNumber and otp")
	}
	if err != nil {
		return err
	}

	return c.JSON(model.AuthResponse{
		Success: true,
		Token:   token,
		User:    model.NewPublicUser(user),
	})
}

// RefreshToken reissues a full-lifetime token for a valid bearer token.
// Expired tokens cannot be refreshed; the client must log in again.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	tokenString := middleware.BearerToken(c)
	if tokenString == "" {
		return apperrors.AuthRequired
	}

	user, fresh, err := h.authService.RefreshToken(c.UserContext(), tokenString)
	if err != nil {
		return err
	}

	return c.JSON(model.AuthResponse{
		Success: true,
		Token:   fresh,
		User:    model.NewPublicUser(user),
	})
}

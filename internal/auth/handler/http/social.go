package http

import (
	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/auth/service"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/gofiber/fiber/v2"
)

// GoogleLogin authenticates an existing account with a Google ID token.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req model.GoogleAuthRequest
	if err := c.BodyParser(&req); err != nil || req.Credential == "" {
		return apperrors.BadRequest("credential is required")
	}

	user, token, err := h.authService.LoginWithGoogle(c.UserContext(), req.Credential)
	if err != nil {
		return err
	}

	return c.JSON(model.AuthResponse{
		Success: true,
		Token:   token,
		User:    model.NewPublicUser(user),
	})
}

// GoogleSignup starts a Google-backed registration. A known email comes back
// as a login instead of a second temporary identity.
func (h *AuthHandler) GoogleSignup(c *fiber.Ctx) error {
	var req model.GoogleAuthRequest
	if err := c.BodyParser(&req); err != nil || req.Credential == "" {
		return apperrors.BadRequest("credential is required")
	}

	result, err := h.authService.SignupWithGoogle(c.UserContext(), req.Credential)
	if err != nil {
		return err
	}
	return writeSignupResult(c, result)
}

// FacebookSignup starts a Facebook-backed registration.
func (h *AuthHandler) FacebookSignup(c *fiber.Ctx) error {
	var req model.FacebookAuthRequest
	if err := c.BodyParser(&req); err != nil || req.AccessToken == "" {
		return apperrors.BadRequest("accessToken is required")
	}

	result, err := h.authService.SignupWithFacebook(c.UserContext(), req.AccessToken)
	if err != nil {
		return err
	}
	return writeSignupResult(c, result)
}

// CompleteSignup finishes either provider's signup: it verifies the OTP and
// persists the permanent user from the server-held identity in one step.
func (h *AuthHandler) CompleteSignup(c *fiber.Ctx) error {
	var req model.CompleteSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.TempUser.LinkToken == "" || req.PhoneNumber == "" || req.VerificationCode == "" {
		return apperrors.BadRequest("tempUser.linkToken, phoneNumber and verificationCode are required")
	}

	user, token, err := h.authService.CompleteSocialSignup(
		c.UserContext(), req.TempUser.LinkToken, req.PhoneNumber, req.VerificationCode,
	)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(model.AuthResponse{
		Success: true,
		Token:   token,
		User:    model.NewPublicUser(user),
	})
}

func writeSignupResult(c *fiber.Ctx, result *service.SignupResult) error {
	if result.User != nil {
		return c.JSON(model.AuthResponse{
			Success: true,
			Token:   result.Token,
			User:    model.NewPublicUser(result.User),
		})
	}
	return c.JSON(model.TempUserResponse{
		Success:  true,
		TempUser: *result.TempUser,
	})
}

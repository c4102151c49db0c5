package http

import (
	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/internal/utils/validator"
	"github.com/gofiber/fiber/v2"
)

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	if req.FirstName == "" || req.Email == "" || req.PhoneNumber == "" || req.Password == "" {
		return apperrors.BadRequest("firstName, email, phoneNumber and password are required")
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		return err
	}

	user, token, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(model.AuthResponse{
		Success: true,
		Token:   token,
		User:    model.NewPublicUser(user),
	})
}

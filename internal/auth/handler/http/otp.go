package http

import (
	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/gofiber/fiber/v2"
)

func (h *AuthHandler) SendOtp(c *fiber.Ctx) error {
	var req model.SendOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.PhoneNumber == "" {
		return apperrors.BadRequest("phoneNumber is required")
	}

	// A client-supplied userId is never honoured here: only the
	// forgot-password flow may bind a code to an account, and it resolves
	// the id server-side.
	if err := h.authService.SendOtp(c.UserContext(), req.PhoneNumber, 0); err != nil {
		return err
	}

	return c.JSON(model.MessageResponse{
		Success: true,
		Message: "Verification code sent",
	})
}

func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req model.VerifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.PhoneNumber == "" || req.Otp == "" {
		return apperrors.BadRequest("phoneNumber and otp are required")
	}

	if err := h.authService.VerifyOtp(c.UserContext(), req.PhoneNumber, req.Otp); err != nil {
		return err
	}

	return c.JSON(model.MessageResponse{
		Success: true,
		Message: "Phone number verified",
	})
}

package http

import (
	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/internal/utils/validator"
	"github.com/gofiber/fiber/v2"
)

func (h *AuthHandler) ForgotPasswordSendOtp(c *fiber.Ctx) error {
	var req model.ForgotPasswordSendRequest
	if err := c.BodyParser(&req); err != nil || req.PhoneNumber == "" {
		return apperrors.BadRequest("phoneNumber is required")
	}

	if err := h.authService.ForgotPasswordSend(c.UserContext(), req.PhoneNumber); err != nil {
		return err
	}

	return c.JSON(model.MessageResponse{
		Success: true,
		Message: "Password reset code sent",
	})
}

func (h *AuthHandler) ForgotPasswordVerifyOtp(c *fiber.Ctx) error {
	var req model.ForgotPasswordVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.PhoneNumber == "" || req.Otp == "" {
		return apperrors.BadRequest("phoneNumber and otp are required")
	}

	userID, err := h.authService.ForgotPasswordVerify(c.UserContext(), req.PhoneNumber, req.Otp)
	if err != nil {
		return err
	}

	return c.JSON(model.ForgotPasswordVerifyResponse{
		Success: true,
		UserID:  userID,
		Message: "Code verified, you may now reset the password",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req model.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.UserID == 0 || req.NewPassword == "" {
		return apperrors.BadRequest("userId and newPassword are required")
	}
	if err := validator.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.UserID, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(model.MessageResponse{
		Success: true,
		Message: "Password has been reset",
	})
}

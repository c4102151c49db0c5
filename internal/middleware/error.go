package middleware

import (
	"errors"
	"log"
	"os"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-wide fiber error handler. Application errors map
// to their status and machine code; everything else collapses into a generic
// failure so internals never leak. The code field is attached outside
// production for debugging builds.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp := model.ErrorResponse{
			Success: false,
			Message: appErr.Message,
			Code:    string(appErr.Code),
		}
		return c.Status(appErr.Status).JSON(resp)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(model.ErrorResponse{
			Success: false,
			Message: fiberErr.Message,
		})
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)

	resp := model.ErrorResponse{
		Success: false,
		Message: apperrors.SomethingWentWrong.Message,
	}
	if os.Getenv("APP_ENV") != "production" {
		resp.Code = string(apperrors.CodeInternal)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

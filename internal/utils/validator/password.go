package validator

import (
	"github.com/edvora/edvora-api/internal/apperrors"
)

// ValidatePassword enforces a minimum length only. Composition rules push
// users toward predictable substitutions, so none are imposed.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.BadRequest("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return apperrors.BadRequest("password must be at most 128 characters long")
	}
	return nil
}

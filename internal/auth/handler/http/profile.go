package http

import (
	"errors"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/auth/repository"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/gofiber/fiber/v2"
)

type profileResponse struct {
	Success bool             `json:"success"`
	User    model.PublicUser `json:"user"`
	Profile *model.Profile   `json:"profile,omitempty"`
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	user, err := h.authService.FindUserByID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	profile, err := h.authService.Users().GetProfile(c.UserContext(), claims.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.SomethingWentWrong
	}

	return c.JSON(profileResponse{
		Success: true,
		User:    model.NewPublicUser(user),
		Profile: profile,
	})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req model.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	repo := h.authService.Users()
	if err := repo.UpdateNames(c.UserContext(), claims.UserID, req.FirstName, req.LastName); err != nil {
		return apperrors.SomethingWentWrong
	}

	if req.AvatarURL != nil || req.Bio != nil || req.Grade != nil || req.Stream != nil {
		profile, err := repo.GetProfile(c.UserContext(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			profile = &model.Profile{UserID: claims.UserID}
		} else if err != nil {
			return apperrors.SomethingWentWrong
		}

		if req.AvatarURL != nil {
			profile.AvatarURL = *req.AvatarURL
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if req.Grade != nil {
			profile.Grade = *req.Grade
		}
		if req.Stream != nil {
			profile.Stream = *req.Stream
		}
		if err := repo.UpsertProfile(c.UserContext(), profile); err != nil {
			return apperrors.SomethingWentWrong
		}
	}

	user, err := h.authService.FindUserByID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	profile, err := repo.GetProfile(c.UserContext(), claims.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.SomethingWentWrong
	}

	return c.JSON(profileResponse{
		Success: true,
		User:    model.NewPublicUser(user),
		Profile: profile,
	})
}

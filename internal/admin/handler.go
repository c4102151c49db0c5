// Package admin covers the staff-facing authentication surface.
package admin

import (
	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/auth/repository"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/pkg/jwt"
	"github.com/edvora/edvora-api/pkg/password"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminRepo repository.AdminRepository
}

func NewAdminHandler(adminRepo repository.AdminRepository) *AdminHandler {
	return &AdminHandler{adminRepo: adminRepo}
}

func (h *AdminHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/admin")
	api.Post("/login", h.Login)
	api.Get("/verify", middleware.RequireAdmin(), h.Verify)
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req model.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.BadRequest("email and password are required")
	}

	admin, err := h.adminRepo.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return apperrors.InvalidCredentials
	}
	if err := password.CheckPasswordHash(req.Password, admin.PasswordHash); err != nil {
		return apperrors.InvalidCredentials
	}

	token, err := jwt.Mint(admin.ID, admin.Email, jwt.RoleAdmin, jwt.AdminSessionTTL)
	if err != nil {
		return apperrors.SomethingWentWrong
	}

	return c.JSON(model.AdminAuthResponse{
		Success: true,
		Token:   token,
		Admin:   model.PublicAdmin{ID: admin.ID, Name: admin.Name, Email: admin.Email},
	})
}

// Verify echoes the admin identity behind a valid admin token; the frontend
// calls it on load to decide whether to show the dashboard.
func (h *AdminHandler) Verify(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	admin, err := h.adminRepo.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		return apperrors.InvalidToken
	}

	return c.JSON(model.AdminVerifyResponse{
		Success: true,
		Admin:   model.PublicAdmin{ID: admin.ID, Name: admin.Name, Email: admin.Email},
	})
}

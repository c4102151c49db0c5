package middleware

import (
	"errors"
	"strings"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

const (
	claimsKey = "auth_claims"
)

func stripToken(c *fiber.Ctx) (string, error) {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if authHeader == "" {
		return "", errors.New("authorization header is empty")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return "", errors.New("token missing after Bearer")
		}
		return token, nil
	}
	return "", errors.New("authorization header is not a bearer token")
}

// RequireAuth rejects requests without a valid bearer token and stores the
// claims for downstream handlers.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := stripToken(c)
		if err != nil {
			return apperrors.AuthRequired
		}

		claims, err := jwt.Validate(tokenString)
		if err != nil {
			return apperrors.InvalidToken
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin additionally demands the admin role. A well-formed user token
// is Forbidden, a malformed token is InvalidCredential; the two are
// deliberately distinguishable.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := stripToken(c)
		if err != nil {
			return apperrors.AuthRequired
		}

		claims, err := jwt.Validate(tokenString)
		if err != nil {
			return apperrors.InvalidToken
		}
		if !claims.IsAdmin() {
			return apperrors.AdminOnly
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// Claims returns the verified claims stored by RequireAuth/RequireAdmin.
func Claims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(claimsKey).(*jwt.Claims)
	return claims
}

// BearerToken re-extracts the raw token; used by the refresh endpoint.
func BearerToken(c *fiber.Ctx) string {
	token, _ := stripToken(c)
	return token
}

package jwt

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default session lifetimes. Admin sessions are shorter on purpose.
const (
	UserSessionTTL  = 7 * 24 * time.Hour
	AdminSessionTTL = 24 * time.Hour
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrInvalidToken covers malformed, expired, and badly-signed tokens
// uniformly so callers cannot leak which failure occurred.
var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrSecretNotConfigured = errors.New("JWT secret not configured")
)

type Claims struct {
	UserID    int64  `json:"userId"`
	UserEmail string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func GetJWTSecret() (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", ErrSecretNotConfigured
	}
	return secret, nil
}

// Mint signs a bearer token carrying the subject identity and expiry.
func Mint(userID int64, email, role string, ttl time.Duration) (string, error) {
	if role != RoleUser && role != RoleAdmin {
		return "", fmt.Errorf("unknown role %q", role)
	}
	secret, err := GetJWTSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		UserEmail: email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "edvora-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate checks the signature and expiry and returns the claims.
func Validate(tokenString string) (*Claims, error) {
	secret, err := GetJWTSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleUser && claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Refresh reissues a full-lifetime token for a still-valid one. There is no
// revocation list: an expired token can never be refreshed, and nothing else
// invalidates one.
func Refresh(tokenString string) (string, *Claims, error) {
	claims, err := Validate(tokenString)
	if err != nil {
		return "", nil, err
	}

	ttl := UserSessionTTL
	if claims.IsAdmin() {
		ttl = AdminSessionTTL
	}

	fresh, err := Mint(claims.UserID, claims.UserEmail, claims.Role, ttl)
	if err != nil {
		return "", nil, err
	}
	return fresh, claims, nil
}

// RemainingTTL reports how close a token is to expiry without verifying it;
// used only for renewal hints.
func RemainingTTL(tokenString string) time.Duration {
	claims := &Claims{}
	_, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims)
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}

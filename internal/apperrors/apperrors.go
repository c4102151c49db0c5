package apperrors

import (
	"github.com/gofiber/fiber/v2"
)

// Code is the machine-readable error class surfaced to clients. The web
// frontend branches on these, so OTP outcomes are never collapsed into a
// single generic failure.
type Code string

const (
	CodeInvalidCredential Code = "INVALID_CREDENTIAL"
	CodeOtpMismatch       Code = "OTP_MISMATCH"
	CodeOtpExpired        Code = "OTP_EXPIRED"
	CodeOtpNotFound       Code = "OTP_NOT_FOUND"
	CodeDuplicateIdentity Code = "DUPLICATE_IDENTITY"
	CodeProviderError     Code = "PROVIDER_ERROR"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeInternal          Code = "INTERNAL"
)

type AppError struct {
	Message string
	Code    Code
	Status  int
}

func (e *AppError) Error() string { return e.Message }

func New(message string, code Code, status int) *AppError {
	return &AppError{Message: message, Code: code, Status: status}
}

var (
	InvalidCredentials = New("Invalid email or password", CodeInvalidCredential, fiber.StatusUnauthorized)
	InvalidToken       = New("Invalid or expired token", CodeInvalidCredential, fiber.StatusUnauthorized)
	AuthRequired       = New("Authentication required", CodeInvalidCredential, fiber.StatusUnauthorized)
	AdminOnly          = New("Admin access required", CodeForbidden, fiber.StatusForbidden)

	OtpMismatch = New("Invalid verification code", CodeOtpMismatch, fiber.StatusBadRequest)
	OtpExpired  = New("Verification code has expired, please request a new one", CodeOtpExpired, fiber.StatusBadRequest)
	OtpNotFound = New("No verification code found for this number, please request a new one", CodeOtpNotFound, fiber.StatusBadRequest)

	EmailExists = New("An account with this email already exists", CodeDuplicateIdentity, fiber.StatusConflict)
	PhoneExists = New("An account with this phone number already exists", CodeDuplicateIdentity, fiber.StatusConflict)

	UserNotFound     = New("User not found", CodeNotFound, fiber.StatusNotFound)
	PhoneNotVerified = New("Phone number has not been verified", CodeForbidden, fiber.StatusForbidden)

	SomethingWentWrong = New("Something went wrong, please try again", CodeInternal, fiber.StatusInternalServerError)
)

// ProviderError wraps an upstream SMS/OAuth/payment provider failure with its
// diagnostic message attached. Generally retriable by the client.
func ProviderError(message string) *AppError {
	return New(message, CodeProviderError, fiber.StatusBadGateway)
}

func BadRequest(message string) *AppError {
	return New(message, CodeInvalidInput, fiber.StatusBadRequest)
}

func NotFound(message string) *AppError {
	return New(message, CodeNotFound, fiber.StatusNotFound)
}

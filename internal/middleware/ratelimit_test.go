package middleware

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edvora/edvora-api/internal/database"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cache := database.NewMemoryCache()
	cache.Now = func() time.Time { return now }

	rl := NewRateLimiter(cache, 3, 10*time.Minute).WithNow(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := rl.Allow(ctx, "phone:919876543210")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, retryAfter, err := rl.Allow(ctx, "phone:919876543210")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))

	// A different key has its own window.
	ok, _, err = rl.Allow(ctx, "phone:919123456780")
	require.NoError(t, err)
	assert.True(t, ok)

	// The window resets once it elapses.
	now = now.Add(11 * time.Minute)
	ok, _, err = rl.Allow(ctx, "phone:919876543210")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimitOtpSendHandler(t *testing.T) {
	cache := database.NewMemoryCache()
	rl := NewRateLimiter(cache, 2, 10*time.Minute)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/api/send-otp", LimitOtpSend(rl), func(c *fiber.Ctx) error {
		return c.JSON(model.MessageResponse{Success: true, Message: "sent"})
	})

	send := func() int {
		body := []byte(`{"phoneNumber":"9876543210"}`)
		req := httptest.NewRequest("POST", "/api/send-otp", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, send())
	assert.Equal(t, fiber.StatusOK, send())

	// Third hit within the window trips the limiter.
	assert.Equal(t, fiber.StatusTooManyRequests, send())
}

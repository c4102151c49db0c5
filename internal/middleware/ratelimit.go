package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/database"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/pkg/phone"
	"github.com/gofiber/fiber/v2"
)

// RateLimiter is a fixed-window counter over the shared cache. It fronts the
// OTP send endpoints, where every accepted request costs an SMS.
type RateLimiter struct {
	cache  database.CacheService
	limit  int
	window time.Duration

	now func() time.Time
}

type rateWindow struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"resetAt"`
}

func NewRateLimiter(cache database.CacheService, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{cache: cache, limit: limit, window: window, now: time.Now}
}

// WithNow overrides the limiter clock; tests only.
func (rl *RateLimiter) WithNow(now func() time.Time) *RateLimiter {
	rl.now = now
	return rl
}

// Allow counts a hit against the key and reports whether it fits the
// window. Last-writer-wins on concurrent updates is acceptable: the limit
// guards SMS spend, not correctness.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	cacheKey := "ratelimit:" + key

	var win rateWindow
	err := rl.cache.Get(ctx, cacheKey, &win)
	if errors.Is(err, database.ErrCacheMiss) || (err == nil && rl.now().After(win.ResetAt)) {
		win = rateWindow{Count: 0, ResetAt: rl.now().Add(rl.window)}
	} else if err != nil {
		// Fail open: a cache outage must not take down OTP delivery.
		return true, 0, err
	}

	if win.Count >= rl.limit {
		return false, win.ResetAt.Sub(rl.now()), nil
	}

	win.Count++
	if err := rl.cache.Set(ctx, cacheKey, win, win.ResetAt.Sub(rl.now())); err != nil {
		return true, 0, err
	}
	return true, 0, nil
}

// LimitOtpSend bounds OTP sends per phone number and per client IP.
func LimitOtpSend(limiter *RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.SendOtpRequest
		if err := c.BodyParser(&req); err != nil || req.PhoneNumber == "" {
			// Let the handler produce the validation error.
			return c.Next()
		}

		keys := []string{"ip:" + c.IP()}
		if canonical, err := phone.Normalize(req.PhoneNumber); err == nil {
			keys = append(keys, "phone:"+canonical)
		}

		for _, key := range keys {
			ok, retryAfter, err := limiter.Allow(c.UserContext(), key)
			if err != nil {
				continue
			}
			if !ok {
				c.Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
				return apperrors.New(
					"Too many verification codes requested, please try again later",
					apperrors.CodeRateLimited, fiber.StatusTooManyRequests,
				)
			}
		}
		return c.Next()
	}
}

package database

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist or has
// expired, across every CacheService implementation.
var ErrCacheMiss = errors.New("cache: key not found")

// CacheService is the keyed ephemeral store the auth workflow runs against:
// Redis in deployments, an in-memory map in tests and single-process dev.
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	RawClient() *redis.Client
}

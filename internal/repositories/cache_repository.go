package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface is the small cache contract the reference-data
// service speaks; the redis implementation is the only one in production.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

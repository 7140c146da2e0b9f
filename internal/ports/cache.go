package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=cache.go -destination=../mocks/cache_mock.go -package=mocks

// StatsCache is a short-TTL cache for dashboard aggregates. A miss returns
// found=false with a nil error; errors are reserved for transport faults.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

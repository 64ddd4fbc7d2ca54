package interfaces

import (
	"context"
	"time"
)

// LockRepositoryInterface serializes review writes on a single entity.
type LockRepositoryInterface interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

package locks

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	redisdb "loanflow/internal/pkg/db/redis"
	"loanflow/internal/pkg/logger"
)

// LocksRepository serializes concurrent reviews of the same entity with a
// short-lived SET NX key. The TTL bounds lock lifetime if a holder dies
// before releasing.
type LocksRepository struct {
	client *redis.Client
}

func NewLocksRepository(client *redisdb.RedisClient) *LocksRepository {
	return &LocksRepository{client: client.Client}
}

func (lr *LocksRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := lr.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		logger.CtxError(ctx, "Error acquiring lock", err, slog.String("key", key))
		return false, err
	}
	return acquired, nil
}

func (lr *LocksRepository) ReleaseLock(ctx context.Context, key string) error {
	if err := lr.client.Del(ctx, key).Err(); err != nil {
		logger.CtxError(ctx, "Error releasing lock", err, slog.String("key", key))
		return err
	}
	return nil
}

package locks

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"loanflow/internal/pkg/consts"
	redisdb "loanflow/internal/pkg/db/redis"
)

func newTestRepository(t *testing.T) (*LocksRepository, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	client := &redisdb.RedisClient{Client: redislib.NewClient(&redislib.Options{Addr: s.Addr()})}
	return NewLocksRepository(client), s
}

func TestAcquireLockOnlyOnce(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	key := consts.DocumentReviewLockPrefix + "65f0a1b2c3d4e5f6a7b8c9d0"

	acquired, err := repo.AcquireLock(ctx, key, 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, acquired)

	// Second holder must be refused while the first lock is live.
	acquired, err = repo.AcquireLock(ctx, key, 30*time.Second)
	assert.NoError(t, err)
	assert.False(t, acquired)
}

func TestReleaseLockFreesKey(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	key := consts.DocumentReviewLockPrefix + "65f0a1b2c3d4e5f6a7b8c9d0"

	acquired, err := repo.AcquireLock(ctx, key, 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, acquired)

	assert.NoError(t, repo.ReleaseLock(ctx, key))

	acquired, err = repo.AcquireLock(ctx, key, 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, acquired)
}

func TestLockExpiresAfterTTL(t *testing.T) {
	repo, s := newTestRepository(t)
	ctx := context.Background()
	key := consts.DocumentReviewLockPrefix + "65f0a1b2c3d4e5f6a7b8c9d0"

	acquired, err := repo.AcquireLock(ctx, key, 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, acquired)

	s.FastForward(31 * time.Second)

	acquired, err = repo.AcquireLock(ctx, key, 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, acquired)
}

func TestAcquireLockUnreachableServer(t *testing.T) {
	client := &redisdb.RedisClient{Client: redislib.NewClient(&redislib.Options{Addr: "127.0.0.1:1"})}
	repo := NewLocksRepository(client)

	acquired, err := repo.AcquireLock(context.Background(), "some-key", time.Second)
	assert.Error(t, err)
	assert.False(t, acquired)
}

package token

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Locker serializes token rotation per user. Two concurrent requests
// deciding to rotate the same user's tokens would otherwise both write,
// leaving one of them holding a token the store no longer recognizes.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

const (
	lockPrefix     = "rotation_lock:"
	lockTTL        = 5 * time.Second
	lockRetryDelay = 25 * time.Millisecond
)

var unlockScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with a value-guarded SET NX lease, so
// the lock holds across multiple service instances and expires on its
// own if a holder dies mid-rotation.
type RedisLocker struct {
	client *goredis.Client
}

func NewRedisLocker(client *goredis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockPrefix + key
	holder := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, holder, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("token: acquire rotation lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("token: acquire rotation lock: %w", ctx.Err())
		case <-time.After(lockRetryDelay):
		}
	}

	unlock := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(releaseCtx, l.client, []string{redisKey}, holder).Err()
	}
	return unlock, nil
}

// NoopLocker is used in tests and single-instance deployments without redis.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

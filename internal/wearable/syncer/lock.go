package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/wearsync/internal/wearable"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const lockKeyPrefix = "wearsync:sync-lock:"

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock taken over by another sync is left alone.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// ReleaseFunc gives a held lock back.
type ReleaseFunc func(ctx context.Context) error

// RedisLocker holds per-(provider, user) sync locks in Redis. The TTL bounds
// how long a crashed sync can block the next one.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration

	TokenFunc func() string
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rdb:       rdb,
		ttl:       ttl,
		TokenFunc: uuid.NewString,
	}
}

func LockKey(provider wearable.Provider, userID string) string {
	return fmt.Sprintf("%s%s:%s", lockKeyPrefix, provider, userID)
}

func (l *RedisLocker) Acquire(ctx context.Context, provider wearable.Provider, userID string) (ReleaseFunc, error) {
	key := LockKey(provider, userID)
	token := l.TokenFunc()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !ok {
		return nil, ErrSyncInProgress
	}

	return func(ctx context.Context) error {
		if err := l.rdb.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("release sync lock: %w", err)
		}
		return nil
	}, nil
}

// noopLocker is used when no Redis is configured.
type noopLocker struct{}

func (noopLocker) Acquire(context.Context, wearable.Provider, string) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}

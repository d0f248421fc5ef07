package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when the per-session lock cannot be taken
// within the acquisition window.
var ErrLockNotAcquired = errors.New("session lock not acquired")

// SessionLocker serializes mutating operations against a single interview
// session. Every state transition in the session service runs under this
// lock; it is part of the engine's contract, not an optimization.
type SessionLocker interface {
	// Acquire blocks until the lock for key is held or ctx expires, then
	// returns a release func. The lock self-expires after ttl in case the
	// holder dies.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

const acquireRetryInterval = 50 * time.Millisecond

type redisLocker struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisLocker(client *redis.Client, logger *slog.Logger) SessionLocker {
	return &redisLocker{client: client, logger: logger}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	lockKey := fmt.Sprintf("interview:lock:%s", key)

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			return func() { l.release(lockKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
		case <-time.After(acquireRetryInterval):
		}
	}
}

// release deletes the lock only if this holder still owns it; an expired lock
// taken over by another holder must not be removed.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (l *redisLocker) release(lockKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Error("Failed to release session lock", "key", lockKey, "error", err)
	}
}

// NoopLocker satisfies SessionLocker without any coordination. Tests use it.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return func() {}, nil
}

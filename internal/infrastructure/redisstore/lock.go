package redisstore

import (
	"context"
	"credit-approval/internal/batch"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds the caller's token,
// so an expired lease taken over by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client redis.UniversalClient
	logger *slog.Logger
}

var _ batch.Locker = (*Locker)(nil)

func NewLocker(client redis.UniversalClient, logger *slog.Logger) *Locker {
	return &Locker{client: client, logger: logger.With("component", "RedisLocker")}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyPrefix+"lock:"+key, token, ttl).Result()
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to acquire lock", "key", key, "error", err)
		return "", fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		l.logger.InfoContext(ctx, "Lock already held", "key", key)
		return "", fmt.Errorf("%w: lock %s is held", apperrors.ErrConflict, key)
	}
	return token, nil
}

func (l *Locker) Unlock(ctx context.Context, key, token string) error {
	released, err := releaseScript.Run(ctx, l.client, []string{keyPrefix + "lock:" + key}, token).Int()
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to release lock", "key", key, "error", err)
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	if released == 0 {
		l.logger.WarnContext(ctx, "Lock expired before release", "key", key)
	}
	return nil
}

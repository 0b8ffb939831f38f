package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"fitnessallies/backend/internal/config"
	"fitnessallies/backend/internal/logger"
)

const (
	keyPrefix    = "fitnessallies:lock:"
	pollInterval = 100 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock that someone else re-acquired is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance pointed at the same Redis.
type RedisLocker struct {
	log  *logger.Logger
	rdb  *goredis.Client
	ttl  time.Duration
	wait time.Duration
}

// NewRedisClient dials Redis and verifies the connection.
func NewRedisClient(cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisLocker(log *logger.Logger, rdb *goredis.Client, cfg config.LockConfig) *RedisLocker {
	return &RedisLocker{
		log:  log.With("service", "RedisLocker"),
		rdb:  rdb,
		ttl:  cfg.TTL,
		wait: cfg.Wait,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrBusy
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// The request context may already be cancelled.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.rdb, []string{redisKey}, token).Err(); err != nil {
				l.log.Warn("lock release failed; key will expire", "key", redisKey, "error", err)
			}
		})
	}
}

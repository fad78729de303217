package lock

import (
	"context"
	"errors"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/logger"
	"github.com/sirupsen/logrus"
)

// RedisLocker holds locks in Redis so they span every API instance
type RedisLocker struct {
	client *redislock.Client
	opts   Options
	log    logrus.FieldLogger
}

// NewRedisLocker creates a locker on top of an existing redis client
func NewRedisLocker(rdb *redis.Client, opts Options, log logrus.FieldLogger) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		opts:   opts,
		log:    log,
	}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, key, l.opts.TTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.opts.RetryBackoff), l.opts.RetryCount),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		logger.LogError(l.log, "lock", "Obtain", "could not obtain lock", key, err)
		return nil, apperror.ErrBusy
	}
	if err != nil {
		logger.LogError(l.log, "lock", "Obtain", "error obtaining lock", key, err)
		return nil, err
	}

	return func() {
		// The request context may already be canceled; release must still reach Redis.
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.LogError(l.log, "lock", "Release", "error releasing lock", key, err)
		}
	}, nil
}

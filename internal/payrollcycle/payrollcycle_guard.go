package payrollcycle

import (
	"context"
	"errors"
	"time"

	payrollcycleerrors "kazini-payroll/internal/payrollcycle/errors"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InFlightGuard admits one disbursement per key at a time across API replicas.
type InFlightGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type redisGuard struct {
	locker *redislock.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisGuard holds the lock for at most ttl, which must outlive the
// disbursement timeout.
func NewRedisGuard(rdb *redis.Client, ttl time.Duration) InFlightGuard {
	return &redisGuard{
		locker: redislock.New(rdb),
		ttl:    ttl,
		logger: zap.L().Named("payrollcycle.guard"),
	}
}

func (g *redisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := g.locker.Obtain(ctx, key, g.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, payrollcycleerrors.ErrDisbursementInProgress
	}
	if err != nil {
		return nil, err
	}

	return func() {
		// The request context may already be done here.
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.logger.Warn("release disbursement lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func disburseLockKey(cycleID string) string {
	return "payroll:disburse:" + cycleID
}

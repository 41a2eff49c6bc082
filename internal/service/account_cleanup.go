package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ExpiredAccountDeleter interface {
	DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error)
}

// AccountCleanup periodically deletes accounts that never verified their email
// before the verification link expired, which frees the address for a new
// registration. It blocks until ctx is done.
func AccountCleanup(ctx context.Context, every time.Duration, users ExpiredAccountDeleter) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	zap.L().Debug("Account cleanup attached", zap.Duration("tick_every", every))

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cleanupAccounts(ctx, users, now)
		}
	}
}

func cleanupAccounts(ctx context.Context, users ExpiredAccountDeleter, now time.Time) {
	n, err := users.DeleteExpiredUnverified(ctx, now)
	if err != nil {
		zap.L().Error("Failed to delete expired unverified accounts", zap.Error(err))
		return
	}

	if n > 0 {
		zap.L().Info("Deleted expired unverified accounts", zap.Int64("count", n))
	}
}

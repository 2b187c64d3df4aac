package jobs

import (
	"context"
	"time"

	"lebs-backend/internal/logger"
)

const jobTimeout = 5 * time.Minute

// PurgeExpiredArchives deletes archived inventory rows older than their
// one-year retention window.
func (jr *JobRunner) PurgeExpiredArchives() {
	jr.runWithRecovery("PurgeExpiredArchives", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		n, err := jr.store.ItemRepository.PurgeExpiredArchives(ctx)
		if err != nil {
			logger.Error("Failed to purge expired archives", "error", err)
			return
		}
		logger.Info("Purged expired inventory archives", "count", n)
	})
}

// PurgeStalePendingAdmins drops staged signups whose verification code
// was never confirmed.
func (jr *JobRunner) PurgeStalePendingAdmins() {
	jr.runWithRecovery("PurgeStalePendingAdmins", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		maxAge := time.Duration(jr.config.Scheduler.PendingAdminMaxAgeHours) * time.Hour
		n, err := jr.store.AdminRepository.DeleteStalePending(ctx, time.Now().Add(-maxAge))
		if err != nil {
			logger.Error("Failed to purge stale pending admins", "error", err)
			return
		}
		logger.Info("Purged stale pending admins", "count", n)
	})
}

// DeclineStaleReturns clears kiosk return claims that staff never acted
// on. The underlying transactions stay open, so the borrower can simply
// resubmit.
func (jr *JobRunner) DeclineStaleReturns() {
	jr.runWithRecovery("DeclineStaleReturns", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		maxAge := time.Duration(jr.config.Scheduler.PendingReturnMaxAgeDays) * 24 * time.Hour
		n, err := jr.store.PendingReturnRepository.DeclineStale(ctx, time.Now().Add(-maxAge))
		if err != nil {
			logger.Error("Failed to decline stale pending returns", "error", err)
			return
		}
		logger.Info("Declined stale pending returns", "count", n)
	})
}

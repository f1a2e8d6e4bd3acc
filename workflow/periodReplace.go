package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"gorm.io/gorm"

	"github.com/mmdatafocus/gmcalc_backend/config"
)

const uploadLockTTL = 2 * time.Minute

// acquireUploadLock takes a best-effort advisory lock serializing
// concurrent uploads and calculations for the same table and period.
// When Redis is down or the lock cannot be obtained the caller proceeds
// without it; last writer wins, same as a lone writer.
func acquireUploadLock(ctx context.Context, table string, monthYear string) *redislock.Lock {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil
	}
	key := fmt.Sprintf("upload:%s:%s", table, monthYear)
	lock, err := locker.Obtain(ctx, key, uploadLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(500*time.Millisecond), 10),
	})
	if err != nil {
		config.GetLogger().Warnf("upload lock %s not obtained: %v", key, err)
		return nil
	}
	return lock
}

func releaseUploadLock(ctx context.Context, lock *redislock.Lock) {
	if lock == nil {
		return
	}
	if err := lock.Release(ctx); err != nil && err != redislock.ErrLockNotHeld {
		config.GetLogger().Warnf("upload lock release: %v", err)
	}
}

// ReplaceForPeriod swaps out every row of a monthly table belonging to
// the current calendar month for the freshly uploaded rows, in one
// transaction. The earliest created_at of the replaced rows is preserved
// and restamped onto the new rows, so the period a re-uploaded sheet
// belongs to never drifts; updated_at always moves to now.
//
// stamp writes the two timestamps onto a row before insert.
func ReplaceForPeriod[T any](ctx context.Context, clock Clock, table string, rows []*T, stamp func(*T, time.Time, time.Time)) error {
	month, year := CurrentPeriod(clock)
	now := clock.Now()

	lock := acquireUploadLock(ctx, table, MonthYear(month, year))
	defer releaseUploadLock(ctx, lock)

	return config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var earliest sql.NullTime
		err := tx.Table(table).
			Where("MONTH(created_at) = ? AND YEAR(created_at) = ?", month, year).
			Select("MIN(created_at)").
			Scan(&earliest).Error
		if err != nil {
			return err
		}

		// Table names come from model TableName constants, never input.
		err = tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE MONTH(created_at) = ? AND YEAR(created_at) = ?", table),
			month, year,
		).Error
		if err != nil {
			return err
		}

		createdAt := now
		if earliest.Valid {
			createdAt = earliest.Time
		}
		for _, row := range rows {
			stamp(row, createdAt, now)
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Table(table).Create(rows).Error
	})
}

package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartStaleChallengeCleaner periodically deletes users that requested a
// login challenge but never completed login. Bound users (those with a
// public key on record) are never touched, so issued bearer credentials
// stay valid indefinitely.
func StartStaleChallengeCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention).Unix()
				res, err := db.ExecContext(ctx, `
                    DELETE FROM users
                     WHERE public_key IS NULL
                       AND challenge_issued_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean stale challenges", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned stale challenges", zap.Int64("removed", rows))
				}
			}
		}
	}()
}

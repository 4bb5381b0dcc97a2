package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/conf"
	"glasswing.dev/glasswing/dashboard"
	"glasswing.dev/glasswing/db"
	"glasswing.dev/glasswing/qrcode"
	"glasswing.dev/glasswing/screenshots"
)

func performMaintenance() {
	ctx := context.Background()
	queries := db.New(db.Pool)

	dashboard.CleanupExpiredSessions()

	// Delete domains that haven’t been triaged in a while; they are blocked by default,
	// and do not need to be included on the dashboard.
	interval := pgtype.Interval{
		Microseconds: 7 * 24 * 60 * 60 * 1000000, // 7 days
		Valid:        true,
	}
	deletedDomains, err := queries.DeleteUnauthorizedStaleDomains(ctx, interval)
	if err != nil {
		slog.Error("failed to delete stale domains", tint.Err(err))
	} else {
		slog.Info(fmt.Sprintf("%d domains deleted", deletedDomains))
	}

	logRetentionInterval := pgtype.Interval{
		Microseconds: int64(conf.Config.Logs.Retention / time.Microsecond),
		Valid:        true,
	}
	deletedLogs, err := queries.DeleteOldLogs(ctx, logRetentionInterval)
	if err != nil {
		slog.Error("failed to delete old logs", tint.Err(err))
	} else {
		slog.Info(fmt.Sprintf("%d logs deleted", deletedLogs))
	}

	// Prune caches
	if screenshots.Cache != nil {
		if err := screenshots.Cache.Prune(); err != nil {
			slog.Error("failed to prune screenshots cache", tint.Err(err))
		}
	}
	if dashboard.ThumbnailCache != nil {
		if err := dashboard.ThumbnailCache.Prune(); err != nil {
			slog.Error("failed to prune thumbnail cache", tint.Err(err))
		}
	}
	if qrcode.Cache != nil {
		if err := qrcode.Cache.Prune(); err != nil {
			slog.Error("failed to prune qrcode cache", tint.Err(err))
		}
	}
	slog.Info("Maintenance completed successfully")
}

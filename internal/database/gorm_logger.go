package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slogGormLogger adapts slog to GORM's logger.Interface. SQL statements are
// emitted at Debug level; level filtering is delegated entirely to slog, so
// the SQL formatting callback is never invoked unless Debug logging is on.
type slogGormLogger struct{}

// LogMode is a no-op; filtering happens in slog.
func (l slogGormLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l slogGormLogger) Info(_ context.Context, msg string, args ...any) {
	slog.Info(fmt.Sprintf(msg, args...))
}

func (l slogGormLogger) Warn(_ context.Context, msg string, args ...any) {
	slog.Warn(fmt.Sprintf(msg, args...))
}

func (l slogGormLogger) Error(_ context.Context, msg string, args ...any) {
	slog.Error(fmt.Sprintf(msg, args...))
}

// sqlLogLimit bounds the SQL text included in a log line.
const sqlLogLimit = 200

func clipSQL(sql string) string {
	if len(sql) <= sqlLogLimit {
		return sql
	}
	half := (sqlLogLimit - 3) / 2
	return sql[:half] + "..." + sql[len(sql)-half:]
}

// Trace runs after every SQL operation. ErrRecordNotFound is the normal
// "no rows" result of First() and is logged with successful queries at
// Debug level; real errors go to Error level.
func (l slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, rows := fc()
		slog.Error("store query failed",
			"sql", clipSQL(sql),
			"rows", rows,
			"duration", elapsed,
			"error", err,
		)
		return
	}

	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}

	sql, rows := fc()
	slog.Debug("store query",
		"sql", clipSQL(sql),
		"rows", rows,
		"duration", elapsed,
	)
}

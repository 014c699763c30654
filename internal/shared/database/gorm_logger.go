package database

import (
	"context"
	"errors"
	"time"

	"gamespace/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// gormLogger sends GORM's query log through the application logger
type gormLogger struct {
	log   *logger.Logger
	level gormlogger.LogLevel
}

func newGormLogger(l *logger.Logger, verbose bool) gormlogger.Interface {
	level := gormlogger.Warn
	if verbose {
		level = gormlogger.Info
	}
	return &gormLogger{log: l, level: level}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.InfoContext(ctx, msg, "args", args)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.WarnContext(ctx, msg, "args", args)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.ErrorContext(ctx, msg, "args", args)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	switch {
	case err != nil && g.level >= gormlogger.Error:
		sql, _ := fc()
		g.log.LogDBQuery(ctx, sql, elapsed, err)
	case elapsed > slowQuery && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.WarnContext(ctx, "Slow Database Query", "query", sql, "rows", rows, "duration", elapsed)
	case g.level >= gormlogger.Info:
		sql, _ := fc()
		g.log.LogDBQuery(ctx, sql, elapsed, nil)
	}
}

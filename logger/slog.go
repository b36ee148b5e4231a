package logger

import (
	"context"
	"log/slog"
	"time"

	"nexus.dev/orm/utils"
)

type slogLogger struct {
	Logger *slog.Logger
	Config
}

// NewSlogLogger creates a new logger on top of log/slog
func NewSlogLogger(logger *slog.Logger, config Config) Interface {
	return &slogLogger{Logger: logger, Config: config}
}

func (l *slogLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.log(ctx, slog.LevelInfo, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.log(ctx, slog.LevelWarn, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.log(ctx, slog.LevelError, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)
	kind := classify(l.Config, elapsed, err)
	if kind == traceNone {
		return
	}

	sql, rows := fc()
	attrs := []any{
		slog.Float64("elapsed_ms", ms(elapsed)),
		slog.String("sql", sql),
	}
	if rows != -1 {
		attrs = append(attrs, slog.Int64("rows", rows))
	}

	switch kind {
	case traceError:
		l.log(ctx, slog.LevelError, "query failed", append(attrs, slog.String("error", err.Error()))...)
	case traceSlow:
		l.log(ctx, slog.LevelWarn, "slow query", append(attrs, slog.String("slow_threshold", l.SlowThreshold.String()))...)
	default:
		l.log(ctx, slog.LevelInfo, "query", attrs...)
	}
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !l.Logger.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.Add(append(args, slog.String("file", utils.FileWithLineNum()))...)
	_ = l.Logger.Handler().Handle(ctx, r)
}

// ParamsFilter filter params
func (l *slogLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}

package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"nexus.dev/orm/utils"
)

// LogrusLogger implements Interface using logrus
type LogrusLogger struct {
	Logger *logrus.Logger
	Config
}

// NewLogrusLogger creates a new logger using logrus
func NewLogrusLogger(logger *logrus.Logger, config Config) Interface {
	return &LogrusLogger{Logger: logger, Config: config}
}

// LogMode sets the log level
func (l *LogrusLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusLogger) entry(ctx context.Context, data []interface{}) *logrus.Entry {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.Logger.WithContext(ctx).WithFields(logrus.Fields{
		"file": utils.FileWithLineNum(),
		"data": data,
	})
}

// Info logs info messages
func (l *LogrusLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.entry(ctx, data).Info(msg)
	}
}

// Warn logs warning messages
func (l *LogrusLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.entry(ctx, data).Warn(msg)
	}
}

// Error logs error messages
func (l *LogrusLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.entry(ctx, data).Error(msg)
	}
}

// Trace logs an executed statement
func (l *LogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)
	kind := classify(l.Config, elapsed, err)
	if kind == traceNone {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	sql, rows := fc()
	fields := logrus.Fields{
		"file":       utils.FileWithLineNum(),
		"elapsed_ms": ms(elapsed),
		"sql":        sql,
	}
	if rows != -1 {
		fields["rows"] = rows
	}
	entry := l.Logger.WithContext(ctx).WithFields(fields)

	switch kind {
	case traceError:
		entry.WithError(err).Error("query failed")
	case traceSlow:
		entry.WithField("slow_threshold", l.SlowThreshold.String()).Warn("slow query")
	default:
		entry.Info("query")
	}
}

// ParamsFilter filters SQL parameters
func (l *LogrusLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}

// LogrusLevel converts LogLevel to logrus.Level
func LogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case Silent:
		return logrus.PanicLevel
	case Error:
		return logrus.ErrorLevel
	case Warn:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

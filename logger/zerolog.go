package logger

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"nexus.dev/orm/utils"
)

// ZerologLogger implements Interface using zerolog
type ZerologLogger struct {
	Logger zerolog.Logger
	Config
}

// NewZerologLogger creates a new logger using zerolog
func NewZerologLogger(logger zerolog.Logger, config Config) Interface {
	return &ZerologLogger{Logger: logger, Config: config}
}

// NewZerologConsoleLogger builds a human readable zerolog logger writing to out
func NewZerologConsoleLogger(out io.Writer, config Config) Interface {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(ZerologLevel(config.LogLevel)).
		With().
		Timestamp().
		Logger()
	return NewZerologLogger(logger, config)
}

// LogMode sets the log level
func (l *ZerologLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZerologLogger) message(ctx context.Context, event *zerolog.Event, msg string, data []interface{}) {
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	event.Str("file", utils.FileWithLineNum()).Interface("data", data).Msg(msg)
}

// Info logs info messages
func (l *ZerologLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.message(ctx, l.Logger.Info(), msg, data)
	}
}

// Warn logs warning messages
func (l *ZerologLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.message(ctx, l.Logger.Warn(), msg, data)
	}
}

// Error logs error messages
func (l *ZerologLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.message(ctx, l.Logger.Error(), msg, data)
	}
}

// Trace logs an executed statement
func (l *ZerologLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)

	var (
		event *zerolog.Event
		msg   string
	)
	switch classify(l.Config, elapsed, err) {
	case traceError:
		event, msg = l.Logger.Error().Err(err), "query failed"
	case traceSlow:
		event, msg = l.Logger.Warn().Str("slow_threshold", l.SlowThreshold.String()), "slow query"
	case traceInfo:
		event, msg = l.Logger.Info(), "query"
	default:
		return
	}

	sql, rows := fc()
	event = event.
		Str("file", utils.FileWithLineNum()).
		Float64("elapsed_ms", ms(elapsed)).
		Str("sql", sql)
	if rows != -1 {
		event = event.Int64("rows", rows)
	}
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	event.Msg(msg)
}

// ParamsFilter filters SQL parameters
func (l *ZerologLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}

// ZerologLevel converts LogLevel to zerolog.Level
func ZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case Silent:
		return zerolog.Disabled
	case Error:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type adapter struct {
	name string
	new  func(buf *bytes.Buffer, config Config) Interface
}

var adapters = []adapter{
	{"writer", func(buf *bytes.Buffer, config Config) Interface {
		return New(log.New(buf, "", 0), config)
	}},
	{"zap", func(buf *bytes.Buffer, config Config) Interface {
		core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(buf), zapcore.DebugLevel)
		return NewZapLogger(zap.New(core), config)
	}},
	{"zerolog", func(buf *bytes.Buffer, config Config) Interface {
		return NewZerologLogger(zerolog.New(buf), config)
	}},
	{"logrus", func(buf *bytes.Buffer, config Config) Interface {
		l := logrus.New()
		l.SetOutput(buf)
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.DebugLevel)
		return NewLogrusLogger(l, config)
	}},
	{"slog", func(buf *bytes.Buffer, config Config) Interface {
		return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), config)
	}},
}

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestTrace(t *testing.T) {
	ctx := context.Background()

	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := a.new(&buf, Config{LogLevel: Info, SlowThreshold: time.Second})
			l.Trace(ctx, time.Now(), statement("SELECT * FROM users", 2), nil)
			assert.Contains(t, buf.String(), "SELECT * FROM users")

			buf.Reset()
			l.Trace(ctx, time.Now(), statement("INSERT INTO users", 1), errors.New("disk full"))
			assert.Contains(t, buf.String(), "INSERT INTO users")
			assert.Contains(t, buf.String(), "disk full")

			buf.Reset()
			l.Trace(ctx, time.Now().Add(-2*time.Second), statement("SELECT sleep(2)", 1), nil)
			assert.Contains(t, buf.String(), "SELECT sleep(2)")
			assert.Contains(t, buf.String(), "1s")
		})
	}
}

func TestTraceLevels(t *testing.T) {
	ctx := context.Background()

	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := a.new(&buf, Config{LogLevel: Warn, SlowThreshold: time.Second})
			l.Trace(ctx, time.Now(), statement("SELECT 1", 1), nil)
			assert.Empty(t, buf.String(), "fast queries are not logged at warn")

			l.LogMode(Silent).Trace(ctx, time.Now(), statement("SELECT 2", -1), errors.New("boom"))
			assert.Empty(t, buf.String(), "silent logs nothing")

			called := false
			l.Trace(ctx, time.Now(), func() (string, int64) {
				called = true
				return "SELECT 3", 1
			}, nil)
			assert.False(t, called, "statement is not rendered when nothing is logged")
		})
	}
}

func TestMessages(t *testing.T) {
	ctx := context.Background()

	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := a.new(&buf, Config{LogLevel: Info})

			l.Info(ctx, "migrated %s", "create_users")
			l.Warn(ctx, "pending %d", 3)
			l.Error(ctx, "failed %s", "create_posts")

			out := buf.String()
			assert.Contains(t, out, "migrated")
			assert.Contains(t, out, "pending")
			assert.Contains(t, out, "failed")

			buf.Reset()
			l.LogMode(Error).Info(ctx, "hidden")
			assert.NotContains(t, buf.String(), "hidden")
		})
	}
}

func TestLogModeDoesNotMutate(t *testing.T) {
	l := NewZapLogger(zap.NewNop(), Config{LogLevel: Error})
	info := l.LogMode(Info)

	assert.Equal(t, Info, info.(*ZapLogger).LogLevel)
	assert.Equal(t, Error, l.(*ZapLogger).LogLevel)
}

func TestParamsFilter(t *testing.T) {
	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			var buf bytes.Buffer

			filter, ok := a.new(&buf, Config{ParameterizedQueries: true}).(ParamsFilter)
			if assert.True(t, ok) {
				sql, params := filter.ParamsFilter(context.Background(), "SELECT ?", 1)
				assert.Equal(t, "SELECT ?", sql)
				assert.Nil(t, params)
			}

			filter = a.new(&buf, Config{}).(ParamsFilter)
			_, params := filter.ParamsFilter(context.Background(), "SELECT ?", 1)
			assert.Equal(t, []interface{}{1}, params)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for name, level := range map[string]LogLevel{
		"silent": Silent,
		"ERROR":  Error,
		"warn":   Warn,
		"info":   Info,
		"debug":  Info,
		"":       Warn,
	} {
		assert.Equal(t, level, ParseLevel(name), fmt.Sprintf("%q", name))
	}
}

func TestLevelConversions(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, ZapLevel(Warn))
	assert.Equal(t, zerolog.Disabled, ZerologLevel(Silent))
	assert.Equal(t, logrus.ErrorLevel, LogrusLevel(Error))
}

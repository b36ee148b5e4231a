package config

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus.dev/orm/logger"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"text", "json", "console", "logrus"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := LogConfig{Level: "info", Format: format}.NewLogger(&buf)
			require.NoError(t, err)

			l.Info(context.Background(), "migrated %s", "create_users")
			assert.Contains(t, buf.String(), "migrated")
			assert.Contains(t, buf.String(), "create_users")
		})
	}

	_, err := LogConfig{Format: "xml"}.NewLogger(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestLoggerConfig(t *testing.T) {
	config := LogConfig{Level: "error", Parameterized: true}.LoggerConfig()
	assert.Equal(t, logger.Error, config.LogLevel)
	assert.True(t, config.ParameterizedQueries)
}

func TestSilentLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := LogConfig{Level: "silent", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	l.Error(context.Background(), "boom")
	assert.Empty(t, buf.String())
}

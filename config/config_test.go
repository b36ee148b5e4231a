package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
database:
  driver: postgres
  host: db.internal
  port: 5432
  database: app
  username: nexus
  options:
    sslmode: require
log:
  level: info
  format: json
  slow_threshold: 1s
migrations:
  table: schema_migrations
  dir: database/migrations
`)

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "require", cfg.Database.Options["sslmode"])
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.Log.SlowThreshold)
	assert.Equal(t, "schema_migrations", cfg.Migrations.Table)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "database/database.sqlite", cfg.Database.Database)
	assert.Equal(t, "migrations", cfg.Migrations.Table)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "database:\n  driver: sqlite\n  database: app.sqlite\n")

	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_PARAMETERIZED", "true")

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, "app.sqlite", cfg.Database.Database)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.True(t, cfg.Log.Parameterized)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "DB_DATABASE=from_dotenv.sqlite\nDB_USERNAME=dotenv_user\n")

	t.Setenv("DB_USERNAME", "shell_user")
	t.Cleanup(func() { os.Unsetenv("DB_DATABASE") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "from_dotenv.sqlite", cfg.Database.Database)
	assert.Equal(t, "shell_user", cfg.Database.Username, "the environment wins over .env")
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "missing.env")

	t.Run("driver", func(t *testing.T) {
		path := writeFile(t, dir, "driver.yaml", "database:\n  driver: oracle\n")
		_, err := Load(path, envFile)
		assert.ErrorContains(t, err, "unsupported driver")
	})

	t.Run("port", func(t *testing.T) {
		t.Setenv("DB_PORT", "not-a-port")
		_, err := Load("", envFile)
		assert.ErrorContains(t, err, "DB_PORT")
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, dir, "broken.yaml", "database: [")
		_, err := Load(path, envFile)
		assert.ErrorContains(t, err, "parsing config file")
	})
}

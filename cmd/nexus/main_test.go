package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus.dev/orm/migrator"
)

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "nexus.yaml")
	content := "database:\n  driver: sqlite\n  database: " + filepath.Join(dir, "db", "app.sqlite") + "\nlog:\n  level: silent\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	path := writeConfig(t)
	envFile := filepath.Join(t.TempDir(), "missing.env")

	var out bytes.Buffer
	require.NoError(t, run("migrate", path, envFile, true, false, &out))

	var result migrator.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, migrator.StatusSuccess, result.Status)
	assert.Equal(t, 5, result.Count)

	out.Reset()
	require.NoError(t, run("status", path, envFile, false, false, &out))
	assert.Contains(t, out.String(), "2025_11_12_211750_create_users_table")
	assert.Contains(t, out.String(), migrator.StatusExecuted)

	out.Reset()
	require.NoError(t, run("rollback", path, envFile, false, false, &out))
	assert.Contains(t, out.String(), "Rolled back 5 migration(s)")

	out.Reset()
	require.NoError(t, run("status", path, envFile, true, false, &out))
	var statuses []migrator.Status
	require.NoError(t, json.Unmarshal(out.Bytes(), &statuses))
	require.Len(t, statuses, 5)
	assert.Equal(t, migrator.StatusPending, statuses[0].Status)

	assert.ErrorContains(t, run("seed", path, envFile, false, false, &out), "unknown command")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "cookie", cfg.SessionStore)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, "00:05", cfg.MaintenanceTime)
	assert.True(t, cfg.MaintenanceEnabled)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("TIMEZONE", "Asia/Bangkok")
	t.Setenv("MAINTENANCE_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "Asia/Bangkok", cfg.Location.String())
	assert.False(t, cfg.MaintenanceEnabled)
}

func TestLoad_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DATABASE=from_file\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { os.Unsetenv("MONGO_DATABASE") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from_file", cfg.MongoDatabase)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	isolate(t)

	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("DB_DRIVER", "oracle")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_STORE", "memcached")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadMaintenanceTimeWhenDisabled(t *testing.T) {
	isolate(t)
	t.Setenv("MAINTENANCE_ENABLED", "false")
	t.Setenv("MAINTENANCE_TIME", "25:00")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAINTENANCE_TIME")
}

package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapEnvToGinMode(t *testing.T) {
	tests := map[string]string{
		"production":  "release",
		"prod":        "release",
		"release":     "release",
		"test":        "test",
		"development": "debug",
		"":            "debug",
	}
	for env, want := range tests {
		assert.Equal(t, want, MapEnvToGinMode(env), env)
	}
}

func TestRuntime_OpenDatabaseSQLite(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("NOTIFYD_DATABASE_DRIVER", "sqlite")
	t.Setenv("NOTIFYD_DATABASE_PATH", "file::memory:?cache=shared")
	t.Setenv("NOTIFYD_LOGGER_OUTPUT_PATH", "stderr")

	rt, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, "test", rt.Config.Server.Mode)

	db, err := rt.OpenDatabase(false)
	require.NoError(t, err)
	defer rt.Close()

	assert.True(t, db.Migrator().HasTable("user_notifications"))
}

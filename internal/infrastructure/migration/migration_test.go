package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/notifyd/internal/shared/config"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

func TestNewManager_SelectsStrategyByDriver(t *testing.T) {
	log := logger.NewLogger()

	assert.Equal(t, "gorm_auto_migrate", NewManager(config.DriverSQLite, log).GetStrategy().GetName())
	assert.Equal(t, "goose", NewManager(config.DriverMySQL, log).GetStrategy().GetName())
}

func TestGormAutoMigrate_CreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, NewManager(config.DriverSQLite, logger.NewLogger()).Migrate(db))

	for _, table := range []string{"users", "notifications", "user_notifications"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("user_notifications", "uk_user_notification"))
}

func TestEmbeddedScripts_ArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedScripts, scriptsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		data, err := fs.ReadFile(embeddedScripts, scriptsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(data), "-- +goose Up", e.Name())
		assert.Contains(t, string(data), "-- +goose Down", e.Name())
	}
}

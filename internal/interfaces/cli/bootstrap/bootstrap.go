// Package bootstrap loads config, logging and the database for CLI commands.
package bootstrap

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/orris-inc/notifyd/internal/infrastructure/config"
	"github.com/orris-inc/notifyd/internal/infrastructure/database"
	"github.com/orris-inc/notifyd/internal/infrastructure/migration"
	httpRouter "github.com/orris-inc/notifyd/internal/interfaces/http"
	sharedConfig "github.com/orris-inc/notifyd/internal/shared/config"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

// Runtime is what every command needs after startup.
type Runtime struct {
	Env    string
	Config *config.Config
	Log    logger.Interface
}

// Load reads configuration for env and initializes the logger. ENV overrides env.
func Load(env string) (*Runtime, error) {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Runtime{
		Env:    env,
		Config: cfg,
		Log:    logger.NewLogger(),
	}, nil
}

// OpenDatabase connects the process-wide database. SQLite databases are always
// auto-migrated; MySQL only when autoMigrate is set.
func (r *Runtime) OpenDatabase(autoMigrate bool) (*gorm.DB, error) {
	if err := database.Init(&r.Config.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	db := database.Get()

	if autoMigrate || r.Config.Database.Driver == sharedConfig.DriverSQLite {
		if autoMigrate && r.Env == "production" {
			r.Log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		if err := migration.NewManager(r.Config.Database.Driver, r.Log).Migrate(db); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	return db, nil
}

// OpenContainer connects the database and wires services for one-shot
// commands. Background workers are not started.
func (r *Runtime) OpenContainer() (*httpRouter.Container, error) {
	db, err := r.OpenDatabase(false)
	if err != nil {
		return nil, err
	}

	container, err := httpRouter.NewContainer(db, r.Config, r.Log)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to build container: %w", err)
	}
	return container, nil
}

func (r *Runtime) Close() {
	if err := database.Close(); err != nil {
		r.Log.Warnw("failed to close database", "error", err)
	}
}

func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

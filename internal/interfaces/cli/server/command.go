package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/seeds"
	"github.com/orris-inc/notifyd/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/notifyd/internal/interfaces/http"
)

const shutdownTimeout = 30 * time.Second

var (
	env         string
	autoMigrate bool
	seedDemo    bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the notifyd delivery gateway: REST endpoints, the realtime stream and the health check.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (always on for sqlite)")
	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "Insert the demo user directory if missing")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Load(env)
	if err != nil {
		return err
	}
	log := rt.Log
	cfg := rt.Config

	log.Infow("starting server",
		"environment", rt.Env,
		"auto_migrate", autoMigrate,
		"database_driver", cfg.Database.Driver)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	db, err := rt.OpenDatabase(autoMigrate)
	if err != nil {
		return err
	}
	defer rt.Close()

	container, err := httpRouter.NewContainer(db, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	if seedDemo {
		inserted, err := seeds.SeedDemoDirectory(db)
		if err != nil {
			return fmt.Errorf("failed to seed demo users: %w", err)
		}
		log.Infow("demo directory seeded", "inserted", inserted)
	}

	container.Start()
	defer container.Shutdown()

	router := httpRouter.NewRouter(container)
	router.SetupRoutes()

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)
		serverErr <- router.Run(cfg.Server.GetAddr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down server...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := router.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/notifyd/internal/interfaces/cli/migrate"
	"github.com/orris-inc/notifyd/internal/interfaces/cli/send"
	"github.com/orris-inc/notifyd/internal/interfaces/cli/server"
	"github.com/orris-inc/notifyd/internal/interfaces/cli/token"
	"github.com/orris-inc/notifyd/internal/interfaces/cli/user"
	"github.com/orris-inc/notifyd/internal/interfaces/cli/watch"
)

// @title notifyd API
// @version 1.0
// @description Notification fan-out and delivery for the HR portal.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:          "notifyd",
		Short:        "notifyd - HR portal notification delivery",
		Long:         `notifyd fans notifications out to portal users and serves them through a polling API and a realtime stream.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		send.NewCommand(),
		user.NewCommand(),
		token.NewCommand(),
		watch.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

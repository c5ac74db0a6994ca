package token

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/notifyd/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/constants"
)

var (
	env      string
	username string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		Long: `Issue a signed access token for an active user. Used by the watch command
and for manual API calls during development.`,
		Example: `  notifyd token --username alice`,
		RunE:    run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to issue the token for (required)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Load(env)
	if err != nil {
		return err
	}

	container, err := rt.OpenContainer()
	if err != nil {
		return err
	}
	defer rt.Close()
	defer container.Shutdown()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	u, err := container.UserService().GetUser(ctx, username)
	if err != nil {
		return err
	}
	if u.Status != constants.UserStatusActive {
		return fmt.Errorf("user %s is %s", u.Username, u.Status)
	}

	role, err := authorization.ParseRole(u.Role)
	if err != nil {
		return err
	}

	token, expiresAt, err := container.JWTService().Generate(u.ID, role)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
	return nil
}

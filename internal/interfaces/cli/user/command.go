package user

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/notifyd/internal/application/user/dto"
	"github.com/orris-inc/notifyd/internal/interfaces/cli/bootstrap"
)

var (
	env  string
	role string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage portal users",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newAddCommand(),
		newDeactivateCommand(),
		newShowCommand(),
	)

	return cmd
}

func newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an active user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc userService) (*dto.UserResponse, error) {
				return svc.CreateUser(ctx, dto.CreateUserRequest{Username: args[0], Role: role})
			})
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "EMPLOYEE", "Role: ADMIN, HR or EMPLOYEE")

	return cmd
}

func newDeactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <username>",
		Short: "Deactivate a user so fan-out skips them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc userService) (*dto.UserResponse, error) {
				return svc.DeactivateUser(ctx, args[0])
			})
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Print a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc userService) (*dto.UserResponse, error) {
				return svc.GetUser(ctx, args[0])
			})
		},
	}
}

type userService interface {
	CreateUser(ctx context.Context, request dto.CreateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, username string) (*dto.UserResponse, error)
	GetUser(ctx context.Context, username string) (*dto.UserResponse, error)
}

func withService(cmd *cobra.Command, fn func(ctx context.Context, svc userService) (*dto.UserResponse, error)) error {
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

	u, err := fn(ctx, container.UserService())
	if err != nil {
		return err
	}

	printUser(cmd, u)
	return nil
}

func printUser(cmd *cobra.Command, u *dto.UserResponse) {
	fmt.Fprintf(cmd.OutOrStdout(), "id=%d username=%s role=%s status=%s\n", u.ID, u.Username, u.Role, u.Status)
}

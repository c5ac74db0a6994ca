package send

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/interfaces/cli/bootstrap"
)

var (
	env       string
	message   string
	recipient string
	roles     []string
	targetURL string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Create a notification and fan it out",
		Long: `Create a notification and deliver it to its recipients from the command line.
With redis enabled, running servers push the new deliveries to connected streams.`,
		Example: `  notifyd send --message "Policy updated" --roles HR,ADMIN
  notifyd send --message "Your payslip is ready" --to alice --url /payslips/2026-10`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Notification text, markdown allowed (required)")
	cmd.Flags().StringVar(&recipient, "to", "", "Username of a direct recipient")
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "Role targets: EVERYONE, ADMIN, HR, EMPLOYEE")
	cmd.Flags().StringVar(&targetURL, "url", "", "Optional link opened from the notification")
	_ = cmd.MarkFlagRequired("message")

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

	req := dto.CreateNotificationRequest{
		Message:           message,
		RecipientUsername: strings.TrimSpace(recipient),
		RoleTargets:       roles,
	}
	if targetURL != "" {
		req.TargetURL = &targetURL
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := container.NotificationService().Create(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/notifyd/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/notifyd/sdk/notify"
)

var (
	env      string
	server   string
	token    string
	interval time.Duration
	autoAck  bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for unread notifications and acknowledge them",
		Long: `Poll the delivery gateway for unread notifications and print each one once.
Type an id (or several, comma separated) to mark it read, "all" to mark
everything read, or "q" to quit.`,
		Example: `  NOTIFYD_TOKEN=<access token> notifyd watch --auto-ack`,
		RunE:    run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVar(&server, "server", "", "Gateway base URL (default: poller.server_url)")
	cmd.Flags().StringVarP(&token, "token", "t", "", "Access token (default: $NOTIFYD_TOKEN)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (default: poller.interval)")
	cmd.Flags().BoolVar(&autoAck, "auto-ack", false, "Mark every notification read as soon as it is shown")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Load(env)
	if err != nil {
		return err
	}
	pollerCfg := rt.Config.Poller

	if server == "" {
		server = pollerCfg.ServerURL
	}
	if token == "" {
		token = os.Getenv("NOTIFYD_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("an access token is required (--token or NOTIFYD_TOKEN)")
	}
	if interval <= 0 {
		interval = pollerCfg.Interval
	}

	client := notify.NewClient(server, token, notify.WithUserAgent("notifyd-watch"))
	presenter := newTerminalPresenter(cmd.OutOrStdout())

	var poller *notify.Poller
	var shown notify.Presenter = presenter
	if autoAck {
		shown = notify.PresenterFunc(func(items []notify.Item) {
			presenter.Present(items)
			ids := make([]uint, len(items))
			for i, item := range items {
				ids[i] = item.ID
			}
			if err := poller.Acknowledge(ids...); err != nil {
				presenter.Error("ack", err)
			}
		})
	}

	poller = notify.NewPoller(client, shown, &notify.PollerConfig{
		Interval:        interval,
		RequestTimeout:  pollerCfg.RequestTimeout,
		MaxAckRetries:   pollerCfg.MaxAckRetries,
		AckRetryBackoff: pollerCfg.AckRetryBackoff,
		OnError: func(op string, err error) {
			rt.Log.Warnw("watch request failed", "op", op, "error", err)
			presenter.Error(op, err)
		},
	})

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := poller.Start(ctx); err != nil {
		return err
	}
	defer poller.Stop()

	presenter.Hint(fmt.Sprintf("watching %s every %s", server, interval))

	quit := make(chan struct{})
	go func() {
		readCommands(ctx, cmd.InOrStdin(), client, poller, presenter)
		close(quit)
	}()

	select {
	case <-ctx.Done():
	case <-quit:
	}
	return nil
}

type acknowledger interface {
	Acknowledge(ids ...uint) error
}

type allMarker interface {
	MarkAllRead(ctx context.Context) (int64, error)
}

// readCommands handles stdin until EOF or "q".
func readCommands(ctx context.Context, in io.Reader, client allMarker, poller acknowledger, presenter *terminalPresenter) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			return
		case "all":
			reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			n, err := client.MarkAllRead(reqCtx)
			cancel()
			if err != nil {
				presenter.Error("mark all read", err)
				continue
			}
			presenter.Hint(fmt.Sprintf("marked %d read", n))
		default:
			ids, err := parseIDs(line)
			if err != nil {
				presenter.Error("parse", err)
				continue
			}
			if err := poller.Acknowledge(ids...); err != nil {
				presenter.Error("ack", err)
			}
		}
	}
}

// parseIDs accepts "12", "12,13" or "12 13".
func parseIDs(line string) ([]uint, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	ids := make([]uint, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(strings.TrimPrefix(f, "#"), 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid id %q", f)
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

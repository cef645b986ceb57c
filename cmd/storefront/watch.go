package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tair/pickup-store/internal/apiclient"
	"github.com/tair/pickup-store/internal/session"
	"github.com/tair/pickup-store/pkg/logger"
)

var watchFlags struct {
	api      string
	user     string
	interval time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log in as a user and print notifications as orders move",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.SetLevel("warn")
		out := cmd.OutOrStdout()

		s := session.New(apiclient.New(watchFlags.api, apiclient.DefaultTimeout))
		s.OnNotify(func(n session.Notification) {
			fmt.Fprintf(out, "%s  [%s] %s\n", n.Timestamp.Format(time.TimeOnly), n.Type, n.Message)
		})

		ok, err := s.Login(ctx, watchFlags.user)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("unknown user %q", watchFlags.user)
		}

		user := s.User()
		role := "customer"
		if s.IsAdmin() {
			role = "staff"
		}
		fmt.Fprintf(out, "Watching as %s (%s, %s): %d orders, polling every %s\n",
			user.Name, user.ID, role, len(s.Orders()), watchFlags.interval)

		err = session.NewPoller(s, watchFlags.interval).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.api, "api", "http://localhost:8080", "storefront API base URL")
	watchCmd.Flags().StringVar(&watchFlags.user, "customer", "CUST-001", "user id to log in as")
	watchCmd.Flags().DurationVar(&watchFlags.interval, "interval", session.DefaultInterval, "poll interval")
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"codereview-frontend/internal/bootstrap"
	"codereview-frontend/internal/reconciler"
	"codereview-frontend/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch [review-id...]",
		Short: "Follow code review statuses until they finish",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api, err := bootstrap.BuildAPIClient(cfg)
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = cfg.StatusPollInterval
			}
			w := watch.New(api, watch.Options{
				Out:     cmd.OutOrStdout(),
				Options: reconciler.Options{Interval: interval},
			})
			err = w.Run(ctx, args)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Polling interval (defaults to STATUS_POLL_INTERVAL_SECONDS)")
	return cmd
}

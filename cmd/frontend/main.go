package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codereview-frontend/internal/shared/config"
	"codereview-frontend/internal/shared/telemetry"
)

var cfg config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "frontend",
		Short:         "Web frontend for the intelligent code review service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			telemetry.Configure(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			telemetry.Sync()
		},
	}
	root.AddCommand(newServeCmd(), newWatchCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"securevote/internal/app/bootstrap"
	"securevote/internal/platform/config"

	"github.com/spf13/cobra"
)

// API process entrypoint.
// Data flow:
// 1) Load config (flags > env > securevote.yaml > defaults).
// 2) Build the deployment over the configured chain state and apply genesis.
// 3) Serve HTTP until SIGINT/SIGTERM.
func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "securevote-api",
		Short:         "Serve the governance token, faucet, treasury and voting engine over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return reportStartup(err)
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return reportStartup(err)
			}
			logger := bootstrap.NewLogger(cfg, "api")
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.BuildAPI(ctx, cfg, logger)
			if err != nil {
				return reportStartup(err)
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Error("api shutdown close failed",
						"event", "api_close_failed",
						"module", "cmd/api",
						"layer", "platform",
						"error", err.Error(),
					)
				}
			}()

			if err := app.Run(ctx); err != nil {
				logger.Error("api stopped with error",
					"event", "api_stopped_with_error",
					"module", "cmd/api",
					"layer", "platform",
					"error", err.Error(),
				)
				return err
			}
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func reportStartup(err error) error {
	slog.Error("api bootstrap failed",
		"event", "api_bootstrap_failed",
		"module", "cmd/api",
		"layer", "platform",
		"error", err.Error(),
	)
	return err
}

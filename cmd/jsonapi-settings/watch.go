package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	settings "github.com/goliatone/go-jsonapi-settings"
	"github.com/goliatone/go-jsonapi-settings/pkg/activity"
)

func newWatchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow override changes in the config file until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd.ErrOrStderr(), flags.debug)
			src, err := openOverrides(flags, logger)
			if err != nil {
				return err
			}
			defer src.close()

			resolver := settings.NewJSONAPI(src.source,
				settings.WithPrefix(flags.prefix),
				settings.WithResolutionLogger(settings.NewSlogLogger(logger)),
				settings.WithActivityHooks(activity.Hooks{logHook(logger)}),
			)
			defer resolver.Close()

			snapshot, err := resolver.Snapshot()
			if err != nil {
				return err
			}
			for _, name := range resolver.Names() {
				logger.Info("jsonapi setting", slog.String("option", name), slog.Any("value", snapshot[name]))
			}

			if err := src.watch(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			logger.Info("stopped watching")
			return nil
		},
	}
}

func logHook(logger *slog.Logger) activity.HookFunc {
	return func(_ context.Context, event activity.Event) error {
		logger.Info("jsonapi setting activity",
			slog.String("verb", event.Verb),
			slog.String("option", event.ObjectID),
			slog.Any("metadata", event.Metadata),
		)
		return nil
	}
}

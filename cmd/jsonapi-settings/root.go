package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	settings "github.com/goliatone/go-jsonapi-settings"
	"github.com/goliatone/go-jsonapi-settings/pkg/source/koanfsource"
	"github.com/goliatone/go-jsonapi-settings/pkg/source/vipersource"
)

const (
	loaderViper = "viper"
	loaderKoanf = "koanf"
	loaderStack = "stack"
)

var errConfigRequired = errors.New("a --config file is required")

type globalFlags struct {
	config string
	loader string
	prefix string
	debug  bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:          "jsonapi-settings",
		Short:        "Inspect JSON:API serializer settings",
		Long:         `Resolve JSON:API formatting options from environment variables and config files and follow their changes.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "YAML config file holding JSON_API_* overrides")
	cmd.PersistentFlags().StringVar(&flags.loader, "loader", loaderViper, "Override loader (viper, koanf, stack)")
	cmd.PersistentFlags().StringVar(&flags.prefix, "prefix", settings.DefaultPrefix, "Key prefix of overrides")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Log every resolution")

	cmd.AddCommand(newShowCmd(flags), newEvalCmd(flags), newWatchCmd(flags))
	return cmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// overrides is an opened override source together with its lifecycle hooks.
type overrides struct {
	source settings.Source
	watch  func() error
	close  func()
}

func openOverrides(flags *globalFlags, logger *slog.Logger) (*overrides, error) {
	switch flags.loader {
	case loaderViper:
		v := viper.New()
		v.AutomaticEnv()
		if flags.config != "" {
			v.SetConfigFile(flags.config)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
		src := vipersource.New(v, vipersource.WithPrefix(flags.prefix), vipersource.WithLogger(logger))
		return &overrides{
			source: src,
			watch: func() error {
				if flags.config == "" {
					return errConfigRequired
				}
				src.Watch()
				return nil
			},
			close: func() {},
		}, nil

	case loaderKoanf:
		if flags.config == "" {
			return nil, errConfigRequired
		}
		src, err := koanfsource.New(flags.config, koanfsource.WithPrefix(flags.prefix), koanfsource.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return &overrides{
			source: src,
			watch:  src.Watch,
			close:  func() { _ = src.Close() },
		}, nil

	case loaderStack:
		if flags.config == "" {
			return nil, errConfigRequired
		}
		file, err := koanfsource.New(flags.config, koanfsource.WithPrefix(flags.prefix), koanfsource.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		v := viper.New()
		v.AutomaticEnv()
		env := vipersource.New(v, vipersource.WithPrefix(flags.prefix), vipersource.WithLogger(logger))
		stack, err := settings.NewStack(
			settings.Layer{Name: "file", Priority: settings.PriorityFile, Source: file},
			settings.Layer{Name: "env", Priority: settings.PriorityEnv, Source: env},
		)
		if err != nil {
			return nil, err
		}
		return &overrides{
			source: stack,
			watch:  file.Watch,
			close: func() {
				stack.Close()
				_ = file.Close()
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown loader %q", flags.loader)
	}
}

func openResolver(cmd *cobra.Command, flags *globalFlags) (*settings.Settings, *overrides, error) {
	logger := newLogger(cmd.ErrOrStderr(), flags.debug)
	src, err := openOverrides(flags, logger)
	if err != nil {
		return nil, nil, err
	}
	resolver := settings.NewJSONAPI(src.source,
		settings.WithPrefix(flags.prefix),
		settings.WithResolutionLogger(settings.NewSlogLogger(logger)),
	)
	return resolver, src, nil
}

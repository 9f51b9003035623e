package settings

import (
	"context"
	"log/slog"
	"time"
)

// Origin names where a resolved value came from.
type Origin string

const (
	OriginCache        Origin = "cache"
	OriginOverride     Origin = "override"
	OriginDefault      Origin = "default"
	OriginNotification Origin = "notification"
)

// ResolutionEvent describes a lookup or a cache update.
type ResolutionEvent struct {
	Option   string
	Key      string
	Origin   Origin
	Value    any
	Removed  bool
	Duration time.Duration
	Err      error
}

// ResolutionLogger records resolution events.
type ResolutionLogger interface {
	LogResolution(ResolutionEvent)
}

// ResolutionLoggerFunc adapts a function to ResolutionLogger.
type ResolutionLoggerFunc func(ResolutionEvent)

// LogResolution implements ResolutionLogger.
func (f ResolutionLoggerFunc) LogResolution(event ResolutionEvent) {
	if f != nil {
		f(event)
	}
}

type noopResolutionLogger struct{}

func (noopResolutionLogger) LogResolution(ResolutionEvent) {}

// WithResolutionLogger attaches a resolution logger to the resolver.
func WithResolutionLogger(logger ResolutionLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopResolutionLogger{}
			return
		}
		cfg.logger = logger
	}
}

type slogResolutionLogger struct {
	logger *slog.Logger
}

// NewSlogLogger reports resolution events through logger. Lookups log at
// debug level, cache updates at info and failures at warn.
func NewSlogLogger(logger *slog.Logger) ResolutionLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogResolutionLogger{logger: logger}
}

func (l slogResolutionLogger) LogResolution(event ResolutionEvent) {
	attrs := []slog.Attr{
		slog.String("option", event.Option),
		slog.String("key", event.Key),
		slog.String("origin", string(event.Origin)),
		slog.Duration("duration", event.Duration),
	}
	if event.Removed {
		attrs = append(attrs, slog.Bool("removed", true))
	} else {
		attrs = append(attrs, slog.Any("value", event.Value))
	}

	ctx := context.Background()
	switch {
	case event.Err != nil:
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "setting resolution failed", attrs...)
	case event.Origin == OriginNotification:
		l.logger.LogAttrs(ctx, slog.LevelInfo, "setting override changed", attrs...)
	default:
		l.logger.LogAttrs(ctx, slog.LevelDebug, "setting resolved", attrs...)
	}
}

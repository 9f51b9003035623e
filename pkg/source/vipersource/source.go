// Package vipersource exposes a viper instance as a live JSON:API settings
// source. Environment variables are visible through viper's AutomaticEnv and
// config file edits are published through WatchConfig.
package vipersource

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	settings "github.com/goliatone/go-jsonapi-settings"
)

// Option configures a Source.
type Option func(*Source)

// WithPrefix limits change detection to keys under prefix. Defaults to
// settings.DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// WithKeys names the options whose keys are published. Viper lowercases
// every key, so change notifications are rebuilt as prefix + name using the
// spelling given here. Defaults to the JSON:API option names; keys that match
// no name are published with an upper-cased suffix.
func WithKeys(names ...string) Option {
	return func(s *Source) {
		s.keys = make(map[string]string, len(names))
		for _, name := range names {
			s.keys[strings.ToLower(name)] = name
		}
	}
}

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Source adapts *viper.Viper to settings.Source and settings.Notifier.
type Source struct {
	v      *viper.Viper
	prefix string
	keys   map[string]string
	logger *slog.Logger

	mu       sync.Mutex
	snapshot map[string]any

	bus settings.Broadcaster
}

// New wraps v. The current prefixed keys become the baseline for change
// detection.
func New(v *viper.Viper, opts ...Option) *Source {
	s := &Source{
		v:      v,
		prefix: settings.DefaultPrefix,
		logger: slog.Default(),
	}
	defaults := settings.JSONAPIDefaults()
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	WithKeys(names...)(s)
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.snapshot = s.collect()
	return s
}

// Read implements settings.Source. Viper keys are case-insensitive.
func (s *Source) Read(key string) (any, bool) {
	if !s.v.IsSet(key) {
		return nil, false
	}
	return s.v.Get(key), true
}

// Subscribe implements settings.Notifier.
func (s *Source) Subscribe(fn settings.ChangeFunc) func() {
	return s.bus.Subscribe(fn)
}

// Refresh compares the prefixed keys viper currently knows about with the
// previous baseline and publishes the difference. It returns the published
// changes.
func (s *Source) Refresh() []settings.Change {
	s.mu.Lock()
	next := s.collect()
	changes := settings.Diff(s.snapshot, next)
	s.snapshot = next
	s.mu.Unlock()

	if len(changes) > 0 {
		s.logger.Debug("jsonapi settings reloaded", slog.Int("changes", len(changes)))
	}
	s.bus.Publish(changes...)
	return changes
}

// Watch refreshes on every config file event. The config file must be set
// on the viper instance.
func (s *Source) Watch() {
	s.v.OnConfigChange(func(event fsnotify.Event) {
		s.logger.Info("jsonapi settings file changed",
			slog.String("file", event.Name),
			slog.String("op", event.Op.String()),
		)
		s.Refresh()
	})
	s.v.WatchConfig()
}

// collect returns the prefixed keys viper holds, spelled as prefix + option
// name so they match the keys used by settings.Settings.
func (s *Source) collect() map[string]any {
	prefix := strings.ToLower(s.prefix)
	out := map[string]any{}
	for _, key := range s.v.AllKeys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		suffix := strings.TrimPrefix(key, prefix)
		name, ok := s.keys[suffix]
		if !ok {
			name = strings.ToUpper(suffix)
		}
		out[s.prefix+name] = s.v.Get(key)
	}
	return out
}

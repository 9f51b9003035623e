// Package koanfsource serves JSON:API overrides from a YAML file loaded with
// koanf and publishes changes when the file is rewritten.
package koanfsource

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	settings "github.com/goliatone/go-jsonapi-settings"
)

// keys such as JSON_API_FORMAT_TYPES never contain a dot, so nested YAML
// sections cannot collide with them
const delimiter = "."

// Option configures a Source.
type Option func(*Source)

// WithPrefix limits change detection to keys under prefix.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
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

// Source adapts a koanf-loaded YAML file to settings.Source and
// settings.Notifier.
type Source struct {
	path     string
	provider *file.File
	prefix   string
	logger   *slog.Logger

	mu       sync.RWMutex
	k        *koanf.Koanf
	watching bool

	bus settings.Broadcaster
}

// New loads the YAML file at path.
func New(path string, opts ...Option) (*Source, error) {
	s := &Source{
		path:     path,
		provider: file.Provider(path),
		prefix:   settings.DefaultPrefix,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	k, err := s.load()
	if err != nil {
		return nil, err
	}
	s.k = k
	return s, nil
}

// Read implements settings.Source.
func (s *Source) Read(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.k.Exists(key) {
		return nil, false
	}
	return s.k.Get(key), true
}

// Subscribe implements settings.Notifier.
func (s *Source) Subscribe(fn settings.ChangeFunc) func() {
	return s.bus.Subscribe(fn)
}

// Reload re-reads the file and publishes every prefixed key that changed.
// On a parse failure the previous values stay in effect.
func (s *Source) Reload() ([]settings.Change, error) {
	next, err := s.load()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	previous := s.prefixed(s.k)
	s.k = next
	s.mu.Unlock()

	changes := settings.Diff(previous, s.prefixed(next))
	s.bus.Publish(changes...)
	return changes, nil
}

// Watch reloads whenever the file changes.
func (s *Source) Watch() error {
	err := s.provider.Watch(func(_ any, err error) {
		if err != nil {
			s.logger.Warn("jsonapi settings watch failed", slog.String("file", s.path), slog.String("error", err.Error()))
			return
		}
		changes, err := s.Reload()
		if err != nil {
			s.logger.Warn("jsonapi settings reload failed", slog.String("file", s.path), slog.String("error", err.Error()))
			return
		}
		s.logger.Info("jsonapi settings file reloaded", slog.String("file", s.path), slog.Int("changes", len(changes)))
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.watching = true
	s.mu.Unlock()
	return nil
}

// Close stops watching the file. It is a no-op when Watch was never started
// and safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	watching := s.watching
	s.watching = false
	s.mu.Unlock()
	if !watching {
		return nil
	}
	return s.provider.Unwatch()
}

func (s *Source) load() (*koanf.Koanf, error) {
	k := koanf.New(delimiter)
	if err := k.Load(s.provider, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("koanfsource: load %s: %w", s.path, err)
	}
	return k, nil
}

func (s *Source) prefixed(k *koanf.Koanf) map[string]any {
	out := map[string]any{}
	for key, value := range k.All() {
		if strings.HasPrefix(key, s.prefix) {
			out[key] = value
		}
	}
	return out
}

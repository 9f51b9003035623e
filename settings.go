package settings

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-jsonapi-settings/pkg/activity"
)

// Settings resolves named options against a live override source, falling
// back to an immutable default mapping. Resolved values are cached until the
// source reports a change for the option.
type Settings struct {
	defaults map[string]any
	source   Source
	cfg      config
	emitter  *activity.Emitter

	mu         sync.RWMutex
	cache      map[string]any
	generation map[string]uint64

	cancel    func()
	closeOnce sync.Once
}

// New constructs a resolver over defaults. The mapping is copied, so later
// mutations by the caller have no effect. When source also implements
// Notifier the resolver subscribes to it immediately.
func New(source Source, defaults map[string]any, opts ...Option) *Settings {
	cfg := applyOptions(opts)
	copied := make(map[string]any, len(defaults))
	for name, value := range defaults {
		copied[name] = value
	}
	s := &Settings{
		defaults:   copied,
		source:     source,
		cfg:        cfg,
		cache:      make(map[string]any, len(copied)),
		generation: make(map[string]uint64, len(copied)),
		emitter: activity.NewEmitter(cfg.activityHooks, activity.Config{
			Enabled: len(cfg.activityHooks) > 0,
			Channel: cfg.channel,
		}),
	}
	if notifier, ok := source.(Notifier); ok {
		s.cancel = notifier.Subscribe(func(change Change) {
			s.OnOverrideChanged(change.Key, change.Value)
		})
	}
	return s
}

// Get returns the effective value for name. Unknown names fail with
// *InvalidOptionError. The first successful lookup is cached and later calls
// do not query the source again until a change notification arrives.
func (s *Settings) Get(name string) (any, error) {
	start := time.Now()
	if _, ok := s.defaults[name]; !ok {
		err := &InvalidOptionError{Name: name}
		s.log(ResolutionEvent{Option: name, Key: s.Key(name), Duration: time.Since(start), Err: err})
		return nil, err
	}

	for {
		s.mu.RLock()
		value, ok := s.cache[name]
		gen := s.generation[name]
		s.mu.RUnlock()
		if ok {
			s.log(ResolutionEvent{Option: name, Key: s.Key(name), Origin: OriginCache, Value: value, Duration: time.Since(start)})
			return value, nil
		}

		value, origin := s.lookup(name)

		s.mu.Lock()
		if cached, ok := s.cache[name]; ok {
			s.mu.Unlock()
			s.log(ResolutionEvent{Option: name, Key: s.Key(name), Origin: OriginCache, Value: cached, Duration: time.Since(start)})
			return cached, nil
		}
		if s.generation[name] != gen {
			// a notification landed while the source was being read
			s.mu.Unlock()
			continue
		}
		s.cache[name] = value
		s.mu.Unlock()

		s.log(ResolutionEvent{Option: name, Key: s.Key(name), Origin: origin, Value: value, Duration: time.Since(start)})
		return value, nil
	}
}

// OnOverrideChanged applies an override update. Keys outside the prefix or
// naming unknown options are ignored. A non-nil value replaces the cached
// entry, nil evicts it so the next Get resolves again.
func (s *Settings) OnOverrideChanged(fullKey string, value any) {
	start := time.Now()
	name, ok := s.optionName(fullKey)
	if !ok {
		return
	}

	s.mu.Lock()
	old, hadOld := s.cache[name]
	s.generation[name]++
	if value != nil {
		s.cache[name] = value
	} else {
		delete(s.cache, name)
	}
	s.mu.Unlock()

	event := ResolutionEvent{
		Option:  name,
		Key:     fullKey,
		Origin:  OriginNotification,
		Value:   value,
		Removed: value == nil,
	}
	if !hadOld {
		old = nil
	}
	event.Err = s.emitChange(name, fullKey, old, value)
	event.Duration = time.Since(start)
	s.log(event)
}

// Close cancels the source subscription. It is safe to call repeatedly.
func (s *Settings) Close() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Bool resolves name as a boolean. String values are parsed with
// strconv.ParseBool.
func (s *Settings) Bool(name string) (bool, error) {
	value, err := s.Get(name)
	if err != nil {
		return false, err
	}
	switch typed := value.(type) {
	case bool:
		return typed, nil
	case string:
		parsed, perr := strconv.ParseBool(strings.TrimSpace(typed))
		if perr != nil {
			return false, &OptionTypeError{Name: name, Want: "bool", Value: value}
		}
		return parsed, nil
	default:
		return false, &OptionTypeError{Name: name, Want: "bool", Value: value}
	}
}

// String resolves name as a string. A false or nil value yields "".
func (s *Settings) String(name string) (string, error) {
	value, err := s.Get(name)
	if err != nil {
		return "", err
	}
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case bool:
		if !typed {
			return "", nil
		}
		return strconv.FormatBool(typed), nil
	case interface{ String() string }:
		return typed.String(), nil
	default:
		return "", &OptionTypeError{Name: name, Want: "string", Value: value}
	}
}

// Names returns the known option names sorted alphabetically.
func (s *Settings) Names() []string {
	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the default value registered for name.
func (s *Settings) Default(name string) (any, error) {
	value, ok := s.defaults[name]
	if !ok {
		return nil, &InvalidOptionError{Name: name}
	}
	return value, nil
}

// Prefix returns the key prefix used against the override source.
func (s *Settings) Prefix() string {
	return s.cfg.prefix
}

// Key returns the fully prefixed source key for name.
func (s *Settings) Key(name string) string {
	return s.cfg.prefix + name
}

// Snapshot resolves every option and returns the effective values.
func (s *Settings) Snapshot() (map[string]any, error) {
	out := make(map[string]any, len(s.defaults))
	for _, name := range s.Names() {
		value, err := s.Get(name)
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}

func (s *Settings) lookup(name string) (any, Origin) {
	if s.source != nil {
		if value, ok := s.source.Read(s.Key(name)); ok && value != nil {
			return value, OriginOverride
		}
	}
	return s.defaults[name], OriginDefault
}

func (s *Settings) optionName(fullKey string) (string, bool) {
	if !strings.HasPrefix(fullKey, s.cfg.prefix) {
		return "", false
	}
	name := strings.TrimPrefix(fullKey, s.cfg.prefix)
	if _, ok := s.defaults[name]; !ok {
		return "", false
	}
	return name, true
}

func (s *Settings) emitChange(name, key string, oldValue, newValue any) error {
	if !s.emitter.Enabled() {
		return nil
	}
	input := activity.SettingEventInput{
		Name:     name,
		Key:      key,
		OldValue: oldValue,
		NewValue: newValue,
	}
	var event activity.Event
	if newValue == nil {
		event = activity.BuildSettingRemovedEvent(input)
	} else {
		event = activity.BuildSettingChangedEvent(input)
	}
	return s.emitter.Emit(context.Background(), event)
}

func (s *Settings) log(event ResolutionEvent) {
	s.cfg.logger.LogResolution(event)
}

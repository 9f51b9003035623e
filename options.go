package settings

import "github.com/goliatone/go-jsonapi-settings/pkg/activity"

// Option configures a Settings instance.
type Option func(*config)

type config struct {
	prefix        string
	logger        ResolutionLogger
	activityHooks activity.Hooks
	channel       string
	evaluator     Evaluator
	programCache  ProgramCache
}

func applyOptions(opts []Option) config {
	cfg := config{
		prefix: DefaultPrefix,
		logger: noopResolutionLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithPrefix overrides the key prefix used to query the override source.
func WithPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.prefix = prefix
	}
}

// WithActivityHooks emits an activity event for every accepted override
// change. Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *config) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel sets the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *config) {
		cfg.channel = channel
	}
}

// WithEvaluator selects the engine used by Evaluate.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithProgramCache shares compiled programs across evaluations performed by
// the default expr engine.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.programCache = cache
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make(activity.Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			normalized = append(normalized, hook)
		}
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

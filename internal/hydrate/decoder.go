package hydrate

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// PreHook lets callers mutate or normalise the snapshot before decoding.
type PreHook func(map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the decoded value.
type PostHook[T any] func(*T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts resolved settings snapshots into typed structs. Field
// names come from the `setting` struct tag.
type Decoder[T any] struct {
	preHooks    []PreHook
	postHooks   []PostHook[T]
	decodeHooks []mapstructure.DecodeHookFunc
	strict      bool
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDecodeHook adds a mapstructure decode hook.
func WithDecodeHook[T any](hook mapstructure.DecodeHookFunc) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.decodeHooks = append(d.decodeHooks, hook)
		}
	}
}

// WithStrict fails decoding when the snapshot holds keys with no matching
// field.
func WithStrict[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

// NewDecoder builds a Decoder. Boolean-or-string options are normalised by
// default: false decodes into "" and true into "true" for string fields.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{
		decodeHooks: []mapstructure.DecodeHookFunc{boolToStringHook},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts snapshot into T applying configured hooks.
func (d *Decoder[T]) Decode(snapshot map[string]any) (T, error) {
	var zero T
	if snapshot == nil {
		return zero, fmt.Errorf("hydrate: snapshot is nil")
	}

	current := make(map[string]any, len(snapshot))
	for key, value := range snapshot {
		current[key] = value
	}
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook failed: %w", err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(d.decodeHooks...),
		ErrorUnused:      d.strict,
		WeaklyTypedInput: true,
		TagName:          "setting",
		Result:           &result,
	})
	if err != nil {
		return zero, fmt.Errorf("hydrate: build decoder: %w", err)
	}
	if err := decoder.Decode(current); err != nil {
		return zero, fmt.Errorf("hydrate: decode: %w", err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(&result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook failed: %w", err)
		}
	}
	return result, nil
}

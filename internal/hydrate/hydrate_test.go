package hydrate

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type sample struct {
	Style     string `setting:"STYLE"`
	Pluralize bool   `setting:"PLURALIZE"`
	Depth     int    `setting:"DEPTH"`
}

func TestDecoderDecodesTaggedFields(t *testing.T) {
	decoder := NewDecoder[sample]()
	got, err := decoder.Decode(map[string]any{
		"STYLE":     true,
		"PLURALIZE": "1",
		"DEPTH":     "3",
		"EXTRA":     "ignored",
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := sample{Style: "true", Pluralize: true, Depth: 3}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got, err = decoder.Decode(map[string]any{"STYLE": false})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Style != "" {
		t.Fatalf("expected false to decode as empty string, got %q", got.Style)
	}
}

func TestDecoderStrictRejectsUnusedKeys(t *testing.T) {
	decoder := NewDecoder[sample](WithStrict[sample]())
	if _, err := decoder.Decode(map[string]any{"EXTRA": 1}); err == nil {
		t.Fatalf("expected unused key to fail in strict mode")
	}
}

func TestDecoderHooks(t *testing.T) {
	decoder := NewDecoder[sample](
		WithPreHook[sample](func(snapshot map[string]any) (map[string]any, error) {
			snapshot["STYLE"] = strings.ToUpper(snapshot["STYLE"].(string))
			return snapshot, nil
		}),
		WithDecodeHook[sample](func(from, to reflect.Type, data any) (any, error) {
			if to.Kind() == reflect.Int && from.Kind() == reflect.String && data == "deep" {
				return 99, nil
			}
			return data, nil
		}),
		WithPostHook[sample](func(value *sample) error {
			value.Pluralize = !value.Pluralize
			return nil
		}),
	)
	got, err := decoder.Decode(map[string]any{"STYLE": "dasherize", "DEPTH": "deep"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Style != "DASHERIZE" || got.Depth != 99 || !got.Pluralize {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestDecoderHookFailures(t *testing.T) {
	boom := errors.New("boom")
	pre := NewDecoder[sample](WithPreHook[sample](func(map[string]any) (map[string]any, error) {
		return nil, boom
	}))
	if _, err := pre.Decode(map[string]any{}); !errors.Is(err, boom) {
		t.Fatalf("expected pre-hook error, got %v", err)
	}

	post := NewDecoder[sample](WithPostHook[sample](func(*sample) error { return boom }))
	if _, err := post.Decode(map[string]any{}); !errors.Is(err, boom) {
		t.Fatalf("expected post-hook error, got %v", err)
	}

	if _, err := NewDecoder[sample]().Decode(nil); err == nil {
		t.Fatalf("expected nil snapshot to fail")
	}
}

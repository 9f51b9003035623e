package settings

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/goliatone/go-jsonapi-settings/pkg/activity"
)

func TestResolutionLoggerReceivesOrigins(t *testing.T) {
	var events []ResolutionEvent
	logger := ResolutionLoggerFunc(func(event ResolutionEvent) {
		events = append(events, event)
	})
	source := NewMemorySource(map[string]any{"JSON_API_FORMAT_TYPES": "camelize"})
	s := NewJSONAPI(source, WithResolutionLogger(logger))
	defer s.Close()

	s.Get(FormatTypes)
	s.Get(FormatTypes)
	s.Get(PluralizeTypes)
	source.Delete("JSON_API_FORMAT_TYPES")
	s.Get("NOPE")

	want := []Origin{OriginOverride, OriginCache, OriginDefault, OriginNotification, ""}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), events)
	}
	for i, origin := range want {
		if events[i].Origin != origin {
			t.Fatalf("event %d: expected origin %q, got %q", i, origin, events[i].Origin)
		}
	}
	if !events[3].Removed {
		t.Fatalf("expected removal to be flagged")
	}
	if !errors.Is(events[4].Err, ErrInvalidOption) {
		t.Fatalf("expected invalid option error, got %v", events[4].Err)
	}
}

func TestSlogLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	s := NewJSONAPI(nil, WithResolutionLogger(NewSlogLogger(slog.New(handler))))

	s.Get(FormatTypes)
	if buf.Len() != 0 {
		t.Fatalf("expected lookups at debug level, got %q", buf.String())
	}
	s.OnOverrideChanged("JSON_API_FORMAT_TYPES", "dasherize")
	s.Get("NOPE")

	out := buf.String()
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "setting override changed") {
		t.Fatalf("expected info line for notification, got %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "option=NOPE") {
		t.Fatalf("expected warn line for invalid option, got %q", out)
	}
}

func TestOverrideChangesEmitActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	source := NewMemorySource(nil)
	s := NewJSONAPI(source,
		WithActivityHooks(activity.Hooks{capture, nil}),
		WithActivityChannel("admin"),
	)
	defer s.Close()

	source.Set("JSON_API_FORMAT_TYPES", "dasherize")
	source.Set("JSON_API_FORMAT_TYPES", "camelize")
	source.Delete("JSON_API_FORMAT_TYPES")
	source.Set("JSON_API_IGNORED", true)

	events := capture.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %+v", events)
	}
	if events[0].Verb != activity.VerbSettingChanged || events[0].ObjectID != FormatTypes || events[0].Channel != "admin" {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if events[1].Metadata["old_value"] != "dasherize" || events[1].Metadata["new_value"] != "camelize" {
		t.Fatalf("expected old and new values, got %+v", events[1].Metadata)
	}
	if events[2].Verb != activity.VerbSettingRemoved || events[2].Metadata["key"] != "JSON_API_FORMAT_TYPES" {
		t.Fatalf("unexpected removal event %+v", events[2])
	}
}

func TestActivityFailureIsLogged(t *testing.T) {
	failing := activity.HookFunc(func(context.Context, activity.Event) error {
		return errors.New("sink down")
	})
	var logged []ResolutionEvent
	s := NewJSONAPI(nil,
		WithActivityHooks(activity.Hooks{failing}),
		WithResolutionLogger(ResolutionLoggerFunc(func(e ResolutionEvent) { logged = append(logged, e) })),
	)

	s.OnOverrideChanged("JSON_API_FORMAT_TYPES", "dasherize")
	if got, _ := s.Get(FormatTypes); got != "dasherize" {
		t.Fatalf("expected cache update despite hook failure, got %v", got)
	}
	if len(logged) == 0 || logged[0].Err == nil {
		t.Fatalf("expected hook failure on the notification event, got %+v", logged)
	}
}

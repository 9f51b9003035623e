package activity

import (
	"strings"
	"time"
)

const (
	// VerbSettingChanged is emitted when an override is set or replaced.
	VerbSettingChanged = "settings.override.changed"
	// VerbSettingRemoved is emitted when an override is removed.
	VerbSettingRemoved = "settings.override.removed"
	// ObjectTypeSetting is the object type for setting events.
	ObjectTypeSetting = "jsonapi.setting"
)

// SettingEventInput carries the fields shared by setting events.
type SettingEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Name       string
	Key        string
	OldValue   any
	NewValue   any
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildSettingChangedEvent describes an override being set.
func BuildSettingChangedEvent(input SettingEventInput) Event {
	return buildSettingEvent(VerbSettingChanged, input)
}

// BuildSettingRemovedEvent describes an override being removed.
func BuildSettingRemovedEvent(input SettingEventInput) Event {
	input.NewValue = nil
	return buildSettingEvent(VerbSettingRemoved, input)
}

func buildSettingEvent(verb string, input SettingEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	if key := strings.TrimSpace(input.Key); key != "" {
		metadata["key"] = key
	}
	if input.OldValue != nil {
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata["new_value"] = input.NewValue
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeSetting,
		ObjectID:   strings.TrimSpace(input.Name),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

package settings

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-jsonapi-settings/internal/hydrate"
)

// Config is the typed view of the JSON:API options.
type Config struct {
	FormatFieldNames   string `setting:"FORMAT_FIELD_NAMES" json:"format_field_names"`
	FormatTypes        string `setting:"FORMAT_TYPES" json:"format_types"`
	FormatRelatedLinks string `setting:"FORMAT_RELATED_LINKS" json:"format_related_links"`
	PluralizeTypes     bool   `setting:"PLURALIZE_TYPES" json:"pluralize_types"`
	UniformExceptions  bool   `setting:"UNIFORM_EXCEPTIONS" json:"uniform_exceptions"`
}

var formatStyles = map[string]struct{}{
	"":           {},
	"dasherize":  {},
	"camelize":   {},
	"capitalize": {},
	"underscore": {},
}

// Validate rejects unknown format styles.
func (c Config) Validate() error {
	for name, style := range map[string]string{
		FormatFieldNames:   c.FormatFieldNames,
		FormatTypes:        c.FormatTypes,
		FormatRelatedLinks: c.FormatRelatedLinks,
	} {
		if _, ok := formatStyles[strings.ToLower(style)]; !ok {
			return fmt.Errorf("settings: %s has unknown format %q", name, style)
		}
	}
	return nil
}

// Decode resolves every option and decodes the snapshot into T using the
// `setting` struct tag. Values implementing Validate() error are validated.
func Decode[T any](s *Settings) (T, error) {
	var zero T
	snapshot, err := s.Snapshot()
	if err != nil {
		return zero, err
	}
	decoder := hydrate.NewDecoder[T](hydrate.WithPostHook[T](func(value *T) error {
		if v, ok := any(value).(interface{ Validate() error }); ok {
			return v.Validate()
		}
		return nil
	}))
	return decoder.Decode(snapshot)
}

// DecodeConfig is Decode for the JSON:API Config.
func (s *Settings) DecodeConfig() (Config, error) {
	return Decode[Config](s)
}

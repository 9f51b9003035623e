// Package format applies the JSON:API naming options to field names,
// resource types and related link names.
package format

import (
	"strings"

	"github.com/jinzhu/inflection"
	strcase "github.com/stoewer/go-strcase"

	settings "github.com/goliatone/go-jsonapi-settings"
)

// Styles understood by the FORMAT_* options.
const (
	Dasherize  = "dasherize"
	Camelize   = "camelize"
	Capitalize = "capitalize"
	Underscore = "underscore"
)

// Resolver is the subset of *settings.Settings the formatter needs.
type Resolver interface {
	String(name string) (string, error)
	Bool(name string) (bool, error)
}

// Formatter formats names according to the effective settings. Settings are
// looked up on every call, so override changes apply immediately.
type Formatter struct {
	settings Resolver
}

// New returns a Formatter backed by resolver.
func New(resolver Resolver) *Formatter {
	return &Formatter{settings: resolver}
}

// FieldName formats an attribute or relationship name with
// FORMAT_FIELD_NAMES.
func (f *Formatter) FieldName(name string) (string, error) {
	style, err := f.settings.String(settings.FormatFieldNames)
	if err != nil {
		return "", err
	}
	return Value(name, style), nil
}

// ResourceType formats a resource type with FORMAT_TYPES and pluralizes it
// when PLURALIZE_TYPES is enabled.
func (f *Formatter) ResourceType(name string) (string, error) {
	style, err := f.settings.String(settings.FormatTypes)
	if err != nil {
		return "", err
	}
	plural, err := f.settings.Bool(settings.PluralizeTypes)
	if err != nil {
		return "", err
	}
	formatted := Value(name, style)
	if plural {
		formatted = inflection.Plural(formatted)
	}
	return formatted, nil
}

// RelatedLinkName formats the name used in related links with
// FORMAT_RELATED_LINKS.
func (f *Formatter) RelatedLinkName(name string) (string, error) {
	style, err := f.settings.String(settings.FormatRelatedLinks)
	if err != nil {
		return "", err
	}
	return Value(name, style), nil
}

// Keys returns a copy of attrs with every top-level key passed through
// FieldName.
func (f *Formatter) Keys(attrs map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(attrs))
	for key, value := range attrs {
		formatted, err := f.FieldName(key)
		if err != nil {
			return nil, err
		}
		out[formatted] = value
	}
	return out, nil
}

// Value formats name with style. Unknown or empty styles leave name as is.
func Value(name, style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case Dasherize:
		return strcase.KebabCase(name)
	case Camelize:
		return strcase.LowerCamelCase(name)
	case Capitalize:
		return strcase.UpperCamelCase(name)
	case Underscore:
		return strcase.SnakeCase(name)
	default:
		return name
	}
}

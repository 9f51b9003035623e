package settings

// DefaultPrefix namespaces JSON:API overrides inside the host configuration.
const DefaultPrefix = "JSON_API_"

// Option names understood by the JSON:API toolkit.
const (
	FormatFieldNames   = "FORMAT_FIELD_NAMES"
	FormatTypes        = "FORMAT_TYPES"
	FormatRelatedLinks = "FORMAT_RELATED_LINKS"
	PluralizeTypes     = "PLURALIZE_TYPES"
	UniformExceptions  = "UNIFORM_EXCEPTIONS"
)

// JSONAPIDefaults returns a fresh copy of the JSON:API default mapping.
func JSONAPIDefaults() map[string]any {
	return map[string]any{
		FormatFieldNames:   false,
		FormatTypes:        false,
		FormatRelatedLinks: false,
		PluralizeTypes:     false,
		UniformExceptions:  false,
	}
}

// NewJSONAPI builds a resolver over the JSON:API defaults.
func NewJSONAPI(source Source, opts ...Option) *Settings {
	return New(source, JSONAPIDefaults(), opts...)
}

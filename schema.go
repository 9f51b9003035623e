package settings

import "fmt"

// FieldDescriptor describes one known option.
type FieldDescriptor struct {
	Name    string `json:"name"`
	Key     string `json:"key"`
	Type    string `json:"type"`
	Default any    `json:"default"`
}

// Describe lists every option with its prefixed key and default, sorted by
// name.
func (s *Settings) Describe() []FieldDescriptor {
	names := s.Names()
	out := make([]FieldDescriptor, 0, len(names))
	for _, name := range names {
		value := s.defaults[name]
		out = append(out, FieldDescriptor{
			Name:    name,
			Key:     s.Key(name),
			Type:    typeName(value),
			Default: value,
		})
	}
	return out
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

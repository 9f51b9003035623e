package hydrate

import (
	"reflect"
	"strconv"
)

func boolToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Bool || to.Kind() != reflect.String {
		return data, nil
	}
	if value, _ := data.(bool); value {
		return strconv.FormatBool(value), nil
	}
	return "", nil
}

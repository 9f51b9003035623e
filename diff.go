package settings

import (
	"reflect"
	"sort"
)

// Diff returns the changes that turn previous into next, ordered by key.
// Removed keys and keys whose new value is nil produce a nil-valued Change.
func Diff(previous, next map[string]any) []Change {
	keys := make(map[string]struct{}, len(previous)+len(next))
	for key := range previous {
		keys[key] = struct{}{}
	}
	for key := range next {
		keys[key] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	var changes []Change
	for _, key := range sorted {
		before, hadBefore := previous[key]
		after, hasAfter := next[key]
		hadBefore = hadBefore && before != nil
		hasAfter = hasAfter && after != nil
		switch {
		case !hadBefore && !hasAfter:
		case !hasAfter:
			changes = append(changes, Change{Key: key})
		case !hadBefore || !reflect.DeepEqual(before, after):
			changes = append(changes, Change{Key: key, Value: after})
		}
	}
	return changes
}

package settings

import "testing"

func TestDiff(t *testing.T) {
	previous := map[string]any{
		"A": 1,
		"B": "same",
		"C": true,
		"D": nil,
	}
	next := map[string]any{
		"A": 2,
		"B": "same",
		"D": "set",
		"E": nil,
		"F": []string{"x"},
	}

	changes := Diff(previous, next)
	want := []Change{
		{Key: "A", Value: 2},
		{Key: "C"},
		{Key: "D", Value: "set"},
		{Key: "F", Value: []string{"x"}},
	}
	if len(changes) != len(want) {
		t.Fatalf("expected %d changes, got %+v", len(want), changes)
	}
	for i, change := range changes {
		if change.Key != want[i].Key {
			t.Fatalf("change %d: expected key %s, got %s", i, want[i].Key, change.Key)
		}
		if (change.Value == nil) != (want[i].Value == nil) {
			t.Fatalf("change %d: expected value %v, got %v", i, want[i].Value, change.Value)
		}
	}
	if Diff(next, next) != nil {
		t.Fatalf("expected no changes for identical maps")
	}
}

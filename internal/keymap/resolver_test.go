//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"slices"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	bindings := []Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionScrollBack, []string{"left", "h"}, "Scroll back", "playback"},
	}

	r := NewResolver(bindings)

	tests := []struct {
		key      string
		expected Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{" ", ActionPlayPause},
		{"left", ActionScrollBack},
		{"h", ActionScrollBack},
		{"unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := r.Resolve(tt.key)
			if result != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, result, tt.expected)
			}
		})
	}
}

func TestResolver_KeysFor(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionRestart, []string{"r"}, "Restart", "playback"},
	})

	if keys := r.KeysFor(ActionQuit); len(keys) != 2 || !slices.Contains(keys, "ctrl+c") {
		t.Errorf("KeysFor(quit) = %v", keys)
	}
	if keys := r.KeysFor(Action("unknown")); keys != nil {
		t.Errorf("KeysFor(unknown) = %v, want nil", keys)
	}
}

func TestResolver_DeduplicatesKeys(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionJumpStart, []string{"home", "0"}, "Start", "playback"},
		{ActionJumpStart, []string{"home"}, "Start", "view"},
	})

	keys := r.KeysFor(ActionJumpStart)
	if len(keys) != 2 {
		t.Errorf("expected 2 unique keys, got %v", keys)
	}
}

func TestDefault_ResolvesAllBindings(t *testing.T) {
	r := Default()

	for _, b := range All {
		for _, key := range b.Keys {
			if got := r.Resolve(key); got != b.Action {
				t.Errorf("Resolve(%q) = %q, want %q (duplicate key?)", key, got, b.Action)
			}
		}
	}
}

func TestResolver_Lookup(t *testing.T) {
	r := Default()

	b, ok := r.Lookup("L")
	if !ok || b.Action != ActionJumpForward || b.Context != "playback" {
		t.Errorf("Lookup(L) = %+v, %v", b, ok)
	}
	if _, ok := r.Lookup("x"); ok {
		t.Error("Lookup(x) found a binding")
	}
}

func TestResolver_LaterBindingWins(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionRestart, []string{"r"}, "Restart", "playback"},
		{ActionJumpStart, []string{"r"}, "Start", "view"},
	})

	if got := r.Resolve("r"); got != ActionJumpStart {
		t.Errorf("Resolve(r) = %q, want %q", got, ActionJumpStart)
	}
}

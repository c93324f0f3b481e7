package render

import (
	"strings"
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "Stairway", "Stairway"},
		{"control chars", "Stair\x1b[2Jway\n", "Stair[2Jway"},
		{"tab kept", "a\tb", "a\tb"},
		{"invalid utf8", "ab\xffcd", "abcd"},
		{"nbsp", "a\u00a0b", "a b"},
		{"unicode kept", "Café 東京", "Café 東京"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncation with ellipsis", "hello world", 8, "hello w…"},
		{"wide characters", "東京東京", 5, "東京…"},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestRow(t *testing.T) {
	got := Row("left", "right", 20)
	if len(got) != 20 {
		t.Errorf("Row length = %d, want 20", len(got))
	}
	if !strings.HasPrefix(got, "left") || !strings.HasSuffix(got, "right") {
		t.Errorf("Row = %q", got)
	}

	if got := Row("left", "right", 5); got != "left right" {
		t.Errorf("Row tight = %q, want minimum gap of 1", got)
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00.0"},
		{1250 * time.Millisecond, "0:01.2"},
		{83*time.Second + 900*time.Millisecond, "1:23.9"},
		{-time.Second, "0:00.0"},
	}

	for _, tt := range tests {
		if got := Position(tt.in); got != tt.want {
			t.Errorf("Position(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	if got := Duration(3*time.Minute + 58*time.Second); got != "3:58" {
		t.Errorf("Duration = %q, want 3:58", got)
	}
}

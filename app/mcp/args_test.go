package mcp

import (
	"reflect"
	"testing"
)

func TestStringArg(t *testing.T) {
	args := map[string]any{"set": "value", "empty": "", "wrong": 42}

	if got := stringArg(args, "set", "fallback"); got != "value" {
		t.Errorf("Expected 'value', got '%s'", got)
	}
	if got := stringArg(args, "empty", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for empty string, got '%s'", got)
	}
	if got := stringArg(args, "wrong", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for non-string, got '%s'", got)
	}
	if got := stringArg(args, "missing", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for missing key, got '%s'", got)
	}
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want int
	}{
		{"json number", map[string]any{"limit": float64(25)}, 25},
		{"native int", map[string]any{"limit": 25}, 25},
		{"below low clamps", map[string]any{"limit": float64(0)}, 1},
		{"above high clamps", map[string]any{"limit": float64(900)}, 50},
		{"missing uses fallback", map[string]any{}, 10},
		{"wrong type uses fallback", map[string]any{"limit": "ten"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := intArg(tt.args, "limit", 10, 1, 50); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStringSliceArg(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"json array", map[string]any{"sources": []any{"ruv", "mbl"}}, []string{"ruv", "mbl"}},
		{"comma string", map[string]any{"sources": "ruv, mbl"}, []string{"ruv", "mbl"}},
		{"single string", map[string]any{"sources": "ruv"}, []string{"ruv"}},
		{"empty string", map[string]any{"sources": ""}, nil},
		{"missing", map[string]any{}, nil},
		{"mixed array skips non-strings", map[string]any{"sources": []any{"ruv", 7, ""}}, []string{"ruv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringSliceArg(tt.args, "sources")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

package parser

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"0", 0},
		{"42", 42},
		{"1_000", 1000},
		{"0.5", 0.5},
		{"1e3", 1000},
		{"0xff", 255},
		{"0o17", 15},
		{"0b101", 5},
		{"017", 15},
		{"09", 9},
	}
	for _, tt := range tests {
		if got := parseNumber(tt.input); got != tt.expected {
			t.Errorf("parseNumber(%q): Expected %v, got %v", tt.input, tt.expected, got)
		}
	}
	if got := parseNumber("0xZZ"); !math.IsNaN(got) {
		t.Errorf("Expected NaN for invalid hex, got %v", got)
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`\t\r\\`, "\t\r\\"},
		{`\'\"`, `'"`},
		{`\x41`, "A"},
		{`\u0042`, "B"},
		{`\u{1F600}`, "\U0001F600"},
		{`\0`, "\x00"},
		{"a\\\nb", "ab"},
		{`\q`, "q"},
	}
	for _, tt := range tests {
		if got := unescape(tt.input); got != tt.expected {
			t.Errorf("unescape(%q): Expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

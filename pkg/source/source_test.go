package source

import "testing"

func TestPosition(t *testing.T) {
	sf := NewInlineSource("let a = 1;\nlet b = a;\n\nb")

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{10, 1, 11},
		{11, 2, 1},
		{15, 2, 5},
		{22, 3, 1},
		{23, 4, 1},
		{1000, 4, 2},
	}

	for _, tt := range tests {
		line, col := sf.Position(tt.offset)
		if line != tt.line || col != tt.column {
			t.Errorf("Position(%d): expected %d:%d, got %d:%d", tt.offset, tt.line, tt.column, line, col)
		}
	}
}

func TestLine(t *testing.T) {
	sf := NewInlineSource("first\r\nsecond")
	if got := sf.Line(1); got != "first" {
		t.Errorf("Expected 'first', got %q", got)
	}
	if got := sf.Line(2); got != "second" {
		t.Errorf("Expected 'second', got %q", got)
	}
	if got := sf.Line(3); got != "" {
		t.Errorf("Expected empty line, got %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{Lo: 4, Hi: 8}
	b := Span{Lo: 2, Hi: 6}
	if got := a.Cover(b); got != (Span{Lo: 2, Hi: 8}) {
		t.Errorf("Expected 2..8, got %s", got)
	}
	if got := NoSpan.Cover(a); got != a {
		t.Errorf("Expected %s, got %s", a, got)
	}
	if !b.Before(a) {
		t.Errorf("Expected %s before %s", b, a)
	}
	if NoSpan.IsValid() {
		t.Errorf("Expected NoSpan to be invalid")
	}
}

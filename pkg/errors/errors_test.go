package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/nooga/tscheck/pkg/source"
)

func TestDisplayErrors(t *testing.T) {
	file := source.NewSourceFile("main.ts", "main.ts", "let a = 1;\nlet b = a.foo;\n")
	lo := strings.Index(file.Content, "foo")
	err := NewTypeError(NoSuchProperty, source.Span{Lo: lo, Hi: lo + 3}, "Property 'foo' does not exist on type 'number'")

	var buf bytes.Buffer
	DisplayErrors(&buf, file, []Diagnostic{err})
	out := buf.String()

	if !strings.Contains(out, "main.ts:2:11: TS2339: Property 'foo' does not exist on type 'number'") {
		t.Errorf("Expected location header, got:\n%s", out)
	}
	if !strings.Contains(out, "  let b = a.foo;\n") {
		t.Errorf("Expected source line, got:\n%s", out)
	}
	if !strings.Contains(out, "\n            ^~~\n") {
		t.Errorf("Expected marker under 'foo', got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no color codes for a buffer, got:\n%q", out)
	}
}

func TestDisplayErrorsWideRunes(t *testing.T) {
	file := source.NewInlineSource("let 名前 = x;")
	lo := strings.Index(file.Content, "x")
	err := NewTypeError(UndefinedSymbol, source.Span{Lo: lo, Hi: lo + 1}, "")

	var buf bytes.Buffer
	DisplayErrors(&buf, file, []Diagnostic{err})

	// "let " is 4 cells, each CJK rune is 2 cells, " = " is 3 cells.
	if !strings.Contains(buf.String(), "\n  "+strings.Repeat(" ", 11)+"^\n") {
		t.Errorf("Expected caret aligned after wide runes, got:\n%s", buf.String())
	}
}

func TestAggregateFlattens(t *testing.T) {
	a := NewTypeError(NoSuchProperty, source.Span{Lo: 0, Hi: 1}, "")
	b := NewTypeError(ReadOnly, source.Span{Lo: 1, Hi: 2}, "")
	inner := Aggregate(Errors, source.NoSpan, []*TypeError{a, b})
	outer := Aggregate(Errors, source.NoSpan, []*TypeError{inner, a})

	if len(outer.Related) != 3 {
		t.Fatalf("Expected 3 related errors, got %d", len(outer.Related))
	}
	flat := Flatten([]*TypeError{outer})
	if len(flat) != 3 || flat[1].Code != ReadOnly {
		t.Errorf("Expected flattened [TS2339 TS2540 TS2339], got %v", flat)
	}
}

func TestCodes(t *testing.T) {
	if !ReferencedInInit.Fatal() {
		t.Errorf("Expected ReferencedInInit to be fatal")
	}
	if ReadOnly.Fatal() {
		t.Errorf("Expected ReadOnly to be recoverable")
	}
	if got := TS2394.String(); got != "TS2394" {
		t.Errorf("Expected TS2394, got %s", got)
	}
	err := NewTypeError(WrongParams, source.NoSpan, "")
	if err.Msg != "wrong number of arguments" {
		t.Errorf("Expected default message, got %q", err.Msg)
	}
	if !stderrors.Is(err, &TypeError{Code: WrongParams}) {
		t.Errorf("Expected errors.Is to match by code")
	}
}

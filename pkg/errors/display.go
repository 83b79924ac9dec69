package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"

	"github.com/nooga/tscheck/pkg/source"
)

const (
	colorRed   = "\x1b[31m"
	colorBold  = "\x1b[1m"
	colorDim   = "\x1b[2m"
	colorReset = "\x1b[0m"
)

// UseColor reports whether w is a terminal that accepts ANSI escapes.
// NO_COLOR and TERM=dumb turn color off.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DisplayErrors prints diagnostics in a user-friendly format, including the
// source line and a marker under the offending span.
func DisplayErrors(w io.Writer, file *source.SourceFile, errs []Diagnostic) {
	color := UseColor(w)
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	for _, err := range errs {
		span := err.Span()
		label := err.Kind() + " Error"
		if te, ok := err.(*TypeError); ok {
			label = te.Code.String()
		}

		if file == nil || !span.IsValid() {
			fmt.Fprintf(w, "%s: %s\n", paint(colorRed+colorBold, label), err.Message())
			continue
		}

		line, col := file.Position(span.Lo)
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", file.DisplayPath(), line, col, paint(colorRed+colorBold, label), err.Message())

		text := file.Line(line)
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(text, "\t "))

		prefix := text
		if col-1 <= len(text) {
			prefix = text[:col-1]
		}
		length := span.Len()
		if rest := len(text) - (col - 1); length > rest {
			length = rest
		}
		under := ""
		if length > 0 && col-1+length <= len(text) {
			under = text[col-1 : col-1+length]
		}
		marker := padFor(prefix) + "^"
		if n := displayWidth(under); n > 1 {
			marker += strings.Repeat("~", n-1)
		}
		fmt.Fprintf(w, "  %s\n", paint(colorRed, marker))

		if te, ok := err.(*TypeError); ok {
			for _, r := range te.Related {
				fmt.Fprintf(w, "  %s\n", paint(colorDim, r.Code.String()+": "+r.Msg))
			}
		}
		fmt.Fprintln(w)
	}
}

// padFor returns whitespace that lines up with s on a terminal, keeping tabs
// and counting wide runes as two cells.
func padFor(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runeWidth(r)))
	}
	return b.String()
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

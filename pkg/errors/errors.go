package errors

import (
	"fmt"
	"strings"

	"github.com/nooga/tscheck/pkg/source"
)

// Diagnostic is the interface implemented by all tscheck errors.
type Diagnostic interface {
	error
	Span() source.Span
	Kind() string // "Syntax", "Type"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// --- Concrete Error Types ---

// SyntaxError represents a parse failure reported by the parser.
type SyntaxError struct {
	At    source.Span
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %s: %s", e.At, e.Msg)
}
func (e *SyntaxError) Span() source.Span { return e.At }
func (e *SyntaxError) Kind() string      { return "Syntax" }
func (e *SyntaxError) Message() string   { return e.Msg }
func (e *SyntaxError) Unwrap() error     { return e.Cause }

// TypeError represents an error during static type checking.
type TypeError struct {
	At      source.Span
	Code    Code
	Msg     string
	Related []*TypeError // members of an aggregate (UnionError, Errors)
	Cause   error
}

// NewTypeError builds a TypeError; the message defaults to the code's text.
func NewTypeError(code Code, span source.Span, format string, args ...interface{}) *TypeError {
	msg := code.Text()
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &TypeError{At: span, Code: code, Msg: msg}
}

// Aggregate wraps several errors under one code, flattening nested
// aggregates of the same code.
func Aggregate(code Code, span source.Span, errs []*TypeError) *TypeError {
	flat := make([]*TypeError, 0, len(errs))
	for _, e := range errs {
		if e.Code == code && len(e.Related) > 0 {
			flat = append(flat, e.Related...)
			continue
		}
		flat = append(flat, e)
	}
	return &TypeError{At: span, Code: code, Msg: code.Text(), Related: flat}
}

func (e *TypeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s: %s", e.Code, e.At, e.Msg)
	for _, r := range e.Related {
		b.WriteString("\n  ")
		b.WriteString(strings.ReplaceAll(r.Error(), "\n", "\n  "))
	}
	return b.String()
}
func (e *TypeError) Span() source.Span { return e.At }
func (e *TypeError) Kind() string      { return "Type" }
func (e *TypeError) Message() string   { return e.Msg }
func (e *TypeError) Unwrap() error     { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// Fatal reports whether the error aborts the inference chain that produced it.
func (e *TypeError) Fatal() bool { return e.Code.Fatal() }

// Is matches another *TypeError by code, so errors.Is(err, &TypeError{Code: X})
// works for code checks.
func (e *TypeError) Is(target error) bool {
	t, ok := target.(*TypeError)
	return ok && t.Code == e.Code
}

// Flatten expands Errors aggregates into their members, keeping order.
func Flatten(errs []*TypeError) []*TypeError {
	var out []*TypeError
	for _, e := range errs {
		if e.Code == Errors && len(e.Related) > 0 {
			out = append(out, Flatten(e.Related)...)
			continue
		}
		out = append(out, e)
	}
	return out
}

package source

import "fmt"

// Span is a half-open byte range [Lo, Hi) into a SourceFile. Spans are opaque
// to the analyzer: it compares them, it never reads the text behind them.
type Span struct {
	Lo int
	Hi int
}

// NoSpan marks synthesized nodes and built-in declarations.
var NoSpan = Span{Lo: -1, Hi: -1}

// IsValid reports whether the span points into real source.
func (s Span) IsValid() bool {
	return s.Lo >= 0 && s.Hi >= s.Lo
}

// Len returns the number of bytes covered.
func (s Span) Len() int {
	if !s.IsValid() {
		return 0
	}
	return s.Hi - s.Lo
}

// Before orders spans by start offset, then by end offset.
func (s Span) Before(o Span) bool {
	if s.Lo != o.Lo {
		return s.Lo < o.Lo
	}
	return s.Hi < o.Hi
}

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	if !s.IsValid() {
		return o
	}
	if !o.IsValid() {
		return s
	}
	lo, hi := s.Lo, s.Hi
	if o.Lo < lo {
		lo = o.Lo
	}
	if o.Hi > hi {
		hi = o.Hi
	}
	return Span{Lo: lo, Hi: hi}
}

func (s Span) String() string {
	if !s.IsValid() {
		return "<builtin>"
	}
	return fmt.Sprintf("%d..%d", s.Lo, s.Hi)
}

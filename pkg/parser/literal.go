package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nooga/tscheck/pkg/ast"
)

func (l *lowerer) numberLit(n *sitter.Node) ast.Expr {
	raw := l.text(n)
	if strings.HasSuffix(raw, "n") {
		x := &ast.BigIntLit{Raw: raw}
		x.At = l.span(n)
		return x
	}
	x := &ast.NumLit{Value: parseNumber(raw), Raw: raw}
	x.At = l.span(n)
	return x
}

func (l *lowerer) numberValue(n *sitter.Node) float64 {
	return parseNumber(l.text(n))
}

// parseNumber evaluates a numeric literal: decimal, hex, octal or binary,
// with optional `_` separators.
func parseNumber(raw string) float64 {
	s := strings.ReplaceAll(raw, "_", "")
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if v, err := strconv.ParseUint(s[2:], base, 64); err == nil {
				return float64(v)
			}
			return math.NaN()
		}
		// legacy octal: 017
		if allOctal(s[1:]) {
			if v, err := strconv.ParseUint(s[1:], 8, 64); err == nil {
				return float64(v)
			}
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v
		}
		return math.NaN()
	}
	return v
}

func allOctal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return s != ""
}

// stringValue returns the cooked value of a string literal node.
func (l *lowerer) stringValue(n *sitter.Node) string {
	raw := l.text(n)
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	return unescape(raw)
}

// template lowers a template string. Quasis are the cooked text between
// substitutions.
func (l *lowerer) template(n *sitter.Node) *ast.TemplateLit {
	x := &ast.TemplateLit{}
	cur := int(n.StartByte()) + 1 // past the opening backtick
	for _, c := range named(n) {
		if c.Type() != "template_substitution" {
			continue
		}
		x.Quasis = append(x.Quasis, unescape(string(l.src[cur:c.StartByte()])))
		if inner := named(c); len(inner) > 0 {
			x.Exprs = append(x.Exprs, l.expr(inner[0]))
		} else {
			x.Exprs = append(x.Exprs, l.invalid(c))
		}
		cur = int(c.EndByte())
	}
	end := int(n.EndByte()) - 1
	if end < cur {
		end = cur
	}
	x.Quasis = append(x.Quasis, unescape(string(l.src[cur:end])))
	x.At = l.span(n)
	return x
}

// unescape processes the escape sequences of a string or template body.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			i++
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '0':
			if i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
				b.WriteByte(e)
			} else {
				b.WriteByte(0)
			}
			i++
		case '\r':
			// line continuation
			i++
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\n':
			i++
		case 'x':
			if i+3 <= len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 3
					continue
				}
			}
			b.WriteByte('x')
			i++
		case 'u':
			r, size := parseUnicodeEscape(s[i+1:])
			if size == 0 {
				b.WriteByte('u')
				i++
				continue
			}
			b.WriteRune(r)
			i += 1 + size
		default:
			_, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			i += size
		}
	}
	return b.String()
}

// parseUnicodeEscape reads the part of a \u escape after the `u`: four hex
// digits or a braced code point. It returns the rune and the bytes consumed.
func parseUnicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}

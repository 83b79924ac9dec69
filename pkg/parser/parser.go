// Package parser turns TypeScript source into the tscheck syntax tree. The
// concrete syntax tree comes from tree-sitter; this package lowers it node by
// node into pkg/ast, keeping byte spans so diagnostics point back into the
// original text.
package parser

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parse parses one module. Files ending in .tsx use the TSX grammar. A
// syntax error is returned as *errors.SyntaxError pointing at the first
// broken node.
func Parse(ctx context.Context, file *source.SourceFile) (*ast.Module, error) {
	content := []byte(file.Content)
	if !utf8.Valid(content) {
		return nil, &errors.SyntaxError{At: source.Span{Lo: 0, Hi: 0}, Msg: "source is not valid UTF-8"}
	}

	// A parser per call: tree-sitter parsers are not safe for concurrent use.
	p := sitter.NewParser()
	if strings.HasSuffix(file.DisplayPath(), ".tsx") {
		p.SetLanguage(tsx.GetLanguage())
	} else {
		p.SetLanguage(typescript.GetLanguage())
	}

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file.DisplayPath(), err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parsing %s: empty syntax tree", file.DisplayPath())
	}
	if root.HasError() {
		return nil, firstSyntaxError(root, content)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := &lowerer{src: content}
	m := &ast.Module{File: file, Body: l.stmts(root)}
	m.At = l.span(root)
	debugPrint("lowered %s: %d statements", file.DisplayPath(), len(m.Body))
	return m, nil
}

// ParseString parses inline source. Used by tests and the -e flag.
func ParseString(ctx context.Context, code string) (*ast.Module, error) {
	return Parse(ctx, source.NewInlineSource(code))
}

// firstSyntaxError finds the first ERROR or MISSING node in document order.
func firstSyntaxError(root *sitter.Node, src []byte) error {
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || n == nil || !n.HasError() && !n.IsMissing() {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	if found == nil {
		return &errors.SyntaxError{At: source.Span{Lo: 0, Hi: len(src)}, Msg: "invalid syntax"}
	}

	at := source.Span{Lo: int(found.StartByte()), Hi: int(found.EndByte())}
	if found.IsMissing() {
		return &errors.SyntaxError{At: at, Msg: fmt.Sprintf("expected '%s'", found.Type())}
	}
	text := found.Content(src)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 20 {
		text = text[:20] + "..."
	}
	if text == "" {
		return &errors.SyntaxError{At: at, Msg: "unexpected end of input"}
	}
	return &errors.SyntaxError{At: at, Msg: fmt.Sprintf("unexpected '%s'", text)}
}

// lowerer carries the source bytes through the lowering functions.
type lowerer struct {
	src []byte
}

func (l *lowerer) span(n *sitter.Node) source.Span {
	return source.Span{Lo: int(n.StartByte()), Hi: int(n.EndByte())}
}

func (l *lowerer) text(n *sitter.Node) string {
	return n.Content(l.src)
}

// named returns the named children of n, skipping comments.
func named(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" || c.Type() == "html_comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// children returns every child of n, named or not, skipping comments.
func children(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || c.Type() == "comment" || c.Type() == "html_comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// hasToken reports whether n has an anonymous child spelled tok, before the
// first child that carries field stop (when stop is not empty).
func (l *lowerer) hasToken(n *sitter.Node, tok string, stop string) bool {
	var limit *sitter.Node
	if stop != "" {
		limit = n.ChildByFieldName(stop)
	}
	for _, c := range children(n) {
		if limit != nil && c.StartByte() >= limit.StartByte() {
			return false
		}
		if !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

// childOfType returns the first named child of the given type.
func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range named(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

// sameNode reports whether two handles refer to the same syntax node.
func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// accessibility returns the accessibility modifier among n's children.
func (l *lowerer) accessibility(n *sitter.Node) string {
	if m := childOfType(n, "accessibility_modifier"); m != nil {
		return l.text(m)
	}
	return ""
}

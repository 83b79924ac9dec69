package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nooga/tscheck/pkg/ast"
)

// class lowers the parts shared by class declarations and expressions.
func (l *lowerer) class(n *sitter.Node) *ast.Class {
	c := &ast.Class{
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
		Abstract:   n.Type() == "abstract_class_declaration",
	}
	if h := childOfType(n, "class_heritage"); h != nil {
		l.heritage(c, h)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		c.Body = l.classBody(body)
	}
	c.At = l.span(n)
	return c
}

func (l *lowerer) heritage(c *ast.Class, h *sitter.Node) {
	for _, clause := range named(h) {
		switch clause.Type() {
		case "extends_clause":
			if v := clause.ChildByFieldName("value"); v != nil {
				c.Super = l.expr(v)
			} else if inner := named(clause); len(inner) > 0 {
				c.Super = l.expr(inner[0])
			}
			c.SuperTypeArgs = l.typeArgs(clause.ChildByFieldName("type_arguments"))
		case "implements_clause":
			for _, t := range named(clause) {
				if ref, ok := l.typeNode(t).(*ast.TypeRef); ok {
					c.Implements = append(c.Implements, ref)
				}
			}
		}
	}
}

func (l *lowerer) classBody(n *sitter.Node) []ast.ClassMember {
	var out []ast.ClassMember
	for _, m := range named(n) {
		at := l.span(m)
		switch m.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			name := m.ChildByFieldName("name")
			if name != nil && l.text(name) == "constructor" && name.Type() == "property_identifier" {
				ctor := &ast.Constructor{
					Params:        l.params(m.ChildByFieldName("parameters")),
					Body:          l.block(m.ChildByFieldName("body")),
					Accessibility: l.accessibility(m),
				}
				ctor.At = at
				out = append(out, ctor)
				continue
			}
			cm := &ast.ClassMethod{
				Key:           l.propName(name),
				Kind:          l.methodKind(m),
				Fn:            l.function(m),
				Static:        l.hasToken(m, "static", "name"),
				Abstract:      m.Type() == "abstract_method_signature" || l.hasToken(m, "abstract", "name"),
				Optional:      l.hasToken(m, "?", "parameters"),
				Accessibility: l.accessibility(m),
			}
			cm.At = at
			out = append(out, cm)

		case "public_field_definition", "field_definition":
			p := &ast.ClassProp{
				Key:           l.propName(m.ChildByFieldName("name")),
				Type:          l.typeAnn(m.ChildByFieldName("type")),
				Static:        l.hasToken(m, "static", "name"),
				Readonly:      l.hasToken(m, "readonly", "name"),
				Optional:      l.hasToken(m, "?", "type"),
				Abstract:      l.hasToken(m, "abstract", "name"),
				Declare:       l.hasToken(m, "declare", "name"),
				Accessibility: l.accessibility(m),
			}
			if m.ChildByFieldName("name") == nil {
				// older grammars use `property` for the key
				p.Key = l.propName(m.ChildByFieldName("property"))
			}
			if v := m.ChildByFieldName("value"); v != nil {
				p.Value = l.expr(v)
			}
			p.At = at
			out = append(out, p)

		case "index_signature":
			if sig := l.indexSig(m); sig != nil {
				out = append(out, sig)
			}

		case "class_static_block":
			b := &ast.StaticBlock{Body: l.block(m.ChildByFieldName("body"))}
			b.At = at
			out = append(out, b)

		case "decorator":
		default:
			debugPrint("unsupported class member %s", m.Type())
		}
	}
	return out
}

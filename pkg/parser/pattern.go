package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nooga/tscheck/pkg/ast"
)

func (l *lowerer) identPat(n *sitter.Node) *ast.IdentPat {
	p := &ast.IdentPat{Name: l.text(n)}
	p.At = l.span(n)
	return p
}

// pattern lowers a binding pattern: a declarator name, parameter or catch
// parameter.
func (l *lowerer) pattern(n *sitter.Node) ast.Pattern {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		return l.identPat(n)

	case "array_pattern":
		p := &ast.ArrayPat{}
		expectElem := true
		for _, c := range children(n) {
			switch {
			case !c.IsNamed() && c.Type() == ",":
				if expectElem {
					p.Elems = append(p.Elems, nil)
				}
				expectElem = true
			case c.IsNamed():
				p.Elems = append(p.Elems, l.pattern(c))
				expectElem = false
			}
		}
		p.At = l.span(n)
		return p

	case "object_pattern":
		return l.objectPattern(n, l.pattern)

	case "assignment_pattern":
		p := &ast.AssignPat{
			Left:  l.pattern(n.ChildByFieldName("left")),
			Right: l.expr(n.ChildByFieldName("right")),
		}
		p.At = l.span(n)
		return p

	case "rest_pattern":
		p := &ast.RestPat{Arg: l.pattern(named(n)[0])}
		p.At = l.span(n)
		return p
	}
	return l.exprPat(n)
}

// assignPattern lowers the target of an assignment or a for-in head without
// a declaration keyword. Destructuring targets may contain member
// expressions anywhere a name can appear.
func (l *lowerer) assignPattern(n *sitter.Node) ast.Pattern {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		return l.identPat(n)
	case "array_pattern", "array":
		p := &ast.ArrayPat{}
		expectElem := true
		for _, c := range children(n) {
			switch {
			case !c.IsNamed() && c.Type() == ",":
				if expectElem {
					p.Elems = append(p.Elems, nil)
				}
				expectElem = true
			case c.IsNamed():
				p.Elems = append(p.Elems, l.assignPattern(c))
				expectElem = false
			}
		}
		p.At = l.span(n)
		return p
	case "object_pattern":
		return l.objectPattern(n, l.assignPattern)
	case "assignment_pattern", "assignment_expression":
		p := &ast.AssignPat{
			Left:  l.assignPattern(n.ChildByFieldName("left")),
			Right: l.expr(n.ChildByFieldName("right")),
		}
		p.At = l.span(n)
		return p
	case "rest_pattern", "spread_element":
		p := &ast.RestPat{Arg: l.assignPattern(named(n)[0])}
		p.At = l.span(n)
		return p
	case "parenthesized_expression":
		if inner := named(n); len(inner) == 1 {
			return l.assignPattern(inner[0])
		}
	}
	return l.exprPat(n)
}

func (l *lowerer) exprPat(n *sitter.Node) *ast.ExprPat {
	p := &ast.ExprPat{X: l.expr(n)}
	p.At = l.span(n)
	return p
}

func (l *lowerer) objectPattern(n *sitter.Node, sub func(*sitter.Node) ast.Pattern) *ast.ObjectPat {
	p := &ast.ObjectPat{}
	for _, c := range named(n) {
		prop := &ast.ObjPatProp{}
		prop.At = l.span(c)
		switch c.Type() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			prop.Key = l.text(c)
			prop.Value = l.identPat(c)
		case "pair_pattern":
			prop.Key = l.propName(c.ChildByFieldName("key")).Name
			prop.Value = sub(c.ChildByFieldName("value"))
		case "object_assignment_pattern":
			// { a = 1 }
			left := c.ChildByFieldName("left")
			prop.Key = l.text(left)
			ap := &ast.AssignPat{Left: sub(left), Right: l.expr(c.ChildByFieldName("right"))}
			ap.At = l.span(c)
			prop.Value = ap
		case "rest_pattern":
			rp := &ast.RestPat{Arg: sub(named(c)[0])}
			rp.At = l.span(c)
			p.Rest = rp
			continue
		default:
			continue
		}
		p.Props = append(p.Props, prop)
	}
	p.At = l.span(n)
	return p
}

// setPatternType attaches a type annotation to the pattern it belongs to.
func setPatternType(p ast.Pattern, t ast.TypeNode) {
	switch p := p.(type) {
	case *ast.IdentPat:
		p.Type = t
	case *ast.ArrayPat:
		p.Type = t
	case *ast.ObjectPat:
		p.Type = t
	case *ast.RestPat:
		p.Type = t
	case *ast.AssignPat:
		setPatternType(p.Left, t)
	}
}

package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nooga/tscheck/pkg/ast"
)

// typeAnn unwraps a type_annotation (`: T`) or returns the type itself.
func (l *lowerer) typeAnn(n *sitter.Node) ast.TypeNode {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "type_annotation", "opting_type_annotation", "omitting_type_annotation", "adding_type_annotation":
		if inner := named(n); len(inner) > 0 {
			return l.typeNode(inner[0])
		}
		return nil
	case "type_predicate_annotation", "asserts_annotation":
		// x is T, asserts x: the call itself yields boolean.
		k := &ast.KeywordType{Name: "boolean"}
		if n.Type() == "asserts_annotation" {
			k.Name = "void"
		}
		k.At = l.span(n)
		return k
	}
	return l.typeNode(n)
}

func (l *lowerer) keyword(n *sitter.Node, name string) *ast.KeywordType {
	k := &ast.KeywordType{Name: name}
	k.At = l.span(n)
	return k
}

// typeNode lowers a type expression.
func (l *lowerer) typeNode(n *sitter.Node) ast.TypeNode {
	if n == nil {
		return nil
	}
	at := l.span(n)
	switch n.Type() {
	case "predefined_type":
		text := l.text(n)
		if strings.HasPrefix(text, "unique") {
			t := &ast.TypeOperator{Op: "unique", Type: l.keyword(n, "symbol")}
			t.At = at
			return t
		}
		return l.keyword(n, text)

	case "type_identifier", "identifier":
		t := &ast.TypeRef{Name: ast.EntityName{l.text(n)}}
		t.At = at
		return t

	case "nested_type_identifier", "nested_identifier", "member_expression":
		t := &ast.TypeRef{Name: l.entityName(n)}
		t.At = at
		return t

	case "generic_type":
		t := &ast.TypeRef{
			Name:     l.entityName(n.ChildByFieldName("name")),
			TypeArgs: l.typeArgs(n.ChildByFieldName("type_arguments")),
		}
		t.At = at
		return t

	case "literal_type":
		inner := named(n)
		if len(inner) == 0 {
			break
		}
		v := inner[0]
		switch v.Type() {
		case "null":
			return l.keyword(n, "null")
		case "undefined":
			return l.keyword(n, "undefined")
		}
		t := &ast.LitType{Value: l.expr(v)}
		if u, ok := t.Value.(*ast.UnaryExpr); ok && u.Op == "-" {
			if num, ok := u.Arg.(*ast.NumLit); ok {
				neg := &ast.NumLit{Value: -num.Value, Raw: "-" + num.Raw}
				neg.At = u.At
				t.Value = neg
			}
		}
		t.At = at
		return t

	case "undefined":
		return l.keyword(n, "undefined")
	case "null":
		return l.keyword(n, "null")

	case "template_literal_type":
		if childOfType(n, "template_type") == nil {
			// `abc` with no interpolation is a string literal type.
			raw := l.text(n)
			value := &ast.TemplateLit{Quasis: []string{unescape(raw[1 : len(raw)-1])}}
			value.At = at
			t := &ast.LitType{Value: value}
			t.At = at
			return t
		}

	case "array_type":
		t := &ast.ArrayType{Elem: l.typeNode(named(n)[0])}
		t.At = at
		return t

	case "tuple_type":
		t := &ast.TupleType{}
		for _, c := range named(n) {
			t.Elems = append(t.Elems, l.tupleElem(c))
		}
		t.At = at
		return t

	case "optional_type":
		t := &ast.OptionalType{Type: l.typeNode(named(n)[0])}
		t.At = at
		return t

	case "rest_type":
		t := &ast.RestType{Type: l.typeNode(named(n)[0])}
		t.At = at
		return t

	case "union_type":
		t := &ast.UnionType{}
		l.flattenTypes(n, "union_type", &t.Types)
		t.At = at
		return t

	case "intersection_type":
		t := &ast.IntersectionType{}
		l.flattenTypes(n, "intersection_type", &t.Types)
		t.At = at
		return t

	case "function_type":
		t := &ast.FnType{
			TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
			Params:     l.params(n.ChildByFieldName("parameters")),
			Ret:        l.typeAnn(n.ChildByFieldName("return_type")),
		}
		t.At = at
		return t

	case "constructor_type":
		t := &ast.FnType{
			TypeParams:  l.typeParams(n.ChildByFieldName("type_parameters")),
			Params:      l.params(n.ChildByFieldName("parameters")),
			Ret:         l.typeAnn(n.ChildByFieldName("type")),
			Constructor: true,
		}
		t.At = at
		return t

	case "object_type":
		t := &ast.TypeLit{Members: l.typeMembers(n)}
		t.At = at
		return t

	case "type_query":
		inner := named(n)
		if len(inner) == 0 {
			break
		}
		t := &ast.TypeQuery{Name: l.entityName(inner[0])}
		t.At = at
		return t

	case "parenthesized_type":
		t := &ast.ParenType{Type: l.typeNode(named(n)[0])}
		t.At = at
		return t

	case "this_type", "this":
		t := &ast.ThisType{}
		t.At = at
		return t

	case "index_type_query":
		t := &ast.TypeOperator{Op: "keyof", Type: l.typeNode(named(n)[0])}
		t.At = at
		return t

	case "readonly_type":
		t := &ast.TypeOperator{Op: "readonly", Type: l.typeNode(named(n)[0])}
		t.At = at
		return t

	case "type_predicate":
		return l.keyword(n, "boolean")
	case "asserts":
		return l.keyword(n, "void")
	}

	debugPrint("unsupported type %s", n.Type())
	t := &ast.UnsupportedType{Kind: strings.ReplaceAll(n.Type(), "_", " ")}
	t.At = at
	return t
}

// tupleElem lowers a tuple member, including labeled members `name?: T`.
func (l *lowerer) tupleElem(n *sitter.Node) ast.TypeNode {
	switch n.Type() {
	case "required_parameter", "tuple_parameter":
		return l.typeAnn(n.ChildByFieldName("type"))
	case "optional_parameter", "optional_tuple_parameter":
		t := &ast.OptionalType{Type: l.typeAnn(n.ChildByFieldName("type"))}
		t.At = l.span(n)
		return t
	}
	return l.typeNode(n)
}

func (l *lowerer) flattenTypes(n *sitter.Node, kind string, out *[]ast.TypeNode) {
	for _, c := range named(n) {
		if c.Type() == kind {
			l.flattenTypes(c, kind, out)
			continue
		}
		*out = append(*out, l.typeNode(c))
	}
}

// entityName splits a dotted name such as `A.B.C`.
func (l *lowerer) entityName(n *sitter.Node) ast.EntityName {
	if n == nil {
		return nil
	}
	parts := strings.Split(l.text(n), ".")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return ast.EntityName(parts)
}

func (l *lowerer) typeParams(n *sitter.Node) []*ast.TypeParam {
	if n == nil {
		return nil
	}
	var out []*ast.TypeParam
	for _, c := range named(n) {
		if c.Type() != "type_parameter" {
			continue
		}
		tp := &ast.TypeParam{Name: l.text(c.ChildByFieldName("name"))}
		if con := c.ChildByFieldName("constraint"); con != nil {
			if inner := named(con); len(inner) > 0 {
				tp.Constraint = l.typeNode(inner[0])
			}
		}
		if def := c.ChildByFieldName("value"); def != nil {
			if inner := named(def); len(inner) > 0 {
				tp.Default = l.typeNode(inner[0])
			}
		}
		tp.At = l.span(c)
		out = append(out, tp)
	}
	return out
}

func (l *lowerer) typeArgs(n *sitter.Node) []ast.TypeNode {
	if n == nil {
		return nil
	}
	var out []ast.TypeNode
	for _, c := range named(n) {
		out = append(out, l.typeNode(c))
	}
	return out
}

// typeMembers lowers the body of an interface or object type.
func (l *lowerer) typeMembers(n *sitter.Node) []ast.TypeMember {
	var out []ast.TypeMember
	for _, c := range named(n) {
		at := l.span(c)
		switch c.Type() {
		case "property_signature":
			m := &ast.PropSig{
				Key:      l.propName(c.ChildByFieldName("name")),
				Type:     l.typeAnn(c.ChildByFieldName("type")),
				Optional: l.hasToken(c, "?", "type"),
				Readonly: l.hasToken(c, "readonly", "name"),
			}
			m.At = at
			out = append(out, m)

		case "method_signature":
			m := &ast.MethodSig{
				Key:        l.propName(c.ChildByFieldName("name")),
				TypeParams: l.typeParams(c.ChildByFieldName("type_parameters")),
				Params:     l.params(c.ChildByFieldName("parameters")),
				Ret:        l.typeAnn(c.ChildByFieldName("return_type")),
				Optional:   l.hasToken(c, "?", "parameters"),
			}
			m.At = at
			out = append(out, m)

		case "call_signature":
			m := &ast.CallSig{
				TypeParams: l.typeParams(c.ChildByFieldName("type_parameters")),
				Params:     l.params(c.ChildByFieldName("parameters")),
				Ret:        l.typeAnn(c.ChildByFieldName("return_type")),
			}
			m.At = at
			out = append(out, m)

		case "construct_signature":
			m := &ast.ConstructSig{
				TypeParams: l.typeParams(c.ChildByFieldName("type_parameters")),
				Params:     l.params(c.ChildByFieldName("parameters")),
				Ret:        l.typeAnn(c.ChildByFieldName("type")),
			}
			m.At = at
			out = append(out, m)

		case "index_signature":
			if sig := l.indexSig(c); sig != nil {
				out = append(out, sig)
			}

		default:
			debugPrint("unsupported type member %s", c.Type())
		}
	}
	return out
}

// indexSig lowers `[key: K]: T`. Mapped type clauses have no model and are
// dropped.
func (l *lowerer) indexSig(n *sitter.Node) *ast.IndexSig {
	name := n.ChildByFieldName("name")
	if name == nil {
		name = childOfType(n, "identifier")
	}
	if name == nil {
		return nil
	}
	keyType := n.ChildByFieldName("index_type")
	valueType := n.ChildByFieldName("type")
	if keyType == nil || valueType == nil {
		// [name: K]: T, positionally
		rest := named(n)
		for i, c := range rest {
			if sameNode(c, name) && i+2 < len(rest) {
				keyType, valueType = rest[i+1], rest[i+2]
				break
			}
		}
	}
	sig := &ast.IndexSig{
		ParamName: l.text(name),
		KeyType:   l.typeNode(keyType),
		Type:      l.typeAnn(valueType),
		Readonly:  l.hasToken(n, "readonly", ""),
		Static:    l.hasToken(n, "static", ""),
	}
	sig.At = l.span(n)
	return sig
}

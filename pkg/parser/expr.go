package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/source"
)

func (l *lowerer) ident(n *sitter.Node) *ast.Ident {
	if n == nil {
		id := &ast.Ident{}
		id.At = source.NoSpan
		return id
	}
	id := &ast.Ident{Name: l.text(n)}
	id.At = l.span(n)
	return id
}

func (l *lowerer) invalid(n *sitter.Node) ast.Expr {
	x := &ast.InvalidExpr{}
	if n == nil {
		x.At = source.NoSpan
	} else {
		x.At = l.span(n)
		debugPrint("unsupported expression %s", n.Type())
	}
	return x
}

// expr lowers an expression node.
func (l *lowerer) expr(n *sitter.Node) ast.Expr {
	if n == nil {
		return l.invalid(nil)
	}
	at := l.span(n)
	switch n.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "statement_identifier", "type_identifier":
		return l.ident(n)

	case "undefined":
		id := &ast.Ident{Name: "undefined"}
		id.At = at
		return id

	case "this":
		x := &ast.ThisExpr{}
		x.At = at
		return x

	case "super":
		x := &ast.SuperExpr{}
		x.At = at
		return x

	case "number":
		return l.numberLit(n)

	case "string":
		x := &ast.StrLit{Value: l.stringValue(n)}
		x.At = at
		return x

	case "template_string":
		return l.template(n)

	case "regex":
		x := &ast.RegexLit{}
		if p := n.ChildByFieldName("pattern"); p != nil {
			x.Pattern = l.text(p)
		}
		if f := n.ChildByFieldName("flags"); f != nil {
			x.Flags = l.text(f)
		}
		x.At = at
		return x

	case "true", "false":
		x := &ast.BoolLit{Value: n.Type() == "true"}
		x.At = at
		return x

	case "null":
		x := &ast.NullLit{}
		x.At = at
		return x

	case "parenthesized_expression":
		inner := named(n)
		if len(inner) == 0 {
			return l.invalid(n)
		}
		x := &ast.ParenExpr{X: l.expr(inner[0])}
		x.At = at
		return x

	case "sequence_expression":
		x := &ast.SeqExpr{}
		l.flattenSeq(n, &x.Exprs)
		x.At = at
		return x

	case "array":
		return l.arrayLit(n)

	case "object":
		return l.objectLit(n)

	case "function", "function_expression", "generator_function":
		x := &ast.FnExpr{Fn: l.function(n)}
		if name := n.ChildByFieldName("name"); name != nil {
			x.Name = l.ident(name)
		}
		x.At = at
		return x

	case "arrow_function":
		x := &ast.ArrowExpr{Fn: l.function(n)}
		x.At = at
		return x

	case "class":
		x := &ast.ClassExpr{Class: l.class(n)}
		if name := n.ChildByFieldName("name"); name != nil {
			x.Name = l.ident(name)
		}
		x.At = at
		return x

	case "unary_expression":
		x := &ast.UnaryExpr{
			Op:  l.text(n.ChildByFieldName("operator")),
			Arg: l.expr(n.ChildByFieldName("argument")),
		}
		x.At = at
		return x

	case "update_expression":
		op := n.ChildByFieldName("operator")
		x := &ast.UpdateExpr{
			Op:     l.text(op),
			Prefix: op.StartByte() == n.StartByte(),
			Arg:    l.expr(n.ChildByFieldName("argument")),
		}
		x.At = at
		return x

	case "binary_expression":
		x := &ast.BinaryExpr{
			Op:    l.text(n.ChildByFieldName("operator")),
			Left:  l.expr(n.ChildByFieldName("left")),
			Right: l.expr(n.ChildByFieldName("right")),
		}
		x.At = at
		return x

	case "assignment_expression", "augmented_assignment_expression":
		x := &ast.AssignExpr{
			Op:    "=",
			Left:  l.assignPattern(n.ChildByFieldName("left")),
			Right: l.expr(n.ChildByFieldName("right")),
		}
		if op := n.ChildByFieldName("operator"); op != nil {
			x.Op = l.text(op)
		}
		x.At = at
		return x

	case "ternary_expression":
		x := &ast.CondExpr{
			Test: l.expr(n.ChildByFieldName("condition")),
			Cons: l.expr(n.ChildByFieldName("consequence")),
			Alt:  l.expr(n.ChildByFieldName("alternative")),
		}
		x.At = at
		return x

	case "call_expression":
		callee := l.expr(n.ChildByFieldName("function"))
		args := n.ChildByFieldName("arguments")
		if args != nil && args.Type() == "template_string" {
			x := &ast.TaggedTemplate{Tag: callee, Tpl: l.template(args)}
			x.At = at
			return x
		}
		x := &ast.CallExpr{
			Callee:   callee,
			TypeArgs: l.typeArgs(n.ChildByFieldName("type_arguments")),
			Args:     l.args(args),
			Optional: l.optionalChain(n, "arguments"),
		}
		x.At = at
		return x

	case "new_expression":
		x := &ast.NewExpr{
			Callee:   l.expr(n.ChildByFieldName("constructor")),
			TypeArgs: l.typeArgs(n.ChildByFieldName("type_arguments")),
			Args:     l.args(n.ChildByFieldName("arguments")),
		}
		x.At = at
		return x

	case "member_expression":
		x := &ast.MemberExpr{
			Obj:      l.expr(n.ChildByFieldName("object")),
			Prop:     l.ident(n.ChildByFieldName("property")),
			Optional: l.optionalChain(n, "property"),
		}
		x.At = at
		return x

	case "subscript_expression":
		x := &ast.MemberExpr{
			Obj:      l.expr(n.ChildByFieldName("object")),
			Prop:     l.expr(n.ChildByFieldName("index")),
			Computed: true,
			Optional: l.optionalChain(n, "index"),
		}
		x.At = at
		return x

	case "as_expression", "satisfies_expression":
		inner := named(n)
		if len(inner) == 0 {
			return l.invalid(n)
		}
		x := &ast.AsExpr{X: l.expr(inner[0]), Kind: "as"}
		if n.Type() == "satisfies_expression" {
			x.Kind = "satisfies"
		}
		if len(inner) > 1 {
			x.Type = l.typeNode(inner[len(inner)-1])
		} else {
			// as const
			ref := &ast.TypeRef{Name: ast.EntityName{"const"}}
			ref.At = at
			x.Type = ref
		}
		x.At = at
		return x

	case "type_assertion":
		inner := named(n)
		if len(inner) < 2 {
			return l.invalid(n)
		}
		x := &ast.AsExpr{X: l.expr(inner[1]), Kind: "assert"}
		if targs := l.typeArgs(inner[0]); len(targs) == 1 {
			x.Type = targs[0]
		} else {
			x.Type = l.typeNode(inner[0])
		}
		x.At = at
		return x

	case "non_null_expression":
		x := &ast.NonNullExpr{X: l.expr(named(n)[0])}
		x.At = at
		return x

	case "await_expression":
		x := &ast.AwaitExpr{X: l.expr(named(n)[0])}
		x.At = at
		return x

	case "yield_expression":
		x := &ast.YieldExpr{Delegate: l.hasToken(n, "*", "")}
		if inner := named(n); len(inner) > 0 {
			x.X = l.expr(inner[0])
		}
		x.At = at
		return x

	case "spread_element":
		x := &ast.SpreadElement{Arg: l.expr(named(n)[0])}
		x.At = at
		return x

	case "meta_property":
		x := &ast.MetaProp{Meta: "new", Prop: "target"}
		if strings.HasPrefix(l.text(n), "import") {
			x.Meta, x.Prop = "import", "meta"
		}
		x.At = at
		return x

	case "instantiation_expression":
		// f<T> without a call: the value is f.
		if inner := named(n); len(inner) > 0 {
			return l.expr(inner[0])
		}
	}
	return l.invalid(n)
}

// optionalChain reports whether a `?.` token precedes the child with the
// given field.
func (l *lowerer) optionalChain(n *sitter.Node, field string) bool {
	if oc := n.ChildByFieldName("optional_chain"); oc != nil {
		return true
	}
	if childOfType(n, "optional_chain") != nil {
		return true
	}
	return l.hasToken(n, "?.", field)
}

func (l *lowerer) flattenSeq(n *sitter.Node, out *[]ast.Expr) {
	for _, c := range named(n) {
		if c.Type() == "sequence_expression" {
			l.flattenSeq(c, out)
			continue
		}
		*out = append(*out, l.expr(c))
	}
}

func (l *lowerer) args(n *sitter.Node) []ast.Expr {
	if n == nil {
		return nil
	}
	var out []ast.Expr
	for _, c := range named(n) {
		out = append(out, l.expr(c))
	}
	return out
}

// arrayLit lowers an array literal; consecutive commas become holes.
func (l *lowerer) arrayLit(n *sitter.Node) *ast.ArrayLit {
	x := &ast.ArrayLit{}
	expectElem := true
	for _, c := range children(n) {
		switch {
		case !c.IsNamed() && c.Type() == ",":
			if expectElem {
				x.Elems = append(x.Elems, nil)
			}
			expectElem = true
		case c.IsNamed():
			x.Elems = append(x.Elems, l.expr(c))
			expectElem = false
		}
	}
	x.At = l.span(n)
	return x
}

func (l *lowerer) objectLit(n *sitter.Node) *ast.ObjectLit {
	x := &ast.ObjectLit{}
	for _, c := range named(n) {
		var p ast.ObjectProp
		switch c.Type() {
		case "pair":
			kv := &ast.KeyValueProp{
				Key:   l.propName(c.ChildByFieldName("key")),
				Value: l.expr(c.ChildByFieldName("value")),
			}
			kv.At = l.span(c)
			p = kv
		case "shorthand_property_identifier", "identifier":
			sh := &ast.ShorthandProp{Name: l.ident(c)}
			sh.At = l.span(c)
			p = sh
		case "method_definition":
			m := &ast.MethodProp{
				Key:  l.propName(c.ChildByFieldName("name")),
				Kind: l.methodKind(c),
				Fn:   l.function(c),
			}
			m.At = l.span(c)
			p = m
		case "spread_element":
			sp := &ast.SpreadProp{Arg: l.expr(named(c)[0])}
			sp.At = l.span(c)
			p = sp
		default:
			debugPrint("unsupported object member %s", c.Type())
			continue
		}
		x.Props = append(x.Props, p)
	}
	x.At = l.span(n)
	return x
}

func (l *lowerer) methodKind(n *sitter.Node) ast.MethodKind {
	switch {
	case l.hasToken(n, "get", "name"):
		return ast.MethodGetter
	case l.hasToken(n, "set", "name"):
		return ast.MethodSetter
	}
	return ast.MethodNormal
}

// propName lowers the key of a property, method or enum member.
func (l *lowerer) propName(n *sitter.Node) *ast.PropName {
	p := &ast.PropName{}
	if n == nil {
		p.At = source.NoSpan
		return p
	}
	p.At = l.span(n)
	switch n.Type() {
	case "string":
		p.Kind = ast.PropString
		p.Name = l.stringValue(n)
	case "number":
		p.Kind = ast.PropNumber
		p.Num = l.numberValue(n)
		p.Name = l.text(n)
	case "computed_property_name":
		p.Kind = ast.PropComputed
		if inner := named(n); len(inner) > 0 {
			p.Expr = l.expr(inner[0])
		}
	case "private_property_identifier":
		p.Kind = ast.PropPrivate
		p.Name = l.text(n)[1:]
	default:
		p.Kind = ast.PropIdent
		p.Name = l.text(n)
	}
	return p
}

// function lowers the parts shared by every function-like node.
func (l *lowerer) function(n *sitter.Node) *ast.Function {
	fn := &ast.Function{
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
		Async:      l.hasToken(n, "async", "body"),
		Generator:  strings.HasPrefix(n.Type(), "generator_") || l.hasToken(n, "*", "parameters"),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = l.params(params)
	} else if p := n.ChildByFieldName("parameter"); p != nil {
		// x => ...
		param := &ast.Param{Pat: l.identPat(p)}
		param.At = l.span(p)
		fn.Params = []*ast.Param{param}
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		fn.Ret = l.typeAnn(rt)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "statement_block" {
			fn.Body = l.block(body)
		} else {
			fn.ExprBody = l.expr(body)
		}
	}
	fn.At = l.span(n)
	return fn
}

// params lowers formal_parameters. A `this` parameter only annotates the
// receiver and is dropped.
func (l *lowerer) params(n *sitter.Node) []*ast.Param {
	var out []*ast.Param
	for _, c := range named(n) {
		switch c.Type() {
		case "required_parameter", "optional_parameter":
		default:
			continue
		}
		patNode := c.ChildByFieldName("pattern")
		if patNode == nil {
			continue
		}
		if patNode.Type() == "this" {
			continue
		}
		pat := l.pattern(patNode)
		if c.Type() == "optional_parameter" {
			if ip, ok := pat.(*ast.IdentPat); ok {
				ip.Optional = true
			}
		}
		if ann := c.ChildByFieldName("type"); ann != nil {
			setPatternType(pat, l.typeAnn(ann))
		}
		if v := c.ChildByFieldName("value"); v != nil {
			ap := &ast.AssignPat{Left: pat, Right: l.expr(v)}
			ap.At = l.span(c)
			pat = ap
		}
		p := &ast.Param{
			Pat:           pat,
			Accessibility: l.accessibility(c),
			Readonly:      l.hasToken(c, "readonly", "pattern"),
		}
		p.At = l.span(c)
		out = append(out, p)
	}
	return out
}

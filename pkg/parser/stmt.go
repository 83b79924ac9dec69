package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nooga/tscheck/pkg/ast"
)

// stmts lowers the statement children of a program, block or namespace body.
func (l *lowerer) stmts(n *sitter.Node) []ast.Stmt {
	var out []ast.Stmt
	for _, c := range named(n) {
		switch c.Type() {
		case "hash_bang_line", "decorator":
			continue
		}
		if s := l.stmt(c); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (l *lowerer) block(n *sitter.Node) *ast.BlockStmt {
	if n == nil {
		return nil
	}
	b := &ast.BlockStmt{Stmts: l.stmts(n)}
	b.At = l.span(n)
	return b
}

// stmt lowers one statement. It returns nil for statements with no meaning
// to the checker.
func (l *lowerer) stmt(n *sitter.Node) ast.Stmt {
	at := l.span(n)
	switch n.Type() {
	case "expression_statement":
		inner := named(n)
		if len(inner) == 0 {
			return nil
		}
		if inner[0].Type() == "internal_module" || inner[0].Type() == "module" {
			return l.namespace(inner[0], false)
		}
		s := &ast.ExprStmt{X: l.expr(inner[0])}
		s.At = at
		return s

	case "lexical_declaration", "variable_declaration":
		return l.varDecl(n, false)

	case "function_declaration", "generator_function_declaration", "function_signature":
		return l.fnDecl(n, false)

	case "class_declaration", "abstract_class_declaration":
		return l.classDecl(n, false)

	case "interface_declaration":
		return l.interfaceDecl(n, false)

	case "type_alias_declaration":
		d := &ast.TypeAliasDecl{
			Name:       l.ident(n.ChildByFieldName("name")),
			TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
			Type:       l.typeNode(n.ChildByFieldName("value")),
		}
		d.At = at
		return d

	case "enum_declaration":
		return l.enumDecl(n, false)

	case "internal_module", "module":
		return l.namespace(n, false)

	case "ambient_declaration":
		return l.ambient(n)

	case "import_statement":
		return l.importDecl(n)

	case "import_alias":
		// import A = N.B
		parts := named(n)
		if len(parts) < 2 {
			return nil
		}
		name := l.identPat(parts[0])
		decl := &ast.VarDeclarator{Name: name, Init: l.expr(parts[len(parts)-1])}
		decl.At = at
		d := &ast.VarDecl{Kind: ast.Const, Decls: []*ast.VarDeclarator{decl}}
		d.At = at
		return d

	case "export_statement":
		return l.exportStmt(n)

	case "statement_block":
		return l.block(n)

	case "return_statement":
		s := &ast.ReturnStmt{}
		if inner := named(n); len(inner) > 0 {
			s.Arg = l.expr(inner[0])
		}
		s.At = at
		return s

	case "throw_statement":
		s := &ast.ThrowStmt{}
		if inner := named(n); len(inner) > 0 {
			s.Arg = l.expr(inner[0])
		}
		s.At = at
		return s

	case "if_statement":
		s := &ast.IfStmt{
			Test: l.expr(n.ChildByFieldName("condition")),
			Cons: l.body(n.ChildByFieldName("consequence")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Type() == "else_clause" {
				if inner := named(alt); len(inner) > 0 {
					s.Alt = l.body(inner[0])
				}
			} else {
				s.Alt = l.body(alt)
			}
		}
		s.At = at
		return s

	case "while_statement":
		s := &ast.WhileStmt{
			Test: l.expr(n.ChildByFieldName("condition")),
			Body: l.body(n.ChildByFieldName("body")),
		}
		s.At = at
		return s

	case "do_statement":
		s := &ast.DoWhileStmt{
			Body: l.body(n.ChildByFieldName("body")),
			Test: l.expr(n.ChildByFieldName("condition")),
		}
		s.At = at
		return s

	case "for_statement":
		return l.forStmt(n)

	case "for_in_statement":
		return l.forInStmt(n)

	case "try_statement":
		s := &ast.TryStmt{Block: l.block(n.ChildByFieldName("body"))}
		if h := n.ChildByFieldName("handler"); h != nil {
			if p := h.ChildByFieldName("parameter"); p != nil {
				s.Param = l.pattern(p)
				if ann := h.ChildByFieldName("type"); ann != nil {
					setPatternType(s.Param, l.typeAnn(ann))
				}
			}
			s.Handler = l.block(h.ChildByFieldName("body"))
		}
		if f := n.ChildByFieldName("finalizer"); f != nil {
			s.Finalizer = l.block(f.ChildByFieldName("body"))
		}
		s.At = at
		return s

	case "switch_statement":
		return l.switchStmt(n)

	case "break_statement":
		s := &ast.BreakStmt{}
		if lbl := n.ChildByFieldName("label"); lbl != nil {
			s.Label = l.text(lbl)
		}
		s.At = at
		return s

	case "continue_statement":
		s := &ast.ContinueStmt{}
		if lbl := n.ChildByFieldName("label"); lbl != nil {
			s.Label = l.text(lbl)
		}
		s.At = at
		return s

	case "labeled_statement":
		s := &ast.LabeledStmt{
			Label: l.text(n.ChildByFieldName("label")),
			Body:  l.body(n.ChildByFieldName("body")),
		}
		s.At = at
		return s

	case "empty_statement", "debugger_statement":
		s := &ast.EmptyStmt{}
		s.At = at
		return s
	}

	debugPrint("unsupported statement %s", n.Type())
	x := &ast.InvalidExpr{}
	x.At = at
	s := &ast.ExprStmt{X: x}
	s.At = at
	return s
}

// body lowers the statement of an if/while/for, which may be any statement.
func (l *lowerer) body(n *sitter.Node) ast.Stmt {
	if n == nil {
		return nil
	}
	if s := l.stmt(n); s != nil {
		return s
	}
	s := &ast.EmptyStmt{}
	s.At = l.span(n)
	return s
}

func (l *lowerer) varDecl(n *sitter.Node, declare bool) *ast.VarDecl {
	d := &ast.VarDecl{Kind: ast.Var, Declare: declare}
	if n.Type() == "lexical_declaration" {
		d.Kind = ast.Const
		if k := n.ChildByFieldName("kind"); k != nil && l.text(k) == "let" {
			d.Kind = ast.Let
		}
	}
	for _, c := range named(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		pat := l.pattern(c.ChildByFieldName("name"))
		if ann := c.ChildByFieldName("type"); ann != nil {
			setPatternType(pat, l.typeAnn(ann))
		}
		decl := &ast.VarDeclarator{Name: pat}
		if v := c.ChildByFieldName("value"); v != nil {
			decl.Init = l.expr(v)
		}
		decl.At = l.span(c)
		d.Decls = append(d.Decls, decl)
	}
	d.At = l.span(n)
	return d
}

func (l *lowerer) fnDecl(n *sitter.Node, declare bool) *ast.FnDecl {
	d := &ast.FnDecl{Fn: l.function(n), Declare: declare}
	if name := n.ChildByFieldName("name"); name != nil {
		d.Name = l.ident(name)
	}
	d.At = l.span(n)
	return d
}

func (l *lowerer) classDecl(n *sitter.Node, declare bool) *ast.ClassDecl {
	d := &ast.ClassDecl{Class: l.class(n), Declare: declare}
	if name := n.ChildByFieldName("name"); name != nil {
		d.Name = l.ident(name)
	}
	d.At = l.span(n)
	return d
}

func (l *lowerer) interfaceDecl(n *sitter.Node, declare bool) *ast.InterfaceDecl {
	d := &ast.InterfaceDecl{
		Name:       l.ident(n.ChildByFieldName("name")),
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
		Declare:    declare,
	}
	if ext := childOfType(n, "extends_type_clause"); ext != nil {
		for _, t := range named(ext) {
			if ref, ok := l.typeNode(t).(*ast.TypeRef); ok {
				d.Extends = append(d.Extends, ref)
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		d.Body = l.typeMembers(body)
	}
	d.At = l.span(n)
	return d
}

func (l *lowerer) enumDecl(n *sitter.Node, declare bool) *ast.EnumDecl {
	d := &ast.EnumDecl{
		Name:    l.ident(n.ChildByFieldName("name")),
		Const:   l.hasToken(n, "const", "name"),
		Declare: declare,
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for _, m := range named(body) {
			em := &ast.EnumMember{}
			if m.Type() == "enum_assignment" {
				em.Name = l.propName(m.ChildByFieldName("name")).Name
				if v := m.ChildByFieldName("value"); v != nil {
					em.Init = l.expr(v)
				}
			} else {
				em.Name = l.propName(m).Name
			}
			em.At = l.span(m)
			d.Members = append(d.Members, em)
		}
	}
	d.At = l.span(n)
	return d
}

// namespace lowers `namespace A.B {}` and `module "m" {}`.
func (l *lowerer) namespace(n *sitter.Node, declare bool) *ast.ModuleDecl {
	d := &ast.ModuleDecl{Declare: declare}
	if name := n.ChildByFieldName("name"); name != nil {
		if name.Type() == "string" {
			d.Name = ast.EntityName{l.stringValue(name)}
			d.External = true
		} else {
			d.Name = l.entityName(name)
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		d.Body = l.stmts(body)
	}
	d.At = l.span(n)
	return d
}

// ambient lowers `declare <decl>` and `declare global {}`.
func (l *lowerer) ambient(n *sitter.Node) ast.Stmt {
	inner := named(n)
	if len(inner) == 0 {
		return nil
	}
	d := inner[0]
	if l.hasToken(n, "global", "") && d.Type() == "statement_block" {
		m := &ast.ModuleDecl{Name: ast.EntityName{"global"}, Body: l.stmts(d), Declare: true, Global: true}
		m.At = l.span(n)
		return m
	}
	if d.Type() == "expression_statement" {
		if x := named(d); len(x) > 0 {
			d = x[0]
		}
	}
	switch d.Type() {
	case "lexical_declaration", "variable_declaration":
		return l.varDecl(d, true)
	case "function_declaration", "function_signature", "generator_function_declaration":
		return l.fnDecl(d, true)
	case "class_declaration", "abstract_class_declaration":
		return l.classDecl(d, true)
	case "interface_declaration":
		return l.interfaceDecl(d, true)
	case "enum_declaration":
		return l.enumDecl(d, true)
	case "internal_module", "module":
		return l.namespace(d, true)
	case "type_alias_declaration":
		s := l.stmt(d)
		if ta, ok := s.(*ast.TypeAliasDecl); ok {
			ta.Declare = true
		}
		return s
	}
	return l.stmt(d)
}

func (l *lowerer) forStmt(n *sitter.Node) *ast.ForStmt {
	s := &ast.ForStmt{Body: l.body(n.ChildByFieldName("body"))}
	if init := n.ChildByFieldName("initializer"); init != nil && init.IsNamed() {
		switch init.Type() {
		case "lexical_declaration", "variable_declaration":
			s.Init = l.varDecl(init, false)
		case "expression_statement":
			s.Init = l.stmt(init)
		case "empty_statement":
		default:
			es := &ast.ExprStmt{X: l.expr(init)}
			es.At = l.span(init)
			s.Init = es
		}
	}
	if cond := n.ChildByFieldName("condition"); cond != nil && cond.IsNamed() {
		switch cond.Type() {
		case "expression_statement":
			if x := named(cond); len(x) > 0 {
				s.Test = l.expr(x[0])
			}
		case "empty_statement":
		default:
			s.Test = l.expr(cond)
		}
	}
	if inc := n.ChildByFieldName("increment"); inc != nil && inc.IsNamed() {
		s.Update = l.expr(inc)
	}
	s.At = l.span(n)
	return s
}

func (l *lowerer) forInStmt(n *sitter.Node) *ast.ForInStmt {
	s := &ast.ForInStmt{
		Right: l.expr(n.ChildByFieldName("right")),
		Body:  l.body(n.ChildByFieldName("body")),
		Await: l.hasToken(n, "await", "left"),
	}
	if op := n.ChildByFieldName("operator"); op != nil {
		s.Of = l.text(op) == "of"
	} else {
		s.Of = l.hasToken(n, "of", "")
	}

	left := n.ChildByFieldName("left")
	kind := n.ChildByFieldName("kind")
	if kind != nil {
		d := &ast.VarDecl{Kind: ast.Var}
		switch l.text(kind) {
		case "let":
			d.Kind = ast.Let
		case "const":
			d.Kind = ast.Const
		}
		decl := &ast.VarDeclarator{Name: l.pattern(left)}
		decl.At = l.span(left)
		d.Decls = []*ast.VarDeclarator{decl}
		d.At = l.span(kind).Cover(l.span(left))
		s.Left = d
	} else {
		ps := &ast.PatStmt{Pat: l.assignPattern(left)}
		ps.At = l.span(left)
		s.Left = ps
	}
	s.At = l.span(n)
	return s
}

func (l *lowerer) switchStmt(n *sitter.Node) *ast.SwitchStmt {
	s := &ast.SwitchStmt{Disc: l.expr(n.ChildByFieldName("value"))}
	if body := n.ChildByFieldName("body"); body != nil {
		for _, c := range named(body) {
			sc := &ast.SwitchCase{}
			value := c.ChildByFieldName("value")
			if c.Type() == "switch_case" && value != nil {
				sc.Test = l.expr(value)
			}
			for _, st := range named(c) {
				if sameNode(st, value) {
					continue
				}
				if x := l.stmt(st); x != nil {
					sc.Body = append(sc.Body, x)
				}
			}
			sc.At = l.span(c)
			s.Cases = append(s.Cases, sc)
		}
	}
	s.At = l.span(n)
	return s
}

package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nooga/tscheck/pkg/ast"
)

func (l *lowerer) importDecl(n *sitter.Node) ast.Stmt {
	d := &ast.ImportDecl{TypeOnly: l.hasToken(n, "type", "")}
	if src := n.ChildByFieldName("source"); src != nil {
		d.Source = l.stringValue(src)
	}
	for _, c := range named(n) {
		switch c.Type() {
		case "import_clause":
			l.importClause(d, c)
		case "import_require_clause":
			// import x = require("m")
			var name *sitter.Node
			for _, part := range named(c) {
				switch part.Type() {
				case "identifier":
					name = part
				case "string":
					d.Source = l.stringValue(part)
				}
			}
			if name != nil {
				spec := &ast.ImportSpec{Kind: ast.ImportDefault, Local: l.text(name), Imported: "default"}
				spec.At = l.span(name)
				d.Specs = append(d.Specs, spec)
			}
		}
	}
	d.At = l.span(n)
	return d
}

func (l *lowerer) importClause(d *ast.ImportDecl, n *sitter.Node) {
	for _, c := range named(n) {
		switch c.Type() {
		case "identifier":
			spec := &ast.ImportSpec{Kind: ast.ImportDefault, Local: l.text(c), Imported: "default"}
			spec.At = l.span(c)
			d.Specs = append(d.Specs, spec)

		case "namespace_import":
			if id := childOfType(c, "identifier"); id != nil {
				spec := &ast.ImportSpec{Kind: ast.ImportNamespace, Local: l.text(id), Imported: "*"}
				spec.At = l.span(c)
				d.Specs = append(d.Specs, spec)
			}

		case "named_imports":
			for _, s := range named(c) {
				if s.Type() != "import_specifier" {
					continue
				}
				imported := l.moduleExportName(s.ChildByFieldName("name"))
				spec := &ast.ImportSpec{Kind: ast.ImportNamed, Local: imported, Imported: imported}
				if alias := s.ChildByFieldName("alias"); alias != nil {
					spec.Local = l.text(alias)
				}
				spec.At = l.span(s)
				d.Specs = append(d.Specs, spec)
			}
		}
	}
}

// moduleExportName reads an import or export name, which may be quoted.
func (l *lowerer) moduleExportName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Type() == "string" {
		return l.stringValue(n)
	}
	return l.text(n)
}

func (l *lowerer) exportStmt(n *sitter.Node) ast.Stmt {
	at := l.span(n)
	isDefault := l.hasToken(n, "default", "")
	source := ""
	if src := n.ChildByFieldName("source"); src != nil {
		source = l.stringValue(src)
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		s := l.stmt(decl)
		if s == nil {
			return nil
		}
		if isDefault {
			d := &ast.ExportDefaultDecl{Decl: s}
			d.At = at
			return d
		}
		d := &ast.ExportDecl{Decl: s}
		d.At = at
		return d
	}

	if v := n.ChildByFieldName("value"); v != nil && isDefault {
		switch v.Type() {
		case "function", "function_expression", "generator_function":
			if v.ChildByFieldName("name") == nil {
				fn := &ast.FnDecl{Fn: l.function(v)}
				fn.At = l.span(v)
				d := &ast.ExportDefaultDecl{Decl: fn}
				d.At = at
				return d
			}
		case "class":
			if v.ChildByFieldName("name") == nil {
				cls := &ast.ClassDecl{Class: l.class(v)}
				cls.At = l.span(v)
				d := &ast.ExportDefaultDecl{Decl: cls}
				d.At = at
				return d
			}
		}
		d := &ast.ExportDefaultExpr{X: l.expr(v)}
		d.At = at
		return d
	}

	if clause := childOfType(n, "export_clause"); clause != nil {
		d := &ast.ExportNamed{Source: source}
		for _, s := range named(clause) {
			if s.Type() != "export_specifier" {
				continue
			}
			local := l.moduleExportName(s.ChildByFieldName("name"))
			spec := &ast.ExportSpec{Local: local, Exported: local}
			if alias := s.ChildByFieldName("alias"); alias != nil {
				spec.Exported = l.moduleExportName(alias)
			}
			spec.At = l.span(s)
			d.Specs = append(d.Specs, spec)
		}
		d.At = at
		return d
	}

	if childOfType(n, "namespace_export") != nil {
		// export * as ns from "m"
		s := &ast.ExprStmt{X: l.invalid(n)}
		s.At = at
		return s
	}

	if l.hasToken(n, "*", "") && source != "" {
		d := &ast.ExportAll{Source: source}
		d.At = at
		return d
	}

	if l.hasToken(n, "=", "") {
		if inner := named(n); len(inner) > 0 {
			d := &ast.ExportAssign{X: l.expr(inner[0])}
			d.At = at
			return d
		}
	}

	// export as namespace X
	return nil
}

package checker

import (
	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

// exportTable is where `export` statements at the current position write:
// the enclosing namespace, or the module.
func (c *Checker) exportTable() *types.Exports {
	if c.ctx.Namespace != nil {
		return c.ctx.Namespace.Exports
	}
	c.explicitExport = true
	return c.info.Exports
}

// declNames lists the names a declaration binds.
func declNames(s ast.Stmt) []string {
	switch d := s.(type) {
	case *ast.VarDecl:
		var names []string
		for _, decl := range d.Decls {
			names = append(names, ast.BoundNames(decl.Name)...)
		}
		return names
	case *ast.FnDecl:
		if d.Name != nil {
			return []string{d.Name.Name}
		}
	case *ast.ClassDecl:
		if d.Name != nil {
			return []string{d.Name.Name}
		}
	case *ast.InterfaceDecl:
		return []string{d.Name.Name}
	case *ast.TypeAliasDecl:
		return []string{d.Name.Name}
	case *ast.EnumDecl:
		return []string{d.Name.Name}
	case *ast.ModuleDecl:
		if len(d.Name) > 0 && !d.Global && !d.External {
			return []string{d.Name[0]}
		}
	}
	return nil
}

// checkExportDecl checks `export <decl>` and exports what it declares.
func (c *Checker) checkExportDecl(s *ast.ExportDecl) {
	c.checkStmt(s.Decl)
	table := c.exportTable()
	for _, name := range declNames(s.Decl) {
		if !c.exportName(table, name, name) {
			c.errorf(errors.UnresolvedExport, s.Span(), "cannot find exported name '%s'", name)
		}
	}
}

// exportName copies the value and type meanings of a local name into an
// export table. It reports whether the name has either meaning.
func (c *Checker) exportName(table *types.Exports, local, exported string) bool {
	found := false
	if t, ok := c.imports[local]; ok {
		table.Vars[exported] = t
		found = true
	} else if l, ok := c.findVar(local); ok && l.info != nil {
		if l.info.lazy != nil {
			c.forceLazy(l.info)
		}
		table.Vars[exported] = orAny(l.info.Type)
		found = true
	}
	if decls := c.findType(local); len(decls) > 0 {
		table.Types[exported] = append([]types.Type(nil), decls...)
		found = true
	}
	return found
}

// exportValue handles `export default <expr>` and `export = <expr>`. A bare
// name that is not declared yet is retried after the module body.
func (c *Checker) exportValue(name string, x ast.Expr, at source.Span) {
	table := c.exportTable()
	if id, ok := unparen(x).(*ast.Ident); ok && !c.resolvable(id.Name) {
		c.pending = append(c.pending, PendingExport{Name: name, Expr: x, Span: at})
		return
	}
	c.bindExport(table, name, x)
}

// resolvable reports whether a name has a value or type meaning at the
// current position. A hoisted binding whose declaration has not run yet
// does not count.
func (c *Checker) resolvable(name string) bool {
	if _, ok := c.imports[name]; ok {
		return true
	}
	if l, ok := c.findVar(name); ok && l.info != nil {
		return l.info.Initialized
	}
	if len(c.findType(name)) > 0 {
		return true
	}
	_, ok := c.builtins.Var(name)
	return ok
}

func (c *Checker) bindExport(table *types.Exports, name string, x ast.Expr) {
	if id, ok := unparen(x).(*ast.Ident); ok {
		if decls := c.findType(id.Name); len(decls) > 0 {
			table.Types[name] = append([]types.Type(nil), decls...)
			if _, hasValue := c.findVar(id.Name); !hasValue {
				return
			}
		}
	}
	table.Vars[name] = c.anyOnError(c.typeOf(x, RValue))
}

// checkExportDefaultDecl handles `export default function|class|interface`,
// possibly anonymous.
func (c *Checker) checkExportDefaultDecl(s *ast.ExportDefaultDecl) {
	table := c.exportTable()
	switch d := s.Decl.(type) {
	case *ast.FnDecl:
		if d.Name == nil {
			table.Vars["default"] = c.anyOnError(c.typeOfFunctionExpr(d.Fn, nil, FunctionScope, nil))
			return
		}
	case *ast.ClassDecl:
		if d.Name == nil {
			ct := c.classShell("default", d.Class)
			c.buildClass(ct, d.Class)
			table.Vars["default"] = ct
			table.Types["default"] = []types.Type{ct}
			return
		}
	}
	c.checkStmt(s.Decl)
	for _, name := range declNames(s.Decl) {
		c.exportName(table, name, "default")
	}
}

// checkExportNamed handles `export { a as b }`, local or re-exported from
// another module.
func (c *Checker) checkExportNamed(s *ast.ExportNamed) {
	table := c.exportTable()
	if s.Source != "" {
		mod := c.moduleFor(s.Source)
		for _, spec := range s.Specs {
			if mod == nil {
				table.Vars[spec.Exported] = types.Any
				continue
			}
			v, hasVar := mod.Exports.Vars[spec.Local]
			ts, hasType := mod.Exports.Types[spec.Local]
			if !hasVar && !hasType {
				c.errorf(errors.UnresolvedExport, spec.Span(), "module '%s' has no exported member '%s'", s.Source, spec.Local)
				continue
			}
			if hasVar {
				table.Vars[spec.Exported] = v
			}
			if hasType {
				table.Types[spec.Exported] = ts
			}
		}
		return
	}
	for _, spec := range s.Specs {
		if c.exportName(table, spec.Local, spec.Exported) {
			continue
		}
		id := &ast.Ident{Name: spec.Local}
		id.At = spec.Span()
		c.pending = append(c.pending, PendingExport{Name: spec.Exported, Expr: id, Span: spec.Span()})
	}
}

// checkExportAll re-exports every named export of another module.
func (c *Checker) checkExportAll(s *ast.ExportAll) {
	table := c.exportTable()
	mod := c.moduleFor(s.Source)
	if mod == nil {
		return
	}
	for k, v := range mod.Exports.Vars {
		if k != "default" && k != "export=" {
			table.Vars[k] = v
		}
	}
	for k, v := range mod.Exports.Types {
		if k != "default" {
			table.Types[k] = v
		}
	}
}

// drainPending resolves the exports whose target was declared after the
// export statement.
func (c *Checker) drainPending() {
	pending := c.pending
	c.pending = nil
	for _, p := range pending {
		name := ""
		if id, ok := unparen(p.Expr).(*ast.Ident); ok {
			name = id.Name
		}
		if name != "" && !c.resolvable(name) {
			c.errorf(errors.UnresolvedExport, p.Span, "cannot find name '%s' to export", name)
			continue
		}
		c.bindExport(c.info.Exports, p.Name, p.Expr)
	}
}

// exportScope exports every binding of the module scope. Used when the
// module has no explicit export.
func (c *Checker) exportScope(s *Scope) {
	c.exportScopeInto(s, c.info.Exports)
}

func (c *Checker) exportScopeInto(s *Scope, table *types.Exports) {
	for name, info := range s.vars {
		if info.Kind == BindImport {
			continue
		}
		if info.lazy != nil {
			c.forceLazy(info)
		}
		if _, ok := table.Vars[name]; !ok {
			table.Vars[name] = orAny(info.Type)
		}
	}
	for name, decls := range s.types {
		if _, ok := table.Types[name]; !ok && len(decls) > 0 {
			if _, tp := decls[0].(*types.TypeParameterType); tp {
				continue
			}
			table.Types[name] = append([]types.Type(nil), decls...)
		}
	}
}

// --- Imports ---

// moduleFor finds the module an import source refers to.
func (c *Checker) moduleFor(src string) *types.ModuleType {
	if mod, ok := c.opts.Imports[src]; ok && mod != nil {
		return mod
	}
	if mod, ok := c.ambient[src]; ok {
		return mod
	}
	return nil
}

// bindImport binds the names of an import declaration. Names imported from
// an unknown module are any.
func (c *Checker) bindImport(d *ast.ImportDecl) {
	mod := c.moduleFor(d.Source)
	for _, spec := range d.Specs {
		if mod == nil {
			if !d.TypeOnly {
				c.imports[spec.Local] = types.Any
			}
			continue
		}
		switch spec.Kind {
		case ast.ImportNamespace:
			c.imports[spec.Local] = mod
		case ast.ImportDefault:
			c.importMember(d, spec, mod, "default", "export=")
		case ast.ImportNamed:
			c.importMember(d, spec, mod, spec.Imported)
		}
	}
}

func (c *Checker) importMember(d *ast.ImportDecl, spec *ast.ImportSpec, mod *types.ModuleType, names ...string) {
	for _, name := range names {
		v, hasVar := mod.Exports.Vars[name]
		ts, hasType := mod.Exports.Types[name]
		if !hasVar && !hasType {
			continue
		}
		if hasVar && !d.TypeOnly {
			c.imports[spec.Local] = v
		}
		if hasType {
			c.scope.types[spec.Local] = append(c.scope.types[spec.Local], ts...)
		}
		return
	}
	c.errorf(errors.NoSuchProperty, spec.Span(), "module '%s' has no exported member '%s'", d.Source, names[0])
	if !d.TypeOnly {
		c.imports[spec.Local] = types.Any
	}
}

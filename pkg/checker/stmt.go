package checker

import (
	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/types"
)

// checkStmts validates a statement list in the current scope: declarations
// are hoisted first, then every statement is checked in order.
func (c *Checker) checkStmts(stmts []ast.Stmt) {
	c.hoist(stmts)
	terminated := false
	reported := false
	for _, s := range stmts {
		if terminated && !reported && !c.opts.AllowUnreachableCode && reachableDecl(s) {
			c.errorf(errors.Unreachable, s.Span(), "unreachable code detected")
			reported = true
		}
		c.checkStmt(s)
		if terminates(s) {
			terminated = true
		}
	}
}

// reachableDecl reports whether a statement after a terminator is code
// rather than a declaration that is hoisted or erased.
func reachableDecl(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.FnDecl, *ast.InterfaceDecl, *ast.TypeAliasDecl, *ast.EmptyStmt:
		return false
	case *ast.VarDecl:
		if s.Kind != ast.Var {
			return true
		}
		for _, d := range s.Decls {
			if d.Init != nil {
				return true
			}
		}
		return false
	}
	return true
}

// terminates reports whether control never reaches past s.
func terminates(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.ReturnStmt, *ast.ThrowStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	case *ast.BlockStmt:
		for _, x := range s.Stmts {
			if terminates(x) {
				return true
			}
		}
	case *ast.IfStmt:
		return s.Alt != nil && terminates(s.Cons) && terminates(s.Alt)
	}
	return false
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(s)
	case *ast.FnDecl:
		c.checkFnDecl(s)
	case *ast.ClassDecl:
		c.checkClassDecl(s)
	case *ast.InterfaceDecl:
		c.checkInterfaceDecl(s)
	case *ast.TypeAliasDecl:
		c.checkAliasDecl(s)
	case *ast.EnumDecl:
		// members were evaluated when hoisted
	case *ast.ModuleDecl:
		c.checkNamespace(s)
	case *ast.ExprStmt:
		c.anyOnError(c.typeOf(s.X, RValue))
	case *ast.BlockStmt:
		c.checkBlock(s.Stmts)
	case *ast.ReturnStmt:
		c.checkReturn(s)
	case *ast.IfStmt:
		c.checkTest(s.Test)
		c.checkNested(s.Cons)
		if s.Alt != nil {
			c.checkNested(s.Alt)
		}
	case *ast.WhileStmt:
		c.checkTest(s.Test)
		c.checkNested(s.Body)
	case *ast.DoWhileStmt:
		c.checkNested(s.Body)
		c.checkTest(s.Test)
	case *ast.ForStmt:
		c.withChild(BlockScope, c.ctx, func(*Scope) error {
			if s.Init != nil {
				c.hoist([]ast.Stmt{s.Init})
				c.checkStmt(s.Init)
			}
			if s.Test != nil {
				c.checkTest(s.Test)
			}
			if s.Update != nil {
				c.anyOnError(c.typeOf(s.Update, RValue))
			}
			c.checkNested(s.Body)
			return nil
		})
	case *ast.ForInStmt:
		c.checkForIn(s)
	case *ast.ThrowStmt:
		c.anyOnError(c.typeOf(s.Arg, RValue))
	case *ast.TryStmt:
		c.checkBlock(s.Block.Stmts)
		if s.Handler != nil {
			c.withChild(BlockScope, c.ctx, func(*Scope) error {
				if s.Param != nil {
					c.declareVars(BindLet, s.Param, types.Any)
				}
				c.checkStmts(s.Handler.Stmts)
				return nil
			})
		}
		if s.Finalizer != nil {
			c.checkBlock(s.Finalizer.Stmts)
		}
	case *ast.SwitchStmt:
		disc := c.anyOnError(c.typeOf(s.Disc, RValue))
		c.withChild(BlockScope, c.ctx, func(*Scope) error {
			var body []ast.Stmt
			for _, cs := range s.Cases {
				body = append(body, cs.Body...)
			}
			c.hoist(body)
			for _, cs := range s.Cases {
				if cs.Test != nil {
					t := c.anyOnError(c.typeOf(cs.Test, RValue))
					l, r := c.enumValue(c.expandQuiet(disc)), c.enumValue(c.expandQuiet(t))
					if !c.overlaps(l, r) {
						c.errorf(errors.NoOverlap, cs.Test.Span(), "type '%s' is not comparable to type '%s'", r, l)
					}
				}
				for _, x := range cs.Body {
					c.checkStmt(x)
				}
			}
			return nil
		})
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.EmptyStmt:
	case *ast.LabeledStmt:
		c.checkStmt(s.Body)
	case *ast.ImportDecl:
		// bound when hoisted
	case *ast.ExportDecl:
		c.checkExportDecl(s)
	case *ast.ExportDefaultExpr:
		c.exportValue("default", s.X, s.Span())
	case *ast.ExportDefaultDecl:
		c.checkExportDefaultDecl(s)
	case *ast.ExportAssign:
		c.exportValue("export=", s.X, s.Span())
	case *ast.ExportNamed:
		c.checkExportNamed(s)
	case *ast.ExportAll:
		c.checkExportAll(s)
	case *ast.PatStmt:
		c.errorf(errors.Unsupported, s.Span(), "unexpected binding pattern in statement position")
	default:
		c.errorf(errors.Unsupported, s.Span(), "unsupported statement %T", s)
	}
}

func (c *Checker) checkBlock(stmts []ast.Stmt) {
	c.withChild(BlockScope, c.ctx, func(*Scope) error {
		c.checkStmts(stmts)
		return nil
	})
}

// checkNested checks the body of a control statement in its own scope.
func (c *Checker) checkNested(s ast.Stmt) {
	if b, ok := s.(*ast.BlockStmt); ok {
		c.checkBlock(b.Stmts)
		return
	}
	c.checkBlock([]ast.Stmt{s})
}

func (c *Checker) checkTest(e ast.Expr) {
	t := c.anyOnError(c.typeOf(e, RValue))
	if c.expandQuiet(t) == types.Void {
		c.errorf(errors.TS1345, e.Span(), "an expression of type 'void' cannot be tested for truthiness")
	}
}

// --- Variables ---

func (c *Checker) checkVarDecl(d *ast.VarDecl) {
	kind := bindingFor(d.Kind)
	saved := c.ctx
	if d.Declare {
		c.ctx.InDeclare = true
	}
	defer func() { c.ctx = saved }()

	for _, decl := range d.Decls {
		var declared types.Type
		if ann := ast.TypeAnn(decl.Name); ann != nil {
			declared = c.typeFromNode(ann)
		}
		if decl.Init == nil {
			c.declareVars(kind, decl.Name, orAny(declared))
			continue
		}

		var done func()
		if d.Kind != ast.Var {
			done = c.beginDeclaring(ast.BoundNames(decl.Name))
		}
		t := c.typeOfInit(decl.Init, declared)
		if done != nil {
			done()
		}

		if declared != nil {
			target, err := c.expandType(declared)
			if err != nil {
				c.record(err)
			} else if !types.Assignable(c, target, t) {
				c.errorf(errors.AssignFailed, decl.Init.Span(), "type '%s' is not assignable to type '%s'", t, target)
			}
			c.declareVars(kind, decl.Name, declared)
			continue
		}
		if d.Kind != ast.Const {
			t = types.Widen(t)
		}
		c.declareVars(kind, decl.Name, t)
	}
}

// typeOfInit types an initializer, using the declared type as context for
// function expressions. Fatal errors are recorded and give any.
func (c *Checker) typeOfInit(init ast.Expr, declared types.Type) types.Type {
	if declared != nil {
		var fn *ast.Function
		kind := ArrowScope
		var name *ast.Ident
		switch e := unparen(init).(type) {
		case *ast.ArrowExpr:
			fn = e.Fn
		case *ast.FnExpr:
			fn, kind, name = e.Fn, FunctionScope, e.Name
		}
		if fn != nil {
			ctx := c.callableOf(c.expandQuiet(declared))
			t := c.anyOnError(c.typeOfFunctionExpr(fn, name, kind, ctx))
			init.SetComputedType(t)
			return t
		}
	}
	return c.anyOnError(c.typeOf(init, RValue))
}

// --- Loops ---

func (c *Checker) checkForIn(s *ast.ForInStmt) {
	right := c.anyOnError(c.typeOf(s.Right, RValue))
	var elem types.Type = types.String
	if s.Of {
		elem = c.iteratedType(right)
		if s.Await {
			elem = c.awaited(elem)
		}
	} else if r := c.expandQuiet(right); !inTarget(r) && r != types.Any {
		c.errorf(errors.TS2361, s.Right.Span(), "the right-hand side of a 'for...in' statement must be of type 'any', an object type or a type parameter, got '%s'", r)
	}

	c.withChild(BlockScope, c.ctx, func(*Scope) error {
		switch left := s.Left.(type) {
		case *ast.VarDecl:
			for _, d := range left.Decls {
				c.declareVars(bindingFor(left.Kind), d.Name, elem)
			}
		case *ast.PatStmt:
			if target, err := c.assignTarget(left.Pat); err != nil {
				c.record(err)
			} else if target != nil && !types.Assignable(c, target, elem) {
				c.errorf(errors.AssignFailed, left.Span(), "type '%s' is not assignable to type '%s'", elem, target)
			}
		}
		c.checkNested(s.Body)
		return nil
	})
}

// iteratedType is the element type produced by for-of over t.
func (c *Checker) iteratedType(t types.Type) types.Type {
	switch t := c.expandQuiet(t).(type) {
	case *types.ArrayType:
		return t.ElementType
	case *types.TupleType:
		return t.ElementUnion()
	case *types.InterfaceType:
		if len(t.TypeArgs) == 1 {
			switch t.Name {
			case "Array", "ReadonlyArray", "Set", "Iterable", "IterableIterator", "Generator":
				return t.TypeArgs[0]
			}
		}
	case *types.UnionType:
		out := make([]types.Type, len(t.Types))
		for i, m := range t.Types {
			out[i] = c.iteratedType(m)
		}
		return types.NewUnionType(out...)
	case *types.LiteralType:
		if t.Kind == types.LitString {
			return types.String
		}
	case *types.Primitive:
		if t == types.String {
			return types.String
		}
	}
	return types.Any
}

// --- Type declarations ---

// checkInterfaceDecl resolves the heritage and member types of an
// interface so unknown names are reported.
func (c *Checker) checkInterfaceDecl(d *ast.InterfaceDecl) {
	it := c.interfaces[d]
	if it == nil {
		return
	}
	c.withTypeParams(it.TypeParams, func() {
		for _, ext := range it.Extends {
			c.validateType(ext)
		}
		for _, m := range it.Members {
			c.validateMember(m)
		}
	})
}

func (c *Checker) checkAliasDecl(d *ast.TypeAliasDecl) {
	at := c.aliases[d]
	if at == nil {
		return
	}
	c.withTypeParams(at.TypeParams, func() {
		c.validateType(at.Target)
	})
}

func (c *Checker) withTypeParams(tps []*types.TypeParameterType, fn func()) {
	if len(tps) == 0 {
		fn()
		return
	}
	c.withChild(BlockScope, c.ctx, func(s *Scope) error {
		for _, tp := range tps {
			s.types[tp.Name] = []types.Type{tp}
		}
		fn()
		return nil
	})
}

// validateType expands t and the types directly nested in it, recording
// resolution failures.
func (c *Checker) validateType(t types.Type) {
	switch t := t.(type) {
	case nil:
		return
	case *types.TypeRef:
		for _, a := range t.TypeArgs {
			c.validateType(a)
		}
	case *types.UnionType:
		for _, m := range t.Types {
			c.validateType(m)
		}
		return
	case *types.IntersectionType:
		for _, m := range t.Types {
			c.validateType(m)
		}
		return
	case *types.ArrayType:
		c.validateType(t.ElementType)
		return
	case *types.TupleType:
		for _, m := range t.ElementTypes {
			c.validateType(m)
		}
		return
	case *types.FunctionType:
		c.validateFunction(t)
		return
	case *types.ObjectType:
		for _, m := range t.Members {
			c.validateMember(m)
		}
		return
	case *types.AliasType:
		return
	}
	if _, err := c.expandType(t); err != nil {
		c.record(err)
	}
}

func (c *Checker) validateFunction(fn *types.FunctionType) {
	c.withTypeParams(fn.TypeParams, func() {
		for _, p := range fn.Params {
			c.validateType(p.Type)
		}
		c.validateType(fn.ReturnType)
	})
}

func (c *Checker) validateMember(m types.Member) {
	switch m := m.(type) {
	case *types.Property:
		c.validateType(m.Type)
	case *types.Method:
		c.validateFunction(m.Fn)
	case *types.CallSignature:
		c.validateFunction(m.Fn)
	case *types.ConstructSignature:
		c.validateFunction(m.Fn)
	case *types.IndexSignature:
		c.validateType(m.KeyType)
		c.validateType(m.ValueType)
	}
}

// --- Namespaces ---

// checkNamespace checks a namespace body in its own scope. Exported
// declarations land in the namespace's export table; in ambient
// namespaces every declaration is exported.
func (c *Checker) checkNamespace(d *ast.ModuleDecl) {
	if d.Global {
		saved := c.ctx
		c.ctx.InDeclare = true
		c.checkStmts(d.Body)
		c.ctx = saved
		return
	}
	mod := c.namespaces[d]
	if mod == nil {
		return
	}
	ctx := c.ctx
	ctx.Namespace = mod
	if d.Declare {
		ctx.InDeclare = true
	}
	c.withChild(NamespaceScope, ctx, func(s *Scope) error {
		c.checkStmts(d.Body)
		if ctx.InDeclare {
			c.exportScopeInto(s, mod.Exports)
		}
		return nil
	})
}

// --- Hoisting ---

// hoist declares everything a statement list makes visible before its
// statements run: functions with their signatures, classes as
// uninitialized bindings, type declarations, enums, namespaces, imports,
// and var and let/const placeholders.
func (c *Checker) hoist(stmts []ast.Stmt) {
	var fnGroups []string
	fns := map[string][]*ast.FnDecl{}
	for _, s := range stmts {
		switch d := declOf(s).(type) {
		case *ast.FnDecl:
			if d.Name == nil {
				continue
			}
			if _, ok := fns[d.Name.Name]; !ok {
				fnGroups = append(fnGroups, d.Name.Name)
			}
			fns[d.Name.Name] = append(fns[d.Name.Name], d)
		case *ast.ClassDecl:
			if d.Name == nil {
				continue
			}
			ct := c.classShell(d.Name.Name, d.Class)
			c.registerType(d.Name.Name, ct, d.Name.Span())
			c.hoistVar(BindClass, d.Name.Name, ct, false)
		case *ast.InterfaceDecl:
			c.hoistInterface(d)
		case *ast.TypeAliasDecl:
			c.hoistAlias(d)
		case *ast.EnumDecl:
			c.hoistEnum(d)
		case *ast.ModuleDecl:
			c.hoistNamespace(d)
		case *ast.VarDecl:
			for _, decl := range d.Decls {
				for _, name := range ast.BoundNames(decl.Name) {
					if d.Kind == ast.Var {
						c.hoistVar(BindVar, name, types.Any, true)
					} else {
						c.hoistVar(bindingFor(d.Kind), name, nil, false)
					}
				}
			}
		case *ast.ImportDecl:
			c.bindImport(d)
		}
	}
	for _, name := range fnGroups {
		c.hoistFunctions(name, fns[name])
	}
}

// declOf unwraps export wrappers.
func declOf(s ast.Stmt) ast.Stmt {
	switch s := s.(type) {
	case *ast.ExportDecl:
		return s.Decl
	case *ast.ExportDefaultDecl:
		return s.Decl
	}
	return s
}

// hoistFunctions declares a function name. With overload signatures the
// binding is an object type of the overloads; the implementation is only
// visible as the body that follows them.
func (c *Checker) hoistFunctions(name string, decls []*ast.FnDecl) {
	var overloads []*types.FunctionType
	var impl *ast.FnDecl
	for _, d := range decls {
		if d.Fn.HasBody() {
			if impl == nil {
				impl = d
			}
			continue
		}
		sig := c.signature(d.Fn.TypeParams, d.Fn.Params, d.Fn.Ret, true)
		if sig.ReturnType == nil {
			sig.ReturnType = types.Any
		}
		overloads = append(overloads, sig)
	}

	var info *VarInfo
	switch {
	case len(overloads) == 1 && impl == nil:
		info = c.hoistVar(BindFunction, name, overloads[0], true)
	case len(overloads) > 0:
		obj := types.NewObjectType()
		for _, sig := range overloads {
			obj.Members = append(obj.Members, &types.CallSignature{Fn: sig})
		}
		info = c.hoistVar(BindFunction, name, obj, true)
	case impl != nil:
		sig := c.signature(impl.Fn.TypeParams, impl.Fn.Params, impl.Fn.Ret, true)
		info = c.hoistVar(BindFunction, name, sig, true)
		if info.Type == types.Type(sig) && impl.Fn.Ret == nil {
			info.lazy = &lazyFunction{fn: impl.Fn, typ: sig, scope: c.scope}
		}
	default:
		return
	}
	if info.Kind != BindFunction && !canRedeclare(info.Kind, BindFunction) {
		c.errorf(errors.DuplicateDeclaration, decls[0].Name.Span(), "duplicate identifier '%s'", name)
		return
	}
	info.hoisted = false
	info.Initialized = true
}

func (c *Checker) hoistInterface(d *ast.InterfaceDecl) {
	tps, m := c.typeParams(d.TypeParams)
	it := &types.InterfaceType{Name: d.Name.Name, TypeParams: tps}
	for _, mem := range c.typeMembers(d.Body) {
		if m != nil {
			mem = types.SubstituteMember(mem, m)
		}
		it.Members = append(it.Members, mem)
	}
	for _, ext := range d.Extends {
		it.Extends = append(it.Extends, types.Substitute(c.typeFromNode(ext), m))
	}
	c.interfaces[d] = it
	c.registerType(d.Name.Name, it, d.Name.Span())
}

func (c *Checker) hoistAlias(d *ast.TypeAliasDecl) {
	tps, m := c.typeParams(d.TypeParams)
	at := &types.AliasType{Name: d.Name.Name, TypeParams: tps, Target: types.Substitute(orAny(c.typeFromNode(d.Type)), m)}
	c.aliases[d] = at
	c.registerType(d.Name.Name, at, d.Name.Span())
}

// hoistEnum evaluates member values: explicit constants, references to
// earlier members, or the previous numeric value plus one.
func (c *Checker) hoistEnum(d *ast.EnumDecl) {
	et := &types.EnumType{Name: d.Name.Name, Const: d.Const, Declare: d.Declare}
	values := map[string]*types.LiteralType{}
	if prev := c.findEnum(d.Name.Name); prev != nil {
		for _, m := range prev.Members {
			values[m.Name] = m.Value
		}
	}
	next := 0.0
	autoOK := true
	for _, m := range d.Members {
		var v *types.LiteralType
		if m.Init != nil {
			lit, ok := enumConst(m.Init, values)
			if !ok {
				c.errorf(errors.Unsupported, m.Init.Span(), "computed enum member values are not supported")
				lit = types.NewNumberLiteral(next)
			}
			v = lit
		} else {
			if !autoOK {
				c.errorf(errors.Unsupported, m.Span(), "enum member '%s' must have an initializer", m.Name)
			}
			v = types.NewNumberLiteral(next)
		}
		if v.Kind == types.LitNumber {
			next = v.Num + 1
			autoOK = true
		} else {
			autoOK = false
		}
		values[m.Name] = v
		et.Members = append(et.Members, types.EnumMember{Name: m.Name, Value: v})
	}

	merged := c.registerType(d.Name.Name, et, d.Name.Span())
	info := c.hoistVar(BindEnum, d.Name.Name, merged, true)
	if info.Kind == BindEnum {
		info.Type = merged
	} else if !canRedeclare(info.Kind, BindEnum) {
		c.errorf(errors.DuplicateDeclaration, d.Name.Span(), "duplicate identifier '%s'", d.Name.Name)
	}
	info.hoisted = false
}

// enumConst evaluates a constant enum initializer.
func enumConst(e ast.Expr, values map[string]*types.LiteralType) (*types.LiteralType, bool) {
	switch e := e.(type) {
	case *ast.NumLit:
		return types.NewNumberLiteral(e.Value), true
	case *ast.StrLit:
		return types.NewStringLiteral(e.Value), true
	case *ast.TemplateLit:
		if len(e.Exprs) == 0 && len(e.Quasis) == 1 {
			return types.NewStringLiteral(e.Quasis[0]), true
		}
	case *ast.ParenExpr:
		return enumConst(e.X, values)
	case *ast.Ident:
		v, ok := values[e.Name]
		return v, ok
	case *ast.UnaryExpr:
		v, ok := enumConst(e.Arg, values)
		if !ok || v.Kind != types.LitNumber {
			return nil, false
		}
		switch e.Op {
		case "-":
			return types.NewNumberLiteral(-v.Num), true
		case "+":
			return v, true
		case "~":
			return types.NewNumberLiteral(float64(^int32(v.Num))), true
		}
	case *ast.BinaryExpr:
		l, ok := enumConst(e.Left, values)
		if !ok {
			return nil, false
		}
		r, ok := enumConst(e.Right, values)
		if !ok {
			return nil, false
		}
		if e.Op == "+" && l.Kind == types.LitString && r.Kind == types.LitString {
			return types.NewStringLiteral(l.Str + r.Str), true
		}
		if l.Kind != types.LitNumber || r.Kind != types.LitNumber {
			return nil, false
		}
		a, b := l.Num, r.Num
		switch e.Op {
		case "+":
			return types.NewNumberLiteral(a + b), true
		case "-":
			return types.NewNumberLiteral(a - b), true
		case "*":
			return types.NewNumberLiteral(a * b), true
		case "/":
			return types.NewNumberLiteral(a / b), true
		case "<<":
			return types.NewNumberLiteral(float64(int32(a) << (uint32(b) & 31))), true
		case ">>":
			return types.NewNumberLiteral(float64(int32(a) >> (uint32(b) & 31))), true
		case "|":
			return types.NewNumberLiteral(float64(int32(a) | int32(b))), true
		case "&":
			return types.NewNumberLiteral(float64(int32(a) & int32(b))), true
		case "^":
			return types.NewNumberLiteral(float64(int32(a) ^ int32(b))), true
		}
	}
	return nil, false
}

// hoistNamespace declares a namespace, or the chain of namespaces of a
// qualified name, merging with earlier declarations of the same name.
func (c *Checker) hoistNamespace(d *ast.ModuleDecl) {
	if d.Global || len(d.Name) == 0 {
		return
	}
	if d.External {
		name := d.Name[0]
		mod, ok := c.ambient[name]
		if !ok {
			mod = &types.ModuleType{Name: name, Exports: types.NewExports()}
			c.ambient[name] = mod
		}
		c.namespaces[d] = mod
		return
	}

	head := &types.ModuleType{Name: d.Name[0], Exports: types.NewExports()}
	merged, _ := c.registerType(d.Name[0], head, d.Span()).(*types.ModuleType)
	if merged == nil {
		merged = head
	}
	info := c.hoistVar(BindNamespace, d.Name[0], merged, true)
	if info.Kind == BindNamespace {
		info.Type = merged
	}
	info.hoisted = false

	mod := merged
	for _, seg := range d.Name[1:] {
		next, ok := mod.Exports.Vars[seg].(*types.ModuleType)
		if !ok {
			next = &types.ModuleType{Name: mod.Name + "." + seg, Exports: types.NewExports()}
			mod.Exports.Vars[seg] = next
			mod.Exports.Types[seg] = []types.Type{next}
		}
		mod = next
	}
	c.namespaces[d] = mod
}

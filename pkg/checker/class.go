package checker

import (
	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/types"
)

// classShell creates the type of a class before its body is known, so the
// name can be referenced from anywhere in the enclosing scope.
func (c *Checker) classShell(name string, cls *ast.Class) *types.ClassType {
	if ct, ok := c.classes[cls]; ok {
		return ct
	}
	ct := &types.ClassType{Name: name, Abstract: cls.Abstract}
	ct.TypeParams, _ = c.typeParams(cls.TypeParams)
	c.classes[cls] = ct
	return ct
}

func (c *Checker) checkClassDecl(d *ast.ClassDecl) {
	name := ""
	if d.Name != nil {
		name = d.Name.Name
	}
	ct := c.classShell(name, d.Class)
	saved := c.ctx
	if d.Declare {
		c.ctx.InDeclare = true
	}
	c.buildClass(ct, d.Class)
	c.ctx = saved

	if d.Name == nil {
		return
	}
	if l, ok := c.findVar(name); ok && l.info != nil && l.info.Type == types.Type(ct) {
		l.info.Initialized = true
		l.info.hoisted = false
	} else {
		c.declareVar(BindClass, name, ct, d.Name.Span())
	}
	d.Name.SetComputedType(ct)
}

func (c *Checker) typeOfClassExpr(e *ast.ClassExpr) (types.Type, error) {
	name := ""
	if e.Name != nil {
		name = e.Name.Name
	}
	ct := c.classShell(name, e.Class)
	if e.Name == nil {
		c.buildClass(ct, e.Class)
		return ct, nil
	}
	err := c.withChild(BlockScope, c.ctx, func(s *Scope) error {
		s.types[name] = []types.Type{ct}
		c.declareVar(BindClass, name, ct, e.Name.Span())
		c.buildClass(ct, e.Class)
		return nil
	})
	return ct, err
}

// classMember pairs a declared member with the syntax it came from, for
// the second pass over bodies.
type classMember struct {
	decl ast.ClassMember
	sig  *types.FunctionType
	prop *types.Property
}

// buildClass fills in a class shell: heritage, members, then bodies. The
// structure is complete before any body is checked, so methods can use
// each other through this.
func (c *Checker) buildClass(ct *types.ClassType, cls *ast.Class) {
	var tpMap map[string]types.Type
	if len(ct.TypeParams) > 0 {
		tpMap = map[string]types.Type{}
		for _, tp := range ct.TypeParams {
			tpMap[tp.Name] = tp
		}
	}
	instArgs := make([]types.Type, len(ct.TypeParams))
	for i, tp := range ct.TypeParams {
		instArgs[i] = tp
	}
	instance := &types.InstanceType{Class: ct, TypeArgs: instArgs}
	if len(instArgs) == 0 {
		instance.TypeArgs = nil
	}

	c.withChild(ClassScope, c.ctx, func(s *Scope) error {
		s.className = ct.Name
		for _, tp := range ct.TypeParams {
			s.types[tp.Name] = []types.Type{tp}
		}
		c.heritage(ct, cls, tpMap)

		s.this = instance
		members := c.declareMembers(ct, cls, tpMap)
		c.validateClass(ct, cls)
		c.checkMembers(ct, instance, members)
		c.checkImplements(ct, instance, cls)
		return nil
	})
}

// heritage resolves the superclass and its type arguments.
func (c *Checker) heritage(ct *types.ClassType, cls *ast.Class, tpMap map[string]types.Type) {
	if cls.Super == nil {
		return
	}
	st, err := c.typeOf(cls.Super, RValue)
	if err != nil {
		c.record(err)
		return
	}
	switch sc := c.expandQuiet(st).(type) {
	case *types.ClassType:
		if sc == ct {
			c.errorf(errors.Unsupported, cls.Super.Span(), "class '%s' cannot extend itself", ct.Name)
			return
		}
		ct.Super = sc
		for _, a := range cls.SuperTypeArgs {
			ct.SuperArgs = append(ct.SuperArgs, types.Substitute(orAny(c.typeFromNode(a)), tpMap))
		}
	case *types.Primitive:
		if sc != types.Any {
			c.errorf(errors.NoNewSignature, cls.Super.Span(), "type '%s' is not a constructor function type", sc)
		}
	}
}

// classKey evaluates a member name. Computed names must be literals or
// unique symbols.
func (c *Checker) classKey(p *ast.PropName) types.Key {
	if p.Kind != ast.PropComputed {
		return c.memberKey(p)
	}
	if key, ok := wellKnownSymbol(p.Expr); ok {
		c.anyOnError(c.typeOf(p.Expr, RValue))
		return key
	}
	t := c.anyOnError(c.typeOf(p.Expr, RValue))
	if ref := c.refFromIndex(t, p.Span()); ref.literal {
		return ref.key
	}
	if !types.IsUniqueSymbol(c.expandQuiet(t)) {
		c.errorf(errors.TS1166, p.Span(), "a computed property name in a class property declaration must have a simple literal type or a 'unique symbol' type")
	}
	return c.memberKey(p)
}

// declareMembers builds the member list of the class from declarations
// alone. Unannotated return and property types start as any and are
// replaced once bodies are checked.
func (c *Checker) declareMembers(ct *types.ClassType, cls *ast.Class, tpMap map[string]types.Type) []classMember {
	var out []classMember
	var members []types.Member
	ctorOverloads := false
	for _, m := range cls.Body {
		if k, ok := m.(*ast.Constructor); ok && k.Body == nil {
			ctorOverloads = true
		}
	}
	// methods with overload signatures expose only the signatures
	overloaded := map[types.Key]bool{}
	keys := map[ast.ClassMember]types.Key{}
	for _, m := range cls.Body {
		if cm, ok := m.(*ast.ClassMethod); ok {
			k := c.classKey(cm.Key)
			keys[m] = k
			if !cm.Fn.HasBody() && !cm.Abstract {
				overloaded[k] = true
			}
		}
	}

	for _, m := range cls.Body {
		switch m := m.(type) {
		case *ast.Constructor:
			sig := types.SubstituteFunction(c.signature(nil, m.Params, nil, true), tpMap)
			if m.Body == nil || !ctorOverloads {
				members = append(members, &types.Constructor{Fn: sig})
			}
			for i, p := range m.Params {
				if !p.IsParameterProperty() {
					continue
				}
				if m.Body == nil || c.ctx.InDeclare {
					c.errorf(errors.TS2369, p.Span(), "a parameter property is only allowed in a constructor implementation")
					continue
				}
				prop := &types.Property{Key: types.NameKey(sig.Params[i].Name), Type: sig.Params[i].Type, Readonly: p.Readonly, Optional: sig.Params[i].Optional}
				members = append(members, prop)
			}
			out = append(out, classMember{decl: m, sig: sig})

		case *ast.ClassMethod:
			sig := types.SubstituteFunction(c.signature(m.Fn.TypeParams, m.Fn.Params, m.Fn.Ret, true), tpMap)
			if sig.ReturnType == nil {
				sig.ReturnType = types.Any
			}
			key := keys[m]
			kind := types.MethodKind(m.Kind)
			out = append(out, classMember{decl: m, sig: sig})
			if m.Fn.HasBody() && overloaded[key] {
				continue
			}
			if kind == types.MethodSetter {
				if prev, ok := types.FindMember(members, key).(*types.Method); ok && prev.Kind == types.MethodGetter && prev.Static == m.Static {
					continue
				}
			}
			members = append(members, &types.Method{Key: key, Fn: sig, Kind: kind, Optional: m.Optional, Static: m.Static, Abstract: m.Abstract})

		case *ast.ClassProp:
			key := c.classKey(m.Key)
			prop := &types.Property{Key: key, Type: types.Any, Optional: m.Optional, Readonly: m.Readonly, Static: m.Static, Abstract: m.Abstract}
			if m.Type != nil {
				prop.Type = types.Substitute(orAny(c.typeFromNode(m.Type)), tpMap)
			}
			members = append(members, prop)
			out = append(out, classMember{decl: m, prop: prop})

		case *ast.IndexSig:
			sig := c.indexSignature(m)
			sig.KeyType = types.Substitute(sig.KeyType, tpMap)
			sig.ValueType = types.Substitute(sig.ValueType, tpMap)
			members = append(members, sig)

		case *ast.StaticBlock:
			out = append(out, classMember{decl: m})
		}
	}
	ct.Members = members
	return out
}

// checkMembers checks initializers and bodies with this bound to the
// instance, or to the class for static members.
func (c *Checker) checkMembers(ct *types.ClassType, instance types.Type, members []classMember) {
	for _, cm := range members {
		switch m := cm.decl.(type) {
		case *ast.Constructor:
			if m.Body == nil {
				continue
			}
			fn := &ast.Function{Base: m.Base, Params: m.Params, Body: m.Body}
			c.checkFunctionBody(fn, cm.sig, fnOpts{kind: FunctionScope, this: instance, ctor: true})

		case *ast.ClassMethod:
			this := instance
			if m.Static {
				this = ct
			}
			ret := c.checkFunctionBody(m.Fn, cm.sig, fnOpts{kind: FunctionScope, this: this})
			if m.Fn.Ret == nil && m.Fn.HasBody() {
				cm.sig.ReturnType = ret
			}

		case *ast.ClassProp:
			if m.Value == nil {
				continue
			}
			var this types.Type = instance
			if m.Static {
				this = ct
			}
			c.withChild(FunctionScope, Ctx{Namespace: c.ctx.Namespace}, func(s *Scope) error {
				s.this = this
				var t types.Type
				if fn, ok := unparen(m.Value).(*ast.ArrowExpr); ok && m.Type != nil {
					t = c.anyOnError(c.typeOfFunctionExpr(fn.Fn, nil, ArrowScope, c.callableOf(c.expandQuiet(cm.prop.Type))))
					m.Value.SetComputedType(t)
				} else {
					t = c.anyOnError(c.typeOf(m.Value, RValue))
				}
				if m.Type == nil {
					if m.Readonly {
						cm.prop.Type = t
					} else {
						cm.prop.Type = types.Widen(t)
					}
				} else if !types.Assignable(c, cm.prop.Type, t) {
					c.errorf(errors.AssignFailed, m.Value.Span(), "type '%s' is not assignable to type '%s'", t, cm.prop.Type)
				}
				return nil
			})

		case *ast.StaticBlock:
			c.withChild(FunctionScope, Ctx{Namespace: c.ctx.Namespace}, func(s *Scope) error {
				s.this = ct
				c.checkStmts(m.Body.Stmts)
				return nil
			})
		}
	}
}

// checkImplements verifies the instance side against implemented
// interfaces.
func (c *Checker) checkImplements(ct *types.ClassType, instance types.Type, cls *ast.Class) {
	for _, ref := range cls.Implements {
		it, err := c.expandType(c.typeFromNode(ref))
		if err != nil {
			c.record(err)
			continue
		}
		if !types.Assignable(c, it, instance) {
			c.errorf(errors.AssignFailed, ref.Span(), "class '%s' incorrectly implements interface '%s'", ct.Name, it)
		}
	}
}

// --- Structural validation ---

// validateClass runs the declaration-level checks that do not depend on
// bodies.
func (c *Checker) validateClass(ct *types.ClassType, cls *ast.Class) {
	ambient := c.ctx.InDeclare
	c.checkCtorOverloads(cls)
	if !ambient {
		c.checkOverloadSequences(cls)
	}
	for _, m := range cls.Body {
		cm, ok := m.(*ast.ClassMethod)
		if !ok {
			continue
		}
		if cm.Abstract && cm.Fn.HasBody() {
			c.errorf(errors.TS1318, cm.Key.Span(), "method '%s' cannot have an implementation because it is marked abstract", cm.Key)
		}
		switch types.MethodKind(cm.Kind) {
		case types.MethodGetter:
			if cm.Fn.Body != nil && !hasReturn(cm.Fn.Body.Stmts) {
				c.errorf(errors.TS2378, cm.Key.Span(), "a 'get' accessor must return a value")
			}
			if len(cm.Fn.TypeParams) > 0 {
				c.errorf(errors.TS1094, cm.Key.Span(), "an accessor cannot have type parameters")
			}
		case types.MethodSetter:
			if cm.Fn.Ret != nil {
				c.errorf(errors.TS1095, cm.Fn.Ret.Span(), "a 'set' accessor cannot have a return type annotation")
			}
			if len(cm.Fn.TypeParams) > 0 {
				c.errorf(errors.TS1094, cm.Key.Span(), "an accessor cannot have type parameters")
			}
		}
	}
	if !ct.Abstract && !ambient {
		c.checkInheritedMethods(ct, cls)
	}
}

// checkCtorOverloads flags constructor overload groups whose signatures
// disagree on the number of required parameters. Every overload but the
// last of the group is reported.
func (c *Checker) checkCtorOverloads(cls *ast.Class) {
	var overloads []*ast.Constructor
	for _, m := range cls.Body {
		if k, ok := m.(*ast.Constructor); ok && k.Body == nil {
			overloads = append(overloads, k)
		}
	}
	if len(overloads) < 2 {
		return
	}
	required := func(k *ast.Constructor) int {
		return c.signature(nil, k.Params, nil, false).RequiredCount()
	}
	want := required(overloads[0])
	consistent := true
	for _, k := range overloads[1:] {
		if required(k) != want {
			consistent = false
			break
		}
	}
	if consistent {
		return
	}
	for _, k := range overloads[:len(overloads)-1] {
		c.errorf(errors.TS2394, k.Span(), "this overload signature is not compatible with its implementation signature")
	}
}

// checkOverloadSequences requires every signature-only declaration to be
// followed by another declaration of the same member, ending with an
// implementation.
func (c *Checker) checkOverloadSequences(cls *ast.Class) {
	body := cls.Body
	for i, m := range body {
		var next ast.ClassMember
		if i+1 < len(body) {
			next = body[i+1]
		}
		switch m := m.(type) {
		case *ast.Constructor:
			if m.Body != nil {
				continue
			}
			if _, ok := next.(*ast.Constructor); !ok {
				c.errorf(errors.TS2391, m.Span(), "constructor implementation is missing or not immediately following the declaration")
			}
		case *ast.ClassMethod:
			if m.Fn.HasBody() || m.Abstract {
				continue
			}
			nm, ok := next.(*ast.ClassMethod)
			switch {
			case ok && sameMemberName(m, nm):
			case ok && nm.Fn.HasBody() && nm.Static == m.Static:
				c.errorf(errors.TS2389, nm.Key.Span(), "function implementation name must be '%s'", m.Key)
			default:
				if k, isCtor := next.(*ast.Constructor); isCtor && k.Body != nil {
					c.errorf(errors.TS2389, m.Key.Span(), "function implementation name must be '%s', found the constructor", m.Key)
					continue
				}
				c.errorf(errors.TS2391, m.Key.Span(), "function implementation for '%s' is missing or not immediately following the declaration", m.Key)
			}
		}
	}
}

func sameMemberName(a, b *ast.ClassMethod) bool {
	return a.Static == b.Static && a.Key.Kind == b.Key.Kind && a.Key.Name == b.Key.Name && a.Key.Num == b.Key.Num && a.Key.Kind != ast.PropComputed
}

// checkInheritedMethods reports methods of the superclass that the class
// does not declare itself. Inherited properties are not checked.
func (c *Checker) checkInheritedMethods(ct *types.ClassType, cls *ast.Class) {
	sup := superClass(c, ct)
	if sup == nil {
		return
	}
	own := map[types.Key]bool{}
	for _, m := range ct.Members {
		if m, ok := m.(*types.Method); ok {
			own[m.Key] = true
		}
	}
	at := cls.Span()
	if cls.Super != nil {
		at = cls.Super.Span()
	}
	for _, m := range sup.Members {
		sm, ok := m.(*types.Method)
		if !ok || own[sm.Key] {
			continue
		}
		c.errorf(errors.TS2515, at, "class '%s' does not implement inherited member '%s' from class '%s'", ct.Name, sm.Key, sup.Name)
		own[sm.Key] = true
	}
}

func superClass(c *Checker, ct *types.ClassType) *types.ClassType {
	if ct.Super == nil {
		return nil
	}
	sc, _ := c.Expand(ct.Super).(*types.ClassType)
	return sc
}

// hasReturn reports whether statements contain a return, not counting
// nested functions.
func hasReturn(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if stmtHasReturn(s) {
			return true
		}
	}
	return false
}

func stmtHasReturn(s ast.Stmt) bool {
	switch s := s.(type) {
	case nil:
		return false
	case *ast.ReturnStmt:
		return true
	case *ast.BlockStmt:
		return hasReturn(s.Stmts)
	case *ast.IfStmt:
		return stmtHasReturn(s.Cons) || stmtHasReturn(s.Alt)
	case *ast.WhileStmt:
		return stmtHasReturn(s.Body)
	case *ast.DoWhileStmt:
		return stmtHasReturn(s.Body)
	case *ast.ForStmt:
		return stmtHasReturn(s.Body)
	case *ast.ForInStmt:
		return stmtHasReturn(s.Body)
	case *ast.LabeledStmt:
		return stmtHasReturn(s.Body)
	case *ast.TryStmt:
		if hasReturn(s.Block.Stmts) {
			return true
		}
		if s.Handler != nil && hasReturn(s.Handler.Stmts) {
			return true
		}
		return s.Finalizer != nil && hasReturn(s.Finalizer.Stmts)
	case *ast.SwitchStmt:
		for _, cs := range s.Cases {
			if hasReturn(cs.Body) {
				return true
			}
		}
	}
	return false
}

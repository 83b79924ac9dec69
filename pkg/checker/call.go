package checker

import (
	"fmt"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

// callSite is one call or new expression. Arguments are typed once; function
// expressions with untyped parameters wait for the parameter type of the
// selected signature.
type callSite struct {
	args     []ast.Expr
	typeArgs []ast.TypeNode
	span     source.Span
	types    []types.Type
}

func newCallSite(args []ast.Expr, typeArgs []ast.TypeNode, at source.Span) *callSite {
	return &callSite{args: args, typeArgs: typeArgs, span: at, types: make([]types.Type, len(args))}
}

func (s *callSite) hasSpread() bool {
	for _, a := range s.args {
		if _, ok := a.(*ast.SpreadElement); ok {
			return true
		}
	}
	return false
}

// contextSensitive reports whether a function argument has parameters
// whose types come from the callee.
func contextSensitive(e ast.Expr) bool {
	var fn *ast.Function
	switch e := unparen(e).(type) {
	case *ast.ArrowExpr:
		fn = e.Fn
	case *ast.FnExpr:
		fn = e.Fn
	default:
		return false
	}
	for _, p := range fn.Params {
		if ast.TypeAnn(p.Pat) == nil {
			return true
		}
	}
	return false
}

// prepareArgs types every argument that does not depend on the callee.
func (c *Checker) prepareArgs(s *callSite) error {
	for i, a := range s.args {
		if s.types[i] != nil || contextSensitive(a) {
			continue
		}
		t, err := c.argType(a)
		if err != nil {
			if isFatal(err) {
				return err
			}
			c.record(err)
			t = types.Any
		}
		s.types[i] = t
	}
	return nil
}

// finishArgs types whatever was left untyped, without context.
func (c *Checker) finishArgs(s *callSite) {
	for i, a := range s.args {
		if s.types[i] == nil {
			s.types[i] = c.anyOnError(c.argType(a))
		}
	}
}

func (c *Checker) argType(a ast.Expr) (types.Type, error) {
	t, err := c.typeOf(a, RValue)
	if err != nil {
		return nil, err
	}
	if _, ok := a.(*ast.SpreadElement); ok {
		switch s := c.expandQuiet(t).(type) {
		case *types.ArrayType:
			return s.ElementType, nil
		case *types.TupleType:
			return s.ElementUnion(), nil
		}
		return types.Any, nil
	}
	return t, nil
}

// typeFnArg types a context sensitive argument against the parameter type
// it is passed to.
func (c *Checker) typeFnArg(s *callSite, i int, expected types.Type) {
	if s.types[i] != nil {
		return
	}
	var ctx *types.FunctionType
	if expected != nil {
		ctx = c.callableOf(c.expandQuiet(expected))
	}
	var t types.Type
	var err error
	switch e := unparen(s.args[i]).(type) {
	case *ast.ArrowExpr:
		t, err = c.typeOfFunctionExpr(e.Fn, nil, ArrowScope, ctx)
	case *ast.FnExpr:
		t, err = c.typeOfFunctionExpr(e.Fn, e.Name, FunctionScope, ctx)
	default:
		t, err = c.argType(s.args[i])
	}
	t = c.anyOnError(t, err)
	s.args[i].SetComputedType(t)
	s.types[i] = t
}

// callableOf returns the call signature of a function-like type.
func (c *Checker) callableOf(t types.Type) *types.FunctionType {
	if sigs := c.signaturesOf(t, false); len(sigs) > 0 {
		return sigs[0]
	}
	return nil
}

// --- Call and new expressions ---

func (c *Checker) typeOfCall(e *ast.CallExpr) (types.Type, error) {
	site := newCallSite(e.Args, e.TypeArgs, e.Span())
	defer c.finishArgs(site)

	switch callee := e.Callee.(type) {
	case *ast.SuperExpr:
		callee.SetComputedType(c.superType())
		if err := c.prepareArgs(site); err != nil {
			return nil, err
		}
		return types.Any, nil
	case *ast.MemberExpr:
		return c.callMember(callee, site)
	}

	callee, err := c.typeOf(e.Callee, RValue)
	if err != nil {
		return nil, err
	}
	if err := c.prepareArgs(site); err != nil {
		return nil, err
	}
	if e.Optional {
		callee = types.RemoveNullUndefined(c.expandQuiet(callee))
	}
	t, err := c.extract(callee, site, false)
	if err != nil {
		return nil, err
	}
	if e.Optional {
		t = types.NewUnionType(t, types.Undefined)
	}
	return t, nil
}

func (c *Checker) typeOfNew(e *ast.NewExpr) (types.Type, error) {
	site := newCallSite(e.Args, e.TypeArgs, e.Span())
	defer c.finishArgs(site)

	callee, err := c.typeOf(e.Callee, RValue)
	if err != nil {
		return nil, err
	}
	if err := c.prepareArgs(site); err != nil {
		return nil, err
	}
	return c.extract(callee, site, true)
}

// callMember resolves `obj.method(args)`, keeping every overload of the
// method as a candidate.
func (c *Checker) callMember(me *ast.MemberExpr, site *callSite) (types.Type, error) {
	var obj types.Type
	if _, ok := me.Obj.(*ast.SuperExpr); ok {
		obj = c.superType()
		me.Obj.SetComputedType(obj)
	} else {
		t, err := c.typeOf(me.Obj, RValue)
		if err != nil {
			return nil, err
		}
		obj = t
	}
	if me.Optional {
		obj = types.RemoveNullUndefined(c.expandQuiet(obj))
	}
	p, err := c.propRefOf(me)
	if err != nil {
		return nil, err
	}
	if err := c.prepareArgs(site); err != nil {
		return nil, err
	}
	optional := func(t types.Type) types.Type {
		if me.Optional {
			return types.NewUnionType(t, types.Undefined)
		}
		return t
	}

	if p.literal && p.key.Name == "toString" && !p.key.Computed && len(site.args) == 0 {
		me.SetComputedType(types.NewFunctionType(types.String))
		return optional(types.String), nil
	}

	if cands := c.methodCandidates(obj, p); len(cands) > 0 {
		fn := cands[0]
		if len(cands) > 1 {
			if fn = c.pickOverload(cands, site); fn == nil {
				return nil, fail(errors.WrongParams, site.span, "no overload of '%s' expects %d arguments", p, len(site.args))
			}
		}
		me.SetComputedType(fn)
		t, err := c.tryInstantiate(fn, site)
		if err != nil {
			return nil, err
		}
		return optional(t), nil
	}

	pt, err := c.accessProperty(obj, p, RValue)
	if err != nil {
		if isFatal(err) {
			return nil, err
		}
		c.record(err)
		pt = types.Any
	}
	me.SetComputedType(pt)
	t, err := c.extract(pt, site, false)
	if err != nil {
		return nil, err
	}
	return optional(t), nil
}

// methodCandidates collects the methods named by p from the nearest level of
// the object's structure that declares any, then from the built-in
// interfaces backing the object.
func (c *Checker) methodCandidates(obj types.Type, p propRef) []*types.FunctionType {
	if !p.literal {
		return nil
	}
	var chain []types.Type
	addBuiltin := func(name string, args ...types.Type) {
		if it := c.builtinInterface(name, args); it != nil {
			chain = append(chain, it)
		}
	}
	exp := c.enumValue(c.expandQuiet(obj))
	if lit, ok := exp.(*types.LiteralType); ok {
		exp = lit.Keyword()
	}
	switch o := exp.(type) {
	case *types.Primitive:
		switch o {
		case types.String:
			addBuiltin("String")
		case types.Number:
			addBuiltin("Number")
		case types.Boolean:
			addBuiltin("Boolean")
		case types.Symbol:
			addBuiltin("Symbol")
		case types.Object:
		default:
			return nil
		}
	case *types.ArrayType:
		addBuiltin("Array", o.ElementType)
	case *types.TupleType:
		addBuiltin("Array", o.ElementUnion())
	case *types.FunctionType:
		addBuiltin("Function")
	case *types.ClassType:
		chain = append(chain, o)
		addBuiltin("Function")
	case *types.InstanceType, *types.InterfaceType, *types.ObjectType, *types.IntersectionType:
		chain = append(chain, o)
	case *types.TypeParameterType:
		if o.Constraint == nil {
			break
		}
		return c.methodCandidates(o.Constraint, p)
	default:
		return nil
	}
	addBuiltin("Object")

	for _, t := range chain {
		if fns, stop := c.ownMethods(t, p.key); len(fns) > 0 || stop {
			return fns
		}
	}
	return nil
}

// ownMethods walks one type's structure for methods with the given key.
// stop is set when a property of that name shadows inherited methods.
func (c *Checker) ownMethods(t types.Type, key types.Key) (fns []*types.FunctionType, stop bool) {
	visited := map[types.Type]bool{}
	var find func(t types.Type, subst map[string]types.Type, static bool) ([]*types.FunctionType, bool)
	collect := func(ms []types.Member, subst map[string]types.Type, static bool) ([]*types.FunctionType, bool) {
		var out []*types.FunctionType
		for _, m := range ms {
			switch m := m.(type) {
			case *types.Method:
				if m.Key != key || m.Static != static {
					continue
				}
				if m.Kind != types.MethodNormal {
					return nil, true
				}
				fn := m.Fn
				if len(subst) > 0 {
					fn = types.SubstituteFunction(fn, subst)
				}
				out = append(out, fn)
			case *types.Property:
				if m.Key == key && m.Static == static {
					return nil, true
				}
			}
		}
		return out, false
	}
	find = func(t types.Type, subst map[string]types.Type, static bool) ([]*types.FunctionType, bool) {
		t = c.Expand(t)
		if visited[t] {
			return nil, false
		}
		visited[t] = true
		switch t := t.(type) {
		case *types.ObjectType:
			return collect(t.Members, subst, false)
		case *types.InterfaceType:
			if fns, stop := collect(t.Members, subst, false); len(fns) > 0 || stop {
				return fns, stop
			}
			for _, ext := range t.Extends {
				if fns, stop := find(ext, subst, false); len(fns) > 0 || stop {
					return fns, stop
				}
			}
		case *types.InstanceType:
			bindings := t.Bindings()
			if fns, stop := collect(t.Class.Members, bindings, false); len(fns) > 0 || stop {
				return fns, stop
			}
			if t.Class.Super != nil {
				if sc, ok := c.Expand(t.Class.Super).(*types.ClassType); ok {
					args := make([]types.Type, len(t.Class.SuperArgs))
					for i, a := range t.Class.SuperArgs {
						args[i] = types.Substitute(a, bindings)
					}
					return find(&types.InstanceType{Class: sc, TypeArgs: args}, nil, false)
				}
			}
		case *types.ClassType:
			if fns, stop := collect(t.Members, subst, true); len(fns) > 0 || stop {
				return fns, stop
			}
			if t.Super != nil {
				return find(t.Super, nil, true)
			}
		case *types.IntersectionType:
			var all []*types.FunctionType
			for _, m := range t.Types {
				fns, _ := find(m, subst, static)
				all = append(all, fns...)
			}
			return all, false
		}
		return nil, false
	}
	return find(t, nil, false)
}

// signaturesOf lists the call (or construct) signatures of a type.
func (c *Checker) signaturesOf(t types.Type, construct bool) []*types.FunctionType {
	switch f := t.(type) {
	case *types.FunctionType:
		if construct {
			return nil
		}
		return []*types.FunctionType{f}
	case *types.UnionType:
		var out []*types.FunctionType
		for _, m := range f.Types {
			out = append(out, c.signaturesOf(c.expandQuiet(m), construct)...)
		}
		return out
	case *types.ObjectType, *types.InterfaceType, *types.InstanceType, *types.IntersectionType:
		var out []*types.FunctionType
		for _, m := range types.Members(c, f) {
			switch m := m.(type) {
			case *types.CallSignature:
				if !construct {
					out = append(out, m.Fn)
				}
			case *types.ConstructSignature:
				if construct {
					out = append(out, m.Fn)
				}
			}
		}
		return out
	}
	return nil
}

// extract computes the result of calling or constructing a value of type t.
func (c *Checker) extract(t types.Type, site *callSite, construct bool) (types.Type, error) {
	exp, err := c.expandType(t)
	if err != nil {
		return nil, err
	}
	switch f := exp.(type) {
	case *types.Primitive:
		if f == types.Any {
			return types.Any, nil
		}
		if f == types.Unknown {
			return nil, fail(errors.Unknown, site.span, "object is of type 'unknown'")
		}
	case *types.ClassType:
		if !construct {
			c.errorf(errors.NoCallSignature, site.span, "value of type '%s' is not callable; did you mean to include 'new'?", f)
			return types.Any, nil
		}
		return c.construct(f, site)
	case *types.UnionType:
		if construct {
			if r, ok := c.constructUnion(f, site); ok {
				return r, nil
			}
		}
	}

	sigs := c.signaturesOf(exp, construct)
	if len(sigs) == 0 {
		if construct {
			c.errorf(errors.NoNewSignature, site.span, "this expression is not constructable: type '%s' has no construct signatures", exp)
		} else {
			c.errorf(errors.NoCallSignature, site.span, "this expression is not callable: type '%s' has no call signatures", exp)
		}
		return types.Any, nil
	}
	fn := sigs[0]
	if len(sigs) > 1 {
		if fn = c.pickOverload(sigs, site); fn == nil {
			return nil, fail(errors.WrongParams, site.span, "no signature of '%s' expects %d arguments", exp, len(site.args))
		}
	}
	return c.tryInstantiate(fn, site)
}

// constructUnion constructs the first class in a union that accepts the
// arguments.
func (c *Checker) constructUnion(u *types.UnionType, site *callSite) (types.Type, bool) {
	var errs []*errors.TypeError
	for _, m := range u.Types {
		cls, ok := c.expandQuiet(m).(*types.ClassType)
		if !ok {
			continue
		}
		t, err := c.construct(cls, site)
		if err == nil {
			return t, true
		}
		if te, ok := err.(*errors.TypeError); ok {
			errs = append(errs, te)
		}
	}
	if len(errs) > 0 {
		c.addError(errors.Aggregate(errors.UnionError, site.span, errs))
		return types.Any, true
	}
	return nil, false
}

// construct types `new C(args)`: the constructor (own or inherited) is
// matched like a function whose type parameters are the class's.
func (c *Checker) construct(cls *types.ClassType, site *callSite) (types.Type, error) {
	ctors := c.constructorsOf(cls)
	var chosen *types.FunctionType
	switch len(ctors) {
	case 0:
		chosen = &types.FunctionType{}
	case 1:
		chosen = ctors[0]
	default:
		if chosen = c.pickOverload(ctors, site); chosen == nil {
			return nil, fail(errors.WrongParams, site.span, "no constructor of '%s' expects %d arguments", cls.Name, len(site.args))
		}
	}
	args := make([]types.Type, len(cls.TypeParams))
	for i, tp := range cls.TypeParams {
		args[i] = tp
	}
	fn := &types.FunctionType{
		TypeParams: cls.TypeParams,
		Params:     chosen.Params,
		ReturnType: &types.InstanceType{Class: cls, TypeArgs: args},
	}
	if len(cls.TypeParams) == 0 {
		fn.ReturnType = &types.InstanceType{Class: cls}
	}
	return c.tryInstantiate(fn, site)
}

// constructorsOf returns the constructor signatures of a class, inherited
// from the nearest superclass declaring one.
func (c *Checker) constructorsOf(cls *types.ClassType) []*types.FunctionType {
	subst := map[string]types.Type{}
	seen := map[*types.ClassType]bool{}
	for cur := cls; cur != nil && !seen[cur]; {
		seen[cur] = true
		if ctors := cur.Constructors(); len(ctors) > 0 {
			out := make([]*types.FunctionType, len(ctors))
			for i, k := range ctors {
				out[i] = types.SubstituteFunction(k.Fn, subst)
			}
			return out
		}
		if cur.Super == nil {
			break
		}
		next, ok := c.Expand(cur.Super).(*types.ClassType)
		if !ok {
			break
		}
		bound := types.Bind(next.TypeParams, substituteAll(cur.SuperArgs, subst))
		subst = bound
		cur = next
	}
	return nil
}

func substituteAll(ts []types.Type, m map[string]types.Type) []types.Type {
	out := make([]types.Type, len(ts))
	for i, t := range ts {
		out[i] = types.Substitute(t, m)
	}
	return out
}

// pickOverload chooses among candidate signatures: the first whose arity
// matches and whose parameters accept the already typed arguments, else
// the first arity match.
func (c *Checker) pickOverload(cands []*types.FunctionType, site *callSite) *types.FunctionType {
	spread := site.hasSpread()
	var firstArity *types.FunctionType
	for _, f := range cands {
		if !spread && !f.AcceptsArity(len(site.args)) {
			continue
		}
		if firstArity == nil {
			firstArity = f
		}
		if c.argsAccepted(f, site) {
			return f
		}
	}
	return firstArity
}

func (c *Checker) argsAccepted(f *types.FunctionType, site *callSite) bool {
	if len(f.TypeParams) > 0 {
		f = types.Instantiate(f, nil)
	}
	for i, at := range site.types {
		if at == nil {
			continue
		}
		if _, ok := site.args[i].(*ast.SpreadElement); ok {
			return true
		}
		pt, ok := f.ParamTypeAt(i)
		if !ok {
			return false
		}
		if !types.Assignable(c, pt, at) {
			return false
		}
	}
	return true
}

func arityText(f *types.FunctionType) string {
	req, max := f.RequiredCount(), f.MaxCount()
	switch {
	case max < 0:
		return fmt.Sprintf("at least %d", req)
	case req == max:
		return fmt.Sprintf("%d", req)
	}
	return fmt.Sprintf("%d-%d", req, max)
}

// tryInstantiate checks the arguments against a signature and returns the
// call's result type. Type arguments come from the call site or are
// inferred from the arguments, then substituted through the whole
// signature.
func (c *Checker) tryInstantiate(fn *types.FunctionType, site *callSite) (types.Type, error) {
	if !site.hasSpread() && !fn.AcceptsArity(len(site.args)) {
		return nil, fail(errors.WrongParams, site.span, "expected %s arguments, but got %d", arityText(fn), len(site.args))
	}

	generic := len(fn.TypeParams) > 0
	var bindings map[string]types.Type
	explicit := false
	if generic && len(site.typeArgs) > 0 {
		args := make([]types.Type, len(site.typeArgs))
		for i, ta := range site.typeArgs {
			t, err := c.expandType(c.typeFromNode(ta))
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		bindings = types.Bind(fn.TypeParams, args)
		explicit = true
	} else if generic {
		bindings = c.inferBindings(fn, site.types)
	}

	// context sensitive arguments see the parameter types bound so far
	for i := range site.args {
		if site.types[i] != nil {
			continue
		}
		var expected types.Type
		if pt, ok := fn.ParamTypeAt(i); ok {
			expected = pt
			if generic {
				expected = types.Substitute(pt, openBindings(fn.TypeParams, bindings))
			}
		}
		c.typeFnArg(site, i, expected)
	}

	inst := fn
	if generic {
		if !explicit {
			bindings = c.inferBindings(fn, site.types)
		}
		inst = types.SubstituteFunction(&types.FunctionType{Params: fn.Params, ReturnType: fn.ReturnType}, completeBindings(fn.TypeParams, bindings))
	}

	for i, at := range site.types {
		if _, ok := site.args[i].(*ast.SpreadElement); ok {
			break
		}
		pt, ok := inst.ParamTypeAt(i)
		if !ok || at == nil {
			continue
		}
		if !types.Assignable(c, pt, at) {
			c.errorf(errors.AssignFailed, site.args[i].Span(), "argument of type '%s' is not assignable to parameter of type '%s'", at, pt)
		}
	}

	ret := inst.ReturnType
	if ret == nil {
		return types.Any, nil
	}
	t, err := c.expandType(ret)
	if err != nil {
		if isFatal(err) {
			return nil, err
		}
		c.record(err)
		return types.Any, nil
	}
	return t, nil
}

// openBindings keeps unbound type parameters as they are, so a callback's
// parameter types only take what is already known.
func openBindings(tps []*types.TypeParameterType, m map[string]types.Type) map[string]types.Type {
	out := make(map[string]types.Type, len(tps))
	for _, tp := range tps {
		if t, ok := m[tp.Name]; ok {
			out[tp.Name] = t
		} else {
			out[tp.Name] = types.Any
		}
	}
	return out
}

// completeBindings falls back to defaults, constraints, then any for
// parameters nothing was inferred for.
func completeBindings(tps []*types.TypeParameterType, m map[string]types.Type) map[string]types.Type {
	args := make([]types.Type, len(tps))
	for i, tp := range tps {
		args[i] = m[tp.Name]
	}
	return types.Bind(tps, args)
}

// inferBindings unifies each parameter type with its argument type.
func (c *Checker) inferBindings(fn *types.FunctionType, args []types.Type) map[string]types.Type {
	params := map[string]bool{}
	for _, tp := range fn.TypeParams {
		params[tp.Name] = true
	}
	out := map[string]types.Type{}
	for i, at := range args {
		if at == nil {
			continue
		}
		pt, ok := fn.ParamTypeAt(i)
		if !ok {
			continue
		}
		c.unify(pt, at, params, out, 0)
	}
	return out
}

func (c *Checker) unify(param, arg types.Type, params map[string]bool, out map[string]types.Type, depth int) {
	if depth > 8 || param == nil || arg == nil {
		return
	}
	bind := func(name string) {
		t := types.Widen(arg)
		if prev, ok := out[name]; ok {
			if !types.Assignable(c, prev, t) {
				out[name] = types.NewUnionType(prev, t)
			}
			return
		}
		out[name] = t
	}
	switch p := param.(type) {
	case *types.TypeParameterType:
		if params[p.Name] {
			bind(p.Name)
		}
		return
	case *types.TypeRef:
		if len(p.Name) == 1 && len(p.TypeArgs) == 0 && params[p.Name[0]] {
			bind(p.Name[0])
			return
		}
		if len(p.TypeArgs) > 0 {
			c.unifyRef(p, arg, params, out, depth)
			return
		}
	}

	arg = c.expandQuiet(arg)
	switch p := param.(type) {
	case *types.ArrayType:
		switch a := arg.(type) {
		case *types.ArrayType:
			c.unify(p.ElementType, a.ElementType, params, out, depth+1)
		case *types.TupleType:
			c.unify(p.ElementType, a.ElementUnion(), params, out, depth+1)
		}
	case *types.UnionType:
		var open []types.Type
		for _, m := range p.Types {
			if isOpen(m, params) {
				open = append(open, m)
			}
		}
		if len(open) == 1 {
			c.unify(open[0], types.RemoveNullUndefined(arg), params, out, depth+1)
		}
	case *types.FunctionType:
		af := c.callableOf(arg)
		if af == nil {
			return
		}
		for i, pp := range p.Params {
			if i < len(af.Params) {
				c.unify(pp.Type, af.Params[i].Type, params, out, depth+1)
			}
		}
		c.unify(p.ReturnType, af.ReturnType, params, out, depth+1)
	case *types.InterfaceType:
		if a, ok := arg.(*types.InterfaceType); ok && a.Name == p.Name {
			for i := range p.TypeArgs {
				if i < len(a.TypeArgs) {
					c.unify(p.TypeArgs[i], a.TypeArgs[i], params, out, depth+1)
				}
			}
		}
	case *types.InstanceType:
		if a, ok := arg.(*types.InstanceType); ok && a.Class.Equals(p.Class) {
			for i := range p.TypeArgs {
				if i < len(a.TypeArgs) {
					c.unify(p.TypeArgs[i], a.TypeArgs[i], params, out, depth+1)
				}
			}
		}
	case *types.ObjectType:
		if !types.IsObjectLike(arg) {
			return
		}
		members := types.Members(c, arg)
		for _, pm := range p.Members {
			k, ok := types.MemberKey(pm)
			if !ok {
				continue
			}
			if am := types.FindMember(members, k); am != nil {
				c.unify(types.MemberType(pm), types.MemberType(am), params, out, depth+1)
			}
		}
	}
}

// unifyRef matches a generic reference such as Box<T> by name: the
// reference's arguments are unified pairwise with the argument's.
func (c *Checker) unifyRef(p *types.TypeRef, arg types.Type, params map[string]bool, out map[string]types.Type, depth int) {
	name := p.Name[len(p.Name)-1]
	if len(p.Name) == 1 && (name == "Array" || name == "ReadonlyArray") && len(p.TypeArgs) == 1 {
		c.unify(types.NewArrayType(p.TypeArgs[0]), arg, params, out, depth+1)
		return
	}
	pairwise := func(args []types.Type) {
		for i := range p.TypeArgs {
			if i < len(args) {
				c.unify(p.TypeArgs[i], args[i], params, out, depth+1)
			}
		}
	}
	if a, ok := arg.(*types.TypeRef); ok && a.QualifiedName() == p.QualifiedName() {
		pairwise(a.TypeArgs)
		return
	}
	switch a := c.expandQuiet(arg).(type) {
	case *types.InterfaceType:
		if a.Name == name {
			pairwise(a.TypeArgs)
		}
	case *types.InstanceType:
		if a.Class != nil && a.Class.Name == name {
			pairwise(a.TypeArgs)
		}
	}
}

func isOpen(t types.Type, params map[string]bool) bool {
	switch t := t.(type) {
	case *types.TypeParameterType:
		return params[t.Name]
	case *types.TypeRef:
		return len(t.Name) == 1 && params[t.Name[0]]
	}
	return false
}

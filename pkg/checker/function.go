package checker

import (
	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/types"
)

// fnOpts describes the context a function body is checked in.
type fnOpts struct {
	kind       ScopeKind  // FunctionScope binds its own this, ArrowScope inherits it
	this       types.Type // this inside a FunctionScope; nil means any
	ctor       bool
	contextual bool // parameter types come from the call site
}

// typeOfFunctionExpr types a function expression or arrow. ctx is the
// function type expected at the position, if any; it supplies the types
// of unannotated parameters.
func (c *Checker) typeOfFunctionExpr(fn *ast.Function, name *ast.Ident, kind ScopeKind, ctx *types.FunctionType) (types.Type, error) {
	sig := c.signature(fn.TypeParams, fn.Params, fn.Ret, true)
	if ctx != nil {
		applyContext(fn, sig, ctx)
	}
	opts := fnOpts{kind: kind, contextual: ctx != nil}

	check := func() {
		ret := c.checkFunctionBody(fn, sig, opts)
		if fn.Ret == nil {
			sig.ReturnType = ret
		}
	}
	if name == nil {
		check()
		return sig, nil
	}
	// a named function expression sees itself
	err := c.withChild(BlockScope, c.ctx, func(s *Scope) error {
		if fn.Ret == nil {
			sig.ReturnType = types.Any
		}
		c.declareVar(BindFunction, name.Name, sig, name.Span())
		name.SetComputedType(sig)
		check()
		return nil
	})
	return sig, err
}

// applyContext gives unannotated parameters the type of the matching
// parameter of the expected signature.
func applyContext(fn *ast.Function, sig, ctx *types.FunctionType) {
	for i, p := range fn.Params {
		if ast.TypeAnn(p.Pat) != nil {
			continue
		}
		if _, hasDefault := p.Pat.(*ast.AssignPat); hasDefault {
			continue
		}
		if sig.Params[i].Rest {
			if n := len(ctx.Params); n > 0 && ctx.Params[n-1].Rest && i == n-1 {
				sig.Params[i].Type = ctx.Params[n-1].Type
			}
			continue
		}
		if t, ok := ctx.ParamTypeAt(i); ok {
			sig.Params[i].Type = t
		}
	}
}

// checkMethodFunction types a method body; the result is the method's
// signature with its return type filled in.
func (c *Checker) checkMethodFunction(fn *ast.Function, this types.Type, ctor bool) *types.FunctionType {
	sig := c.signature(fn.TypeParams, fn.Params, fn.Ret, true)
	ret := c.checkFunctionBody(fn, sig, fnOpts{kind: FunctionScope, this: this, ctor: ctor})
	if fn.Ret == nil {
		sig.ReturnType = ret
	}
	return sig
}

// checkFunctionBody validates parameters and body in a new scope and
// returns the return type: the annotation when there is one, else the
// type inferred from the return statements.
func (c *Checker) checkFunctionBody(fn *ast.Function, sig *types.FunctionType, o fnOpts) types.Type {
	var declared types.Type
	if fn.Ret != nil {
		declared = sig.ReturnType
	}
	if !fn.HasBody() {
		return orAny(declared)
	}
	if c.ctx.InDeclare {
		c.errorf(errors.TS1183, fn.Span(), "an implementation cannot be declared in ambient contexts")
		return orAny(declared)
	}

	ctx := Ctx{InCtor: o.ctor, Namespace: c.ctx.Namespace}
	var ret types.Type
	c.withChild(o.kind, ctx, func(s *Scope) error {
		if o.kind == FunctionScope {
			s.this = o.this
			if s.this == nil {
				s.this = types.Any
			}
		}
		for _, tp := range sig.TypeParams {
			s.types[tp.Name] = []types.Type{tp}
		}
		for i, p := range fn.Params {
			c.declareParam(p, sig.Params[i], o.contextual)
		}

		saved := c.fn
		fc := &funcContext{declared: declared, async: fn.Async, generator: fn.Generator}
		c.fn = fc
		defer func() { c.fn = saved }()

		if fn.Body != nil {
			c.checkStmts(fn.Body.Stmts)
		} else {
			t := c.anyOnError(c.typeOf(fn.ExprBody, RValue))
			c.checkReturnValue(t, fn.ExprBody)
			fc.returns = append(fc.returns, t)
		}
		ret = c.finishReturn(fn, fc)
		return nil
	})
	return ret
}

// declareParam binds a parameter inside its function's scope.
func (c *Checker) declareParam(p *ast.Param, tp types.Param, contextual bool) {
	ann := ast.TypeAnn(p.Pat)
	if c.opts.Strict && ann == nil && !contextual {
		if _, hasDefault := p.Pat.(*ast.AssignPat); !hasDefault {
			for _, name := range ast.BoundNames(p.Pat) {
				c.errorf(errors.ImplicitAny, p.Span(), "parameter '%s' implicitly has an 'any' type", name)
			}
		}
	}
	t := tp.Type
	switch pat := p.Pat.(type) {
	case *ast.RestPat:
		c.declareVars(BindParam, pat.Arg, t)
		return
	case *ast.IdentPat:
		if tp.Optional && t != types.Any {
			t = types.NewUnionType(t, types.Undefined)
		}
	}
	c.declareVars(BindParam, p.Pat, t)
}

// finishReturn computes a function's return type once its body is checked.
func (c *Checker) finishReturn(fn *ast.Function, fc *funcContext) types.Type {
	if fc.declared != nil {
		if fn.Body != nil && !fc.async && !fc.generator && len(fc.returns) == 0 &&
			!c.allowsNoReturn(fc.declared) && !endsInThrow(fn.Body) {
			at := fn.Span()
			if fn.Ret != nil {
				at = fn.Ret.Span()
			}
			c.errorf(errors.ReturnRequired, at, "a function whose declared type is neither 'void' nor 'any' must return a value")
		}
		return fc.declared
	}

	var ret types.Type = types.Void
	if len(fc.returns) > 0 {
		ts := make([]types.Type, 0, len(fc.returns)+1)
		for _, t := range fc.returns {
			ts = append(ts, types.Widen(t))
		}
		if fc.bare {
			ts = append(ts, types.Undefined)
		}
		ret = types.NewUnionType(ts...)
	}
	switch {
	case fc.generator:
		return types.Any
	case fc.async:
		if p := c.builtinInterface("Promise", []types.Type{c.awaited(ret)}); p != nil {
			return p
		}
		return types.Any
	}
	return ret
}

// allowsNoReturn reports whether a declared return type may be satisfied by
// falling off the end of the body.
func (c *Checker) allowsNoReturn(t types.Type) bool {
	switch t := c.expandQuiet(t).(type) {
	case *types.Primitive:
		return t == types.Any || t == types.Void || t == types.Undefined || t == types.Unknown || t == types.Never
	case *types.UnionType:
		for _, m := range t.Types {
			if c.allowsNoReturn(m) {
				return true
			}
		}
	}
	return false
}

func endsInThrow(b *ast.BlockStmt) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[len(b.Stmts)-1].(*ast.ThrowStmt)
	return ok
}

// checkReturn handles a return statement of the enclosing function.
func (c *Checker) checkReturn(s *ast.ReturnStmt) {
	if c.fn == nil {
		c.errorf(errors.Unsupported, s.Span(), "a 'return' statement can only be used within a function body")
		if s.Arg != nil {
			c.anyOnError(c.typeOf(s.Arg, RValue))
		}
		return
	}
	if s.Arg == nil {
		c.fn.bare = true
		return
	}
	t := c.anyOnError(c.typeOf(s.Arg, RValue))
	c.checkReturnValue(t, s.Arg)
	c.fn.returns = append(c.fn.returns, t)
}

// checkReturnValue checks a returned value against the declared type.
func (c *Checker) checkReturnValue(t types.Type, arg ast.Expr) {
	fc := c.fn
	if fc == nil || fc.declared == nil || fc.generator {
		return
	}
	target := fc.declared
	if fc.async {
		target = c.awaited(target)
		t = c.awaited(t)
	}
	if !types.Assignable(c, target, t) {
		c.errorf(errors.AssignFailed, arg.Span(), "type '%s' is not assignable to return type '%s'", t, target)
	}
}

// forceLazy infers the return type of a hoisted function declaration ahead
// of its statement. Diagnostics of this pass are dropped; the declaration
// reports them when it is reached.
func (c *Checker) forceLazy(info *VarInfo) {
	lz := info.lazy
	info.lazy = nil
	if lz.typ.ReturnType != nil {
		return
	}
	// recursive references see any while the body is inferred
	lz.typ.ReturnType = types.Any

	savedScope, savedCtx, savedFn := c.scope, c.ctx, c.fn
	c.scope = newScope(BlockScope, lz.scope)
	c.ctx = Ctx{Namespace: savedCtx.Namespace}
	c.fn = nil
	ret := c.checkFunctionBody(lz.fn, lz.typ, fnOpts{kind: FunctionScope})
	c.scope, c.ctx, c.fn = savedScope, savedCtx, savedFn

	lz.typ.ReturnType = ret
	c.returns.store(lz.fn.Span(), ret)
}

// checkFnDecl validates a function declaration whose signature was hoisted.
func (c *Checker) checkFnDecl(d *ast.FnDecl) {
	if !d.Fn.HasBody() {
		return
	}
	l, ok := c.findVar(d.Name.Name)
	var sig *types.FunctionType
	if ok && l.info != nil {
		if l.info.lazy != nil && l.info.lazy.fn == d.Fn {
			sig = l.info.lazy.typ
			l.info.lazy = nil
		} else if f, isFn := l.info.Type.(*types.FunctionType); isFn {
			sig = f
		}
	}
	if sig == nil {
		sig = c.signature(d.Fn.TypeParams, d.Fn.Params, d.Fn.Ret, false)
	}

	saved := c.ctx
	if d.Declare {
		c.ctx.InDeclare = true
	}
	if d.Fn.Ret == nil && sig.ReturnType == nil {
		// self-recursion before the body is inferred
		sig.ReturnType = types.Any
	}
	ret := c.checkFunctionBody(d.Fn, sig, fnOpts{kind: FunctionScope})
	c.ctx = saved

	if d.Fn.Ret == nil {
		if earlier, ok := c.returns.take(d.Fn.Span()); ok {
			ret = earlier
		}
		sig.ReturnType = ret
	}
	d.Name.SetComputedType(sig)
}

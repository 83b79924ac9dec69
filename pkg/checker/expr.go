package checker

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

// typeOf infers the type of an expression and records it on the node.
// Fatal conditions come back as an error and leave the node untyped.
func (c *Checker) typeOf(e ast.Expr, mode Mode) (types.Type, error) {
	t, err := c.inferExpr(e, mode)
	if err != nil {
		return nil, err
	}
	t = orAny(t)
	e.SetComputedType(t)
	return t, nil
}

func (c *Checker) inferExpr(e ast.Expr, mode Mode) (types.Type, error) {
	switch e := e.(type) {
	case *ast.Ident:
		return c.typeOfName(e.Name, e.Span(), mode)
	case *ast.ThisExpr:
		if _, self := c.thisType().(*types.ThisType); self {
			return types.Any, nil
		}
		return c.thisType(), nil
	case *ast.SuperExpr:
		return c.superType(), nil
	case *ast.StrLit:
		return types.NewStringLiteral(e.Value), nil
	case *ast.NumLit:
		return types.NewNumberLiteral(e.Value), nil
	case *ast.BigIntLit:
		return types.NewBigIntLiteral(trimBigInt(e.Raw)), nil
	case *ast.BoolLit:
		return types.NewBooleanLiteral(e.Value), nil
	case *ast.NullLit:
		return types.Null, nil
	case *ast.RegexLit:
		c.checkRegExp(e)
		if t, ok := c.builtins.Type("RegExp"); ok {
			return t, nil
		}
		return types.Any, nil
	case *ast.TemplateLit:
		return c.typeOfTemplate(e)
	case *ast.TaggedTemplate:
		return c.typeOfTaggedTemplate(e)
	case *ast.ArrayLit:
		return c.typeOfArray(e)
	case *ast.SpreadElement:
		return c.typeOf(e.Arg, RValue)
	case *ast.ObjectLit:
		return c.typeOfObject(e)
	case *ast.FnExpr:
		return c.typeOfFunctionExpr(e.Fn, e.Name, FunctionScope, nil)
	case *ast.ArrowExpr:
		return c.typeOfFunctionExpr(e.Fn, nil, ArrowScope, nil)
	case *ast.ClassExpr:
		return c.typeOfClassExpr(e)
	case *ast.UnaryExpr:
		return c.typeOfUnary(e)
	case *ast.UpdateExpr:
		t, err := c.typeOf(e.Arg, LValue)
		if err != nil {
			return nil, err
		}
		if c.expandQuiet(t) == types.BigInt {
			return types.BigInt, nil
		}
		return types.Number, nil
	case *ast.BinaryExpr:
		return c.typeOfBinary(e)
	case *ast.AssignExpr:
		return c.typeOfAssign(e)
	case *ast.CondExpr:
		return c.typeOfCond(e)
	case *ast.CallExpr:
		return c.typeOfCall(e)
	case *ast.NewExpr:
		return c.typeOfNew(e)
	case *ast.MemberExpr:
		return c.typeOfMember(e, mode)
	case *ast.SeqExpr:
		return c.typeOfSeq(e)
	case *ast.ParenExpr:
		return c.typeOf(e.X, mode)
	case *ast.AsExpr:
		return c.typeOfAs(e)
	case *ast.NonNullExpr:
		t, err := c.typeOf(e.X, mode)
		if err != nil {
			return nil, err
		}
		if stripped := types.RemoveNullUndefined(c.expandQuiet(t)); stripped != types.Never {
			return stripped, nil
		}
		return t, nil
	case *ast.AwaitExpr:
		t, err := c.typeOf(e.X, RValue)
		if err != nil {
			return nil, err
		}
		return c.awaited(t), nil
	case *ast.YieldExpr:
		if e.X != nil {
			if _, err := c.typeOf(e.X, RValue); err != nil {
				return nil, err
			}
		}
		return types.Any, nil
	case *ast.MetaProp:
		if e.Meta == "import" && e.Prop == "meta" {
			return types.NewObjectType().WithProperty("url", types.String), nil
		}
		return types.Any, nil
	case *ast.InvalidExpr:
		return types.Any, nil
	}
	return nil, fail(errors.Unsupported, e.Span(), "unsupported expression %T", e)
}

// --- Identifiers ---

// typeOfName resolves a value name: intrinsic names, imports, the scope
// chain (with the self-reference guard), type declarations that double as
// values, then built-in globals.
func (c *Checker) typeOfName(name string, at source.Span, mode Mode) (types.Type, error) {
	switch name {
	case "arguments":
		if _, ok := c.findVar(name); !ok {
			return types.Any, nil
		}
	case "Symbol":
		if t, ok := c.builtins.Var(name); ok {
			return t, nil
		}
	case "undefined":
		if mode == LValue {
			return nil, fail(errors.CannotAssignToNonVariable, at, "cannot assign to 'undefined' because it is not a variable")
		}
		return types.Undefined, nil
	case "eval":
		if mode == LValue {
			return nil, fail(errors.CannotAssignToNonVariable, at, "cannot assign to 'eval' because it is not a variable")
		}
		return types.NewFunctionType(types.Any).WithRest(types.NewArrayType(types.Any)), nil
	}

	if t, ok := c.imports[name]; ok {
		if mode == LValue {
			return nil, fail(errors.CannotAssignToNonVariable, at, "cannot assign to '%s' because it is an import", name)
		}
		return t, nil
	}

	if l, ok := c.findVar(name); ok {
		if l.declaring {
			if l.deferred || c.ctx.InCondTest {
				return types.Any, nil
			}
			return nil, fail(errors.ReferencedInInit, at, "'%s' is used before being assigned", name)
		}
		info := l.info
		if !info.Initialized {
			if !l.deferred && !c.ctx.InCondTest {
				return nil, fail(errors.ReferencedInInit, at, "block-scoped variable '%s' used before its declaration", name)
			}
			return orAny(info.Type), nil
		}
		if info.lazy != nil {
			c.forceLazy(info)
		}
		if mode == LValue {
			switch info.Kind {
			case BindConst:
				c.errorf(errors.InvalidLValue, at, "cannot assign to '%s' because it is a constant", name)
			case BindClass, BindEnum, BindNamespace, BindImport:
				return nil, fail(errors.CannotAssignToNonVariable, at, "cannot assign to '%s' because it is not a variable", name)
			}
		}
		return orAny(info.Type), nil
	}

	for _, d := range c.findType(name) {
		switch d.(type) {
		case *types.EnumType, *types.ModuleType, *types.ClassType:
			return d, nil
		}
	}
	if t, ok := c.builtins.Var(name); ok {
		return t, nil
	}
	return nil, fail(errors.UndefinedSymbol, at, "cannot find name '%s'", name)
}

// --- Literals ---

func (c *Checker) checkRegExp(e *ast.RegexLit) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	seen := map[rune]bool{}
	for _, f := range e.Flags {
		if seen[f] {
			c.errorf(errors.InvalidRegExp, e.Span(), "duplicate regular expression flag '%c'", f)
			return
		}
		seen[f] = true
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 'd', 'g', 's', 'u', 'v', 'y':
		default:
			c.errorf(errors.InvalidRegExp, e.Span(), "unknown regular expression flag '%c'", f)
			return
		}
	}
	if _, err := regexp2.Compile(e.Pattern, opts); err != nil {
		c.addError(errors.NewTypeError(errors.InvalidRegExp, e.Span(), "invalid regular expression /%s/: %v", e.Pattern, err).CausedBy(err))
	}
}

func (c *Checker) typeOfTemplate(e *ast.TemplateLit) (types.Type, error) {
	for _, x := range e.Exprs {
		if _, err := c.typeOf(x, RValue); err != nil {
			return nil, err
		}
	}
	if len(e.Exprs) == 0 {
		return types.NewStringLiteral(strings.Join(e.Quasis, "")), nil
	}
	return types.String, nil
}

func (c *Checker) typeOfTaggedTemplate(e *ast.TaggedTemplate) (types.Type, error) {
	tag, err := c.typeOf(e.Tag, RValue)
	if err != nil {
		return nil, err
	}
	if _, err := c.typeOf(e.Tpl, RValue); err != nil {
		return nil, err
	}
	if sigs := c.signaturesOf(c.expandQuiet(tag), false); len(sigs) > 0 {
		return c.expandQuiet(orAny(sigs[0].ReturnType)), nil
	}
	return types.Any, nil
}

// typeOfArray infers a tuple of the element types.
func (c *Checker) typeOfArray(e *ast.ArrayLit) (types.Type, error) {
	elems := make([]types.Type, 0, len(e.Elems))
	for _, x := range e.Elems {
		if x == nil {
			elems = append(elems, types.Undefined)
			continue
		}
		if sp, ok := x.(*ast.SpreadElement); ok {
			c.errorf(errors.Unsupported, sp.Span(), "spread elements in array literals are not supported")
			c.anyOnError(c.typeOf(sp, RValue))
			elems = append(elems, types.Any)
			continue
		}
		t, err := c.typeOf(x, RValue)
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
	}
	return types.NewTupleType(elems...), nil
}

// propKey evaluates an object literal key. Computed keys that are not
// literals come back as an index type instead.
func (c *Checker) propKey(p *ast.PropName) (types.Key, types.Type, error) {
	if p.Kind != ast.PropComputed {
		return c.memberKey(p), nil, nil
	}
	if key, ok := wellKnownSymbol(p.Expr); ok {
		c.anyOnError(c.typeOf(p.Expr, RValue))
		return key, nil, nil
	}
	t, err := c.typeOf(p.Expr, RValue)
	if err != nil {
		return types.Key{}, nil, err
	}
	ref := c.refFromIndex(t, p.Span())
	if ref.literal {
		return ref.key, nil, nil
	}
	return types.Key{}, t, nil
}

// typeOfObject infers a type literal from the properties. Property types
// are widened since the object stays mutable.
func (c *Checker) typeOfObject(e *ast.ObjectLit) (types.Type, error) {
	obj := types.NewObjectType()
	var spreadAll types.Type
	for _, prop := range e.Props {
		switch p := prop.(type) {
		case *ast.KeyValueProp:
			key, index, err := c.propKey(p.Key)
			if err != nil {
				return nil, err
			}
			t, err := c.typeOf(p.Value, RValue)
			if err != nil {
				return nil, err
			}
			if index != nil {
				obj.Members = append(obj.Members, &types.IndexSignature{KeyType: types.Widen(index), ValueType: types.Widen(t)})
				continue
			}
			obj.Set(&types.Property{Key: key, Type: types.Widen(t)})

		case *ast.ShorthandProp:
			t, err := c.typeOf(p.Name, RValue)
			if err != nil {
				return nil, err
			}
			obj.Set(&types.Property{Key: types.NameKey(p.Name.Name), Type: types.Widen(t)})

		case *ast.MethodProp:
			key, index, err := c.propKey(p.Key)
			if err != nil {
				return nil, err
			}
			fn := c.checkMethodFunction(p.Fn, types.Any, false)
			if index != nil {
				obj.Members = append(obj.Members, &types.IndexSignature{KeyType: types.Widen(index), ValueType: fn})
				continue
			}
			kind := types.MethodKind(p.Kind)
			if kind == types.MethodSetter {
				if m, ok := types.FindMember(obj.Members, key).(*types.Method); ok && m.Kind == types.MethodGetter {
					continue
				}
			}
			obj.Set(&types.Method{Key: key, Fn: fn, Kind: kind})

		case *ast.SpreadProp:
			t, err := c.typeOf(p.Arg, RValue)
			if err != nil {
				return nil, err
			}
			switch src := c.expandQuiet(t).(type) {
			case *types.ObjectType:
				for _, m := range src.Members {
					obj.Set(m)
				}
			case *types.Primitive:
				if src == types.Any || src == types.Unknown {
					spreadAll = src
					continue
				}
				c.errorf(errors.Unsupported, p.Span(), "spreading a value of type '%s' is not supported", src)
			default:
				c.errorf(errors.Unsupported, p.Span(), "spreading a value of type '%s' is not supported", src)
			}
		}
	}
	if spreadAll != nil {
		return spreadAll, nil
	}
	return obj, nil
}

// --- Operators ---

func (c *Checker) typeOfUnary(e *ast.UnaryExpr) (types.Type, error) {
	t, err := c.typeOf(e.Arg, RValue)
	if err != nil {
		return nil, err
	}
	exp := c.expandQuiet(t)
	if exp == types.Unknown {
		return nil, fail(errors.Unknown, e.Arg.Span(), "object is of type 'unknown'")
	}
	switch e.Op {
	case "typeof":
		return types.String, nil
	case "delete":
		return types.Boolean, nil
	case "void":
		return types.Undefined, nil
	case "!":
		return negate(exp), nil
	case "-", "~":
		if exp == types.BigInt {
			return types.BigInt, nil
		}
		if lit, ok := exp.(*types.LiteralType); ok && lit.Kind == types.LitBigInt {
			return types.BigInt, nil
		}
		return types.Number, nil
	case "+":
		return types.Number, nil
	}
	return nil, fail(errors.Unsupported, e.Span(), "unsupported unary operator '%s'", e.Op)
}

// negate applies `!`: literals fold by truthiness, everything else is
// boolean.
func negate(t types.Type) types.Type {
	if lit, ok := t.(*types.LiteralType); ok {
		return types.NewBooleanLiteral(!lit.Truthy())
	}
	return types.Boolean
}

func (c *Checker) typeOfCond(e *ast.CondExpr) (types.Type, error) {
	saved := c.ctx.InCondTest
	c.ctx.InCondTest = true
	_, err := c.typeOf(e.Test, RValue)
	c.ctx.InCondTest = saved
	if err != nil {
		return nil, err
	}
	cons, err := c.typeOf(e.Cons, RValue)
	if err != nil {
		return nil, err
	}
	alt, err := c.typeOf(e.Alt, RValue)
	if err != nil {
		return nil, err
	}
	return types.NewUnionType(cons, alt), nil
}

// typeOfSeq validates every element and yields the type of the last.
func (c *Checker) typeOfSeq(e *ast.SeqExpr) (types.Type, error) {
	last := len(e.Exprs) - 1
	for _, x := range e.Exprs[:last] {
		if c.refsDeclaring(x) {
			c.errorf(errors.ImplicitAny, x.Span(), "expression implicitly has type 'any' because it references a variable in its own initializer")
			x.SetComputedType(types.Any)
			continue
		}
		if !c.ctx.InCondTest && sideEffectFree(x) {
			c.errorf(errors.UselessSeqExpr, x.Span(), "left side of comma operator is unused and has no side effects")
		}
		if _, err := c.typeOf(x, RValue); err != nil {
			if isFatal(err) {
				return nil, err
			}
			c.record(err)
		}
	}
	return c.typeOf(e.Exprs[last], RValue)
}

// refsDeclaring reports whether an expression mentions a name whose
// initializer is being validated.
func (c *Checker) refsDeclaring(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident:
		l, ok := c.findVar(e.Name)
		return ok && l.declaring
	case *ast.ParenExpr:
		return c.refsDeclaring(e.X)
	case *ast.UnaryExpr:
		return c.refsDeclaring(e.Arg)
	case *ast.BinaryExpr:
		return c.refsDeclaring(e.Left) || c.refsDeclaring(e.Right)
	case *ast.MemberExpr:
		return c.refsDeclaring(e.Obj)
	case *ast.CallExpr:
		if c.refsDeclaring(e.Callee) {
			return true
		}
		for _, a := range e.Args {
			if c.refsDeclaring(a) {
				return true
			}
		}
	}
	return false
}

func sideEffectFree(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.StrLit, *ast.NumLit, *ast.BoolLit, *ast.NullLit, *ast.BigIntLit, *ast.RegexLit, *ast.Ident, *ast.ThisExpr:
		return true
	case *ast.TemplateLit:
		return len(e.Exprs) == 0
	case *ast.ParenExpr:
		return sideEffectFree(e.X)
	case *ast.UnaryExpr:
		if e.Op == "delete" {
			return false
		}
		switch e.Arg.(type) {
		case *ast.StrLit, *ast.NumLit, *ast.BoolLit, *ast.NullLit, *ast.BigIntLit:
			return true
		}
	}
	return false
}

func (c *Checker) typeOfAs(e *ast.AsExpr) (types.Type, error) {
	xt, err := c.typeOf(e.X, RValue)
	if err != nil {
		return nil, err
	}
	if ref, ok := e.Type.(*ast.TypeRef); ok && len(ref.Name) == 1 && ref.Name[0] == "const" {
		return xt, nil
	}
	target, err := c.expandType(c.typeFromNode(e.Type))
	if err != nil {
		return nil, err
	}
	if e.Kind == "satisfies" {
		if !types.Assignable(c, target, xt) {
			c.errorf(errors.AssignFailed, e.Span(), "type '%s' does not satisfy the expected type '%s'", xt, target)
		}
		return xt, nil
	}
	return target, nil
}

// awaited unwraps Promise<T> to T.
func (c *Checker) awaited(t types.Type) types.Type {
	switch p := c.expandQuiet(t).(type) {
	case *types.InterfaceType:
		if p.Name == "Promise" && len(p.TypeArgs) == 1 {
			return p.TypeArgs[0]
		}
	case *types.UnionType:
		out := make([]types.Type, len(p.Types))
		for i, m := range p.Types {
			out[i] = c.awaited(m)
		}
		return types.NewUnionType(out...)
	}
	return t
}

// --- Assignment ---

func (c *Checker) typeOfAssign(e *ast.AssignExpr) (types.Type, error) {
	if id, ok := e.Left.(*ast.IdentPat); ok {
		if l, found := c.findVar(id.Name); found && l.declaring {
			if !l.deferred && !c.ctx.InCondTest {
				return nil, fail(errors.ReferencedInInit, id.Span(), "'%s' is used before being assigned", id.Name)
			}
			if _, err := c.typeOf(e.Right, RValue); err != nil {
				return nil, err
			}
			return types.Any, nil
		}
	}

	right, err := c.typeOf(e.Right, RValue)
	if err != nil {
		return nil, err
	}
	target, err := c.assignTarget(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == "=" {
		if target != nil && !types.Assignable(c, target, right) {
			c.errorf(errors.AssignFailed, e.Span(), "type '%s' is not assignable to type '%s'", right, target)
		}
		return right, nil
	}

	op := strings.TrimSuffix(e.Op, "=")
	left := orAny(target)
	result, err := c.binaryTypes(op, left, right, e.Span(), e.Left.Span(), e.Right.Span())
	if err != nil {
		return nil, err
	}
	switch op {
	case "&&", "||", "??":
		return result, nil
	}
	if target != nil && !types.Assignable(c, target, result) {
		c.errorf(errors.AssignFailed, e.Span(), "type '%s' is not assignable to type '%s'", result, target)
	}
	return result, nil
}

// assignTarget validates an assignment target and returns its declared
// type, or nil for destructuring targets.
func (c *Checker) assignTarget(p ast.Pattern) (types.Type, error) {
	switch p := p.(type) {
	case *ast.IdentPat:
		return c.typeOfName(p.Name, p.Span(), LValue)
	case *ast.ExprPat:
		switch x := unparen(p.X).(type) {
		case *ast.Ident, *ast.MemberExpr:
			return c.typeOf(x, LValue)
		}
		c.errorf(errors.InvalidLValue, p.Span(), "the left-hand side of an assignment expression must be a variable or a property access")
		return nil, nil
	case *ast.ArrayPat:
		for _, e := range p.Elems {
			if e == nil {
				continue
			}
			if _, err := c.assignTarget(e); err != nil {
				return nil, err
			}
		}
	case *ast.ObjectPat:
		for _, prop := range p.Props {
			if _, err := c.assignTarget(prop.Value); err != nil {
				return nil, err
			}
		}
		if p.Rest != nil {
			if _, err := c.assignTarget(p.Rest); err != nil {
				return nil, err
			}
		}
	case *ast.AssignPat:
		if _, err := c.typeOf(p.Right, RValue); err != nil {
			return nil, err
		}
		return c.assignTarget(p.Left)
	case *ast.RestPat:
		return c.assignTarget(p.Arg)
	}
	return nil, nil
}

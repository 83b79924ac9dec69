package checker

import (
	"math"
	"strconv"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

// propRef describes the property side of a member access.
type propRef struct {
	key     types.Key
	literal bool // key is known: an identifier, a literal or a well-known symbol
	isNum   bool // key is a numeric literal
	num     float64
	index   types.Type // type of a computed key that is not a literal
	span    source.Span
}

func (p propRef) String() string {
	if p.literal {
		return p.key.String()
	}
	if p.index != nil {
		return "[" + p.index.String() + "]"
	}
	return "[?]"
}

// numeric reports whether the key selects by number.
func (p propRef) numeric() bool {
	if p.isNum {
		return true
	}
	if p.literal {
		return false
	}
	return p.index != nil && (types.IsNumberLike(p.index) || isNumericEnum(p.index))
}

func isNumericEnum(t types.Type) bool {
	et, ok := t.(*types.EnumType)
	return ok && et.IsNumeric()
}

func isFatal(err error) bool {
	te, ok := err.(*errors.TypeError)
	return !ok || te.Fatal()
}

// typeOfMember infers `obj.prop` and `obj[expr]`.
func (c *Checker) typeOfMember(e *ast.MemberExpr, mode Mode) (types.Type, error) {
	var obj types.Type
	if _, ok := e.Obj.(*ast.SuperExpr); ok {
		obj = c.superType()
		e.Obj.SetComputedType(obj)
	} else {
		t, err := c.typeOf(e.Obj, RValue)
		if err != nil {
			return nil, err
		}
		obj = t
	}
	if e.Optional {
		obj = types.RemoveNullUndefined(c.expandQuiet(obj))
	}

	p, err := c.propRefOf(e)
	if err != nil {
		return nil, err
	}
	t, err := c.accessProperty(obj, p, mode)
	if err != nil {
		if isFatal(err) {
			return nil, err
		}
		c.record(err)
		if code, _ := codeOf(err); code != errors.ReadOnly || t == nil {
			t = types.Any
		}
	}
	if e.Optional {
		t = types.NewUnionType(t, types.Undefined)
	}
	return t, nil
}

// propRefOf evaluates the property side of a member expression.
func (c *Checker) propRefOf(e *ast.MemberExpr) (propRef, error) {
	if !e.Computed {
		id, ok := e.Prop.(*ast.Ident)
		if !ok {
			return propRef{}, fail(errors.Unsupported, e.Prop.Span(), "unsupported property name")
		}
		return propRef{key: types.NameKey(id.Name), literal: true, span: id.Span()}, nil
	}
	if key, ok := wellKnownSymbol(e.Prop); ok {
		c.typeOf(e.Prop, RValue)
		return propRef{key: key, literal: true, span: e.Prop.Span()}, nil
	}
	t, err := c.typeOf(e.Prop, RValue)
	if err != nil {
		return propRef{}, err
	}
	return c.refFromIndex(t, e.Prop.Span()), nil
}

// wellKnownSymbol recognizes `Symbol.iterator` style keys.
func wellKnownSymbol(e ast.Expr) (types.Key, bool) {
	me, ok := unparen(e).(*ast.MemberExpr)
	if !ok || me.Computed {
		return types.Key{}, false
	}
	obj, ok := me.Obj.(*ast.Ident)
	if !ok || obj.Name != "Symbol" {
		return types.Key{}, false
	}
	prop, ok := me.Prop.(*ast.Ident)
	if !ok {
		return types.Key{}, false
	}
	return types.Key{Name: "Symbol." + prop.Name, Computed: true}, true
}

// refFromIndex turns the type of a computed key into a propRef.
func (c *Checker) refFromIndex(t types.Type, at source.Span) propRef {
	switch k := c.expandQuiet(t).(type) {
	case *types.LiteralType:
		switch k.Kind {
		case types.LitString:
			return propRef{key: types.NameKey(k.Str), literal: true, span: at}
		case types.LitNumber:
			return propRef{key: types.NumberKey(k.Num), literal: true, isNum: true, num: k.Num, span: at}
		}
	case *types.EnumMemberType:
		if v, ok := c.EnumValue(k); ok {
			return c.refFromIndex(v, at)
		}
	}
	return propRef{index: t, span: at}
}

// superType is the type `super` refers to in the current class body.
func (c *Checker) superType() types.Type {
	switch t := c.thisType().(type) {
	case *types.InstanceType:
		if t.Class.Super == nil {
			break
		}
		if sc, ok := c.Expand(t.Class.Super).(*types.ClassType); ok {
			args := make([]types.Type, len(t.Class.SuperArgs))
			bindings := t.Bindings()
			for i, a := range t.Class.SuperArgs {
				args[i] = types.Substitute(a, bindings)
			}
			return &types.InstanceType{Class: sc, TypeArgs: args}
		}
	case *types.ClassType:
		if t.Super != nil {
			return c.Expand(t.Super)
		}
	}
	return types.Any
}

func noSuchProperty(p propRef, obj types.Type) error {
	return fail(errors.NoSuchProperty, p.span, "property '%s' does not exist on type '%s'", p, obj)
}

// accessProperty resolves a property of obj. Recoverable failures come
// back as an error alongside the best type available.
func (c *Checker) accessProperty(obj types.Type, p propRef, mode Mode) (types.Type, error) {
	exp, err := c.expandType(obj)
	if err != nil {
		return nil, err
	}
	switch o := exp.(type) {
	case *types.Primitive:
		return c.accessPrimitive(o, p, mode)

	case *types.LiteralType:
		if o.Kind == types.LitString && p.literal && p.key.Name == "length" {
			return types.NewNumberLiteral(float64(len([]rune(o.Str)))), nil
		}
		return c.accessPrimitive(o.Keyword(), p, mode)

	case *types.EnumType:
		return c.accessEnum(o, p, mode)

	case *types.EnumMemberType:
		if v, ok := c.EnumValue(o); ok {
			return c.accessProperty(v, p, mode)
		}
		return nil, noSuchProperty(p, o)

	case *types.ClassType:
		if t, found, err := c.lookupMember(o, types.Members(c, o), p, mode); found {
			return t, err
		}
		if p.literal && p.key.Name == "prototype" {
			return &types.InstanceType{Class: o}, nil
		}
		return c.accessBuiltin("Function", nil, o, p, mode)

	case *types.InstanceType:
		if t, found, err := c.lookupMember(o, types.Members(c, o), p, mode); found {
			return t, err
		}
		return c.accessBuiltin("Object", nil, o, p, mode)

	case *types.ArrayType:
		if p.numeric() {
			return o.ElementType, nil
		}
		if !p.literal {
			return types.Any, nil
		}
		return c.accessBuiltin("Array", []types.Type{o.ElementType}, o, p, mode)

	case *types.TupleType:
		return c.accessTuple(o, p, mode)

	case *types.ObjectType, *types.InterfaceType, *types.IntersectionType:
		if t, found, err := c.lookupMember(o, types.Members(c, o), p, mode); found {
			return t, err
		}
		if !p.literal {
			// no index signature: the read is untyped
			return types.Any, nil
		}
		return c.accessBuiltin("Object", nil, o, p, mode)

	case *types.FunctionType:
		return c.accessBuiltin("Function", nil, o, p, mode)

	case *types.UnionType:
		return c.accessUnion(o, p, mode)

	case *types.ModuleType:
		if p.literal {
			if t, ok := o.Exports.Vars[p.key.Name]; ok {
				return t, nil
			}
		}
		return nil, fail(errors.NoSuchProperty, p.span, "namespace '%s' has no exported member '%s'", o.Name, p)

	case *types.ThisType:
		this := c.thisType()
		if _, self := this.(*types.ThisType); self {
			return types.Any, nil
		}
		return c.accessProperty(this, p, mode)

	case *types.TypeParameterType:
		if o.Constraint != nil {
			return c.accessProperty(o.Constraint, p, mode)
		}
		return c.accessBuiltin("Object", nil, o, p, mode)

	case *types.OperatorType:
		if o.Op == "unique" {
			return c.accessPrimitive(types.Symbol, p, mode)
		}
		return c.accessPrimitive(types.String, p, mode)

	case *types.AliasType, *types.TypeRef:
		// an alias that refers to itself
		return types.Any, nil
	}
	return nil, noSuchProperty(p, exp)
}

func (c *Checker) accessPrimitive(o *types.Primitive, p propRef, mode Mode) (types.Type, error) {
	switch o {
	case types.Any:
		return types.Any, nil
	case types.Unknown:
		return nil, fail(errors.Unknown, p.span, "object is of type 'unknown'")
	case types.String:
		if p.numeric() {
			return types.String, nil
		}
		return c.accessBuiltin("String", nil, o, p, mode)
	case types.Number:
		return c.accessBuiltin("Number", nil, o, p, mode)
	case types.Boolean:
		return c.accessBuiltin("Boolean", nil, o, p, mode)
	case types.Symbol:
		return c.accessBuiltin("Symbol", nil, o, p, mode)
	case types.Object, types.BigInt:
		return c.accessBuiltin("Object", nil, o, p, mode)
	}
	return nil, noSuchProperty(p, o)
}

// accessBuiltin looks the property up on a built-in interface, then on
// Object.
func (c *Checker) accessBuiltin(name string, args []types.Type, obj types.Type, p propRef, mode Mode) (types.Type, error) {
	for _, n := range []string{name, "Object"} {
		iface := c.builtinInterface(n, args)
		if iface == nil {
			continue
		}
		if t, found, err := c.lookupMember(obj, types.Members(c, iface), p, mode); found {
			return t, err
		}
		args = nil
	}
	if !p.literal {
		return types.Any, nil
	}
	return nil, noSuchProperty(p, obj)
}

// builtinInterface returns a built-in interface, instantiated when args are
// given.
func (c *Checker) builtinInterface(name string, args []types.Type) *types.InterfaceType {
	b, ok := c.builtins.Type(name)
	if !ok {
		return nil
	}
	iface, ok := b.(*types.InterfaceType)
	if !ok {
		return nil
	}
	if ui := firstInterface(c.findType(name)); ui != nil {
		iface = mergedInterface(iface, ui)
	}
	if len(args) > 0 {
		return types.InstantiateInterface(iface, args)
	}
	return iface
}

// lookupMember finds p among members, then among index signatures.
func (c *Checker) lookupMember(obj types.Type, members []types.Member, p propRef, mode Mode) (types.Type, bool, error) {
	if p.literal {
		if m := types.FindMember(members, p.key); m != nil {
			t := types.MemberType(m)
			if mode == LValue && c.isReadonly(m) && !c.writableInCtor(obj) {
				return t, true, fail(errors.ReadOnly, p.span, "cannot assign to '%s' because it is a read-only property", p)
			}
			return t, true, nil
		}
	}
	if sig := c.indexSignatureFor(members, p); sig != nil {
		if mode == LValue && sig.Readonly {
			return sig.ValueType, true, fail(errors.ReadOnly, p.span, "index signature in type '%s' only permits reading", obj)
		}
		return sig.ValueType, true, nil
	}
	return nil, false, nil
}

func (c *Checker) isReadonly(m types.Member) bool {
	p, ok := m.(*types.Property)
	return ok && p.Readonly
}

// writableInCtor reports whether readonly members of obj may be assigned:
// only on this, only inside the constructor.
func (c *Checker) writableInCtor(obj types.Type) bool {
	if !c.ctx.InCtor {
		return false
	}
	this := c.thisType()
	return this != nil && this.Equals(obj)
}

// indexSignatureFor picks the index signature serving the key: number
// keys prefer a number signature, then fall back to a string one.
func (c *Checker) indexSignatureFor(members []types.Member, p propRef) *types.IndexSignature {
	var byString, byNumber, bySymbol *types.IndexSignature
	for _, m := range members {
		sig, ok := m.(*types.IndexSignature)
		if !ok || sig.Static {
			continue
		}
		switch c.expandQuiet(sig.KeyType) {
		case types.String:
			byString = sig
		case types.Number:
			byNumber = sig
		case types.Symbol:
			bySymbol = sig
		}
	}
	switch {
	case p.numeric() || (p.literal && isNumericName(p.key.Name)):
		if byNumber != nil {
			return byNumber
		}
		return byString
	case p.literal && p.key.Computed:
		return bySymbol
	case p.literal:
		return byString
	}
	idx := c.expandQuiet(p.index)
	switch {
	case types.IsStringLike(idx):
		return byString
	case idx == types.Symbol || types.IsUniqueSymbol(idx):
		return bySymbol
	case idx == types.Any:
		if byString != nil {
			return byString
		}
		return byNumber
	}
	return nil
}

func isNumericName(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && types.FormatNumber(n) == s
}

func (c *Checker) accessEnum(o *types.EnumType, p propRef, mode Mode) (types.Type, error) {
	if o.Const && !p.literal {
		return types.Any, fail(errors.ConstEnumNonIndexAccess, p.span, "a const enum member can only be accessed using a string literal")
	}
	if o.Const && mode == LValue {
		return types.Any, fail(errors.InvalidLValue, p.span, "cannot assign to a member of const enum '%s'", o.Name)
	}
	if p.numeric() {
		// reverse mapping from value to name
		return types.String, nil
	}
	if !p.literal {
		return types.Any, nil
	}
	member, ok := o.Member(p.key.Name)
	if !ok {
		return c.accessBuiltin("Object", nil, o, p, mode)
	}
	if mode == LValue {
		return member.Value, fail(errors.ReadOnly, p.span, "cannot assign to '%s' because it is a read-only property", p)
	}
	return member.Value, nil
}

func (c *Checker) accessTuple(o *types.TupleType, p propRef, mode Mode) (types.Type, error) {
	n := len(o.ElementTypes)
	if p.isNum {
		i := int(p.num)
		if p.num != math.Trunc(p.num) || i < 0 || i >= n {
			return types.Any, fail(errors.TupleIndexError, p.span,
				"tuple type '%s' of length %d has no element at index %s (index=%s, len=%d)",
				o, n, types.FormatNumber(p.num), types.FormatNumber(p.num), n)
		}
		return o.ElementTypes[i], nil
	}
	if p.numeric() || !p.literal {
		if n == 0 {
			return types.Any, nil
		}
		return o.ElementUnion(), nil
	}
	if p.key.Name == "length" && mode == RValue {
		return types.NewNumberLiteral(float64(n)), nil
	}
	return c.accessBuiltin("Array", []types.Type{o.ElementUnion()}, o, p, mode)
}

// accessUnion reads require every member to have the property; writes need
// at least one member accepting it and none refusing it as read-only.
func (c *Checker) accessUnion(o *types.UnionType, p propRef, mode Mode) (types.Type, error) {
	var results []types.Type
	var errs []*errors.TypeError
	for _, m := range o.Types {
		t, err := c.accessProperty(m, p, mode)
		if err != nil {
			te, ok := err.(*errors.TypeError)
			if !ok {
				return nil, err
			}
			if mode == LValue && te.Code == errors.ReadOnly {
				return t, te
			}
			errs = append(errs, te)
			continue
		}
		results = append(results, t)
	}
	if mode == RValue && len(errs) > 0 {
		return nil, errors.Aggregate(errors.UnionError, p.span, errs)
	}
	if len(results) == 0 {
		return nil, errors.Aggregate(errors.UnionError, p.span, errs)
	}
	return types.NewUnionType(results...), nil
}

package checker

import (
	"strconv"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

// --- Syntax to types ---

// typeFromNode converts an annotation into a type. References stay lazy
// until expandType resolves them against the scope.
func (c *Checker) typeFromNode(n ast.TypeNode) types.Type {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.KeywordType:
		if p, ok := types.Keyword(n.Name); ok {
			return p
		}
		c.errorf(errors.NameNotFound, n.Span(), "cannot find type '%s'", n.Name)
		return types.Any
	case *ast.LitType:
		return c.literalTypeNode(n)
	case *ast.TypeRef:
		ref := &types.TypeRef{Name: []string(n.Name), Span: n.Span()}
		for _, a := range n.TypeArgs {
			ref.TypeArgs = append(ref.TypeArgs, orAny(c.typeFromNode(a)))
		}
		return ref
	case *ast.ArrayType:
		return types.NewArrayType(orAny(c.typeFromNode(n.Elem)))
	case *ast.TupleType:
		elems := make([]types.Type, 0, len(n.Elems))
		for _, e := range n.Elems {
			elems = append(elems, c.tupleElement(e))
		}
		return types.NewTupleType(elems...)
	case *ast.OptionalType:
		return types.NewUnionType(orAny(c.typeFromNode(n.Type)), types.Undefined)
	case *ast.RestType:
		return c.tupleElement(n)
	case *ast.UnionType:
		ts := make([]types.Type, len(n.Types))
		for i, t := range n.Types {
			ts[i] = orAny(c.typeFromNode(t))
		}
		return types.NewUnionType(ts...)
	case *ast.IntersectionType:
		ts := make([]types.Type, len(n.Types))
		for i, t := range n.Types {
			ts[i] = orAny(c.typeFromNode(t))
		}
		return types.NewIntersectionType(ts...)
	case *ast.FnType:
		fn := c.signature(n.TypeParams, n.Params, n.Ret, false)
		if fn.ReturnType == nil {
			fn.ReturnType = types.Any
		}
		if n.Constructor {
			return &types.ObjectType{Members: []types.Member{&types.ConstructSignature{Fn: fn}}}
		}
		return fn
	case *ast.TypeLit:
		return &types.ObjectType{Members: c.typeMembers(n.Members)}
	case *ast.TypeQuery:
		return &types.TypeQuery{Name: []string(n.Name), Span: n.Span()}
	case *ast.ParenType:
		return c.typeFromNode(n.Type)
	case *ast.ThisType:
		return types.This
	case *ast.TypeOperator:
		switch n.Op {
		case "unique":
			return types.UniqueSymbol()
		case "readonly":
			return c.typeFromNode(n.Type)
		}
		return &types.OperatorType{Op: n.Op, Type: orAny(c.typeFromNode(n.Type))}
	case *ast.UnsupportedType:
		c.errorf(errors.Unsupported, n.Span(), "%s types are not supported", n.Kind)
		return types.Any
	}
	c.errorf(errors.Unsupported, n.Span(), "unsupported type syntax %T", n)
	return types.Any
}

func (c *Checker) tupleElement(n ast.TypeNode) types.Type {
	if r, ok := n.(*ast.RestType); ok {
		t := orAny(c.typeFromNode(r.Type))
		if arr, ok := t.(*types.ArrayType); ok {
			return arr.ElementType
		}
		return t
	}
	return orAny(c.typeFromNode(n))
}

func (c *Checker) literalTypeNode(n *ast.LitType) types.Type {
	switch v := n.Value.(type) {
	case *ast.StrLit:
		return types.NewStringLiteral(v.Value)
	case *ast.NumLit:
		return types.NewNumberLiteral(v.Value)
	case *ast.BoolLit:
		return types.NewBooleanLiteral(v.Value)
	case *ast.BigIntLit:
		return types.NewBigIntLiteral(trimBigInt(v.Raw))
	case *ast.TemplateLit:
		if len(v.Exprs) == 0 && len(v.Quasis) == 1 {
			return types.NewStringLiteral(v.Quasis[0])
		}
		return types.String
	case *ast.NullLit:
		return types.Null
	}
	c.errorf(errors.Unsupported, n.Span(), "unsupported literal type")
	return types.Any
}

func trimBigInt(raw string) string {
	if n := len(raw); n > 0 && raw[n-1] == 'n' {
		return raw[:n-1]
	}
	return raw
}

// typeParams converts type parameter declarations. Constraints and
// defaults may mention the parameters themselves.
func (c *Checker) typeParams(decls []*ast.TypeParam) ([]*types.TypeParameterType, map[string]types.Type) {
	if len(decls) == 0 {
		return nil, nil
	}
	tps := make([]*types.TypeParameterType, len(decls))
	m := make(map[string]types.Type, len(decls))
	for i, d := range decls {
		tps[i] = &types.TypeParameterType{Name: d.Name}
		m[d.Name] = tps[i]
	}
	for i, d := range decls {
		tps[i].Constraint = types.Substitute(c.typeFromNode(d.Constraint), m)
		tps[i].Default = types.Substitute(c.typeFromNode(d.Default), m)
	}
	return tps, m
}

// signature builds a function type from its syntax. A nil return type is
// left nil for the caller to infer. With report set, parameter list
// errors are diagnosed.
func (c *Checker) signature(tpDecls []*ast.TypeParam, params []*ast.Param, ret ast.TypeNode, report bool) *types.FunctionType {
	tps, m := c.typeParams(tpDecls)
	fn := &types.FunctionType{ReturnType: c.typeFromNode(ret)}
	for i, p := range params {
		fn.Params = append(fn.Params, c.param(i, p))
	}
	if m != nil {
		fn = types.SubstituteFunction(fn, m)
	}
	fn.TypeParams = tps

	if report {
		seenOptional := false
		for i, p := range fn.Params {
			switch {
			case p.Rest:
				if ast.TypeAnn(params[i].Pat) != nil {
					c.checkRestType(p.Type, params[i].Span())
				}
			case p.Optional:
				seenOptional = true
			case seenOptional:
				c.errorf(errors.TS1016, params[i].Span(), "a required parameter cannot follow an optional parameter")
			}
		}
	}
	return fn
}

func (c *Checker) param(i int, p *ast.Param) types.Param {
	out := types.Param{Name: "arg" + strconv.Itoa(i)}
	ann := ast.TypeAnn(p.Pat)
	switch pat := p.Pat.(type) {
	case *ast.IdentPat:
		out.Name = pat.Name
		out.Optional = pat.Optional
	case *ast.AssignPat:
		if id, ok := pat.Left.(*ast.IdentPat); ok {
			out.Name = id.Name
		}
		out.Optional = true
		if ann == nil {
			out.Type = syntacticType(pat.Right)
		}
	case *ast.RestPat:
		if id, ok := pat.Arg.(*ast.IdentPat); ok {
			out.Name = id.Name
		}
		out.Rest = true
		if ann == nil {
			out.Type = types.NewArrayType(types.Any)
		}
	}
	if ann != nil {
		out.Type = orAny(c.typeFromNode(ann))
	}
	if out.Type == nil {
		out.Type = types.Any
	}
	return out
}

// syntacticType guesses the type of a parameter default without
// evaluating it.
func syntacticType(e ast.Expr) types.Type {
	switch e := e.(type) {
	case *ast.StrLit, *ast.TemplateLit:
		return types.String
	case *ast.NumLit:
		return types.Number
	case *ast.BoolLit:
		return types.Boolean
	case *ast.BigIntLit:
		return types.BigInt
	case *ast.ArrayLit:
		if len(e.Elems) == 0 {
			return types.NewArrayType(types.Any)
		}
	}
	return types.Any
}

// typeMembers converts interface and type literal members.
func (c *Checker) typeMembers(ms []ast.TypeMember) []types.Member {
	out := make([]types.Member, 0, len(ms))
	for _, m := range ms {
		switch m := m.(type) {
		case *ast.PropSig:
			out = append(out, &types.Property{
				Key:      c.memberKey(m.Key),
				Type:     orAny(c.typeFromNode(m.Type)),
				Optional: m.Optional,
				Readonly: m.Readonly,
			})
		case *ast.MethodSig:
			fn := c.signature(m.TypeParams, m.Params, m.Ret, false)
			if fn.ReturnType == nil {
				fn.ReturnType = types.Any
			}
			out = append(out, &types.Method{Key: c.memberKey(m.Key), Fn: fn, Optional: m.Optional})
		case *ast.CallSig:
			fn := c.signature(m.TypeParams, m.Params, m.Ret, false)
			if fn.ReturnType == nil {
				fn.ReturnType = types.Any
			}
			out = append(out, &types.CallSignature{Fn: fn})
		case *ast.ConstructSig:
			fn := c.signature(m.TypeParams, m.Params, m.Ret, false)
			if fn.ReturnType == nil {
				fn.ReturnType = types.Any
			}
			out = append(out, &types.ConstructSignature{Fn: fn})
		case *ast.IndexSig:
			out = append(out, c.indexSignature(m))
		}
	}
	return out
}

func (c *Checker) indexSignature(m *ast.IndexSig) *types.IndexSignature {
	key := orAny(c.typeFromNode(m.KeyType))
	return &types.IndexSignature{KeyType: key, ValueType: orAny(c.typeFromNode(m.Type)), Readonly: m.Readonly, Static: m.Static}
}

// memberKey is the key of a property name known without evaluation.
// Computed names that are not literals get a key unique to their
// position.
func (c *Checker) memberKey(p *ast.PropName) types.Key {
	switch p.Kind {
	case ast.PropNumber:
		return types.NumberKey(p.Num)
	case ast.PropPrivate:
		return types.NameKey("#" + p.Name)
	case ast.PropComputed:
		switch e := unparen(p.Expr).(type) {
		case *ast.StrLit:
			return types.NameKey(e.Value)
		case *ast.NumLit:
			return types.NumberKey(e.Value)
		case *ast.MemberExpr:
			if id, ok := e.Obj.(*ast.Ident); ok && id.Name == "Symbol" && !e.Computed {
				if prop, ok := e.Prop.(*ast.Ident); ok {
					return types.Key{Name: "Symbol." + prop.Name, Computed: true}
				}
			}
		}
		return types.Key{Name: "computed@" + strconv.Itoa(p.Span().Lo), Computed: true}
	}
	return types.NameKey(p.Name)
}

func unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// --- Expansion ---

// expandType resolves references, queries and aliases until the outermost
// layer of t is structural. Nested members stay lazy. Expanding an already
// expanded type returns an equal type.
func (c *Checker) expandType(t types.Type) (types.Type, error) {
	switch t := t.(type) {
	case nil:
		return types.Any, nil
	case *types.TypeRef:
		return c.resolveRef(t)
	case *types.TypeQuery:
		return c.resolveQuery(t)
	case *types.AliasType:
		return c.expandAlias(t, nil)
	case *types.UnionType:
		ts, err := c.expandList(t.Types)
		if err != nil {
			return nil, err
		}
		return types.NewUnionType(ts...), nil
	case *types.IntersectionType:
		ts, err := c.expandList(t.Types)
		if err != nil {
			return nil, err
		}
		return types.NewIntersectionType(ts...), nil
	case *types.ArrayType:
		elem, err := c.expandType(t.ElementType)
		if err != nil {
			return nil, err
		}
		return types.NewArrayType(elem), nil
	case *types.TupleType:
		ts, err := c.expandList(t.ElementTypes)
		if err != nil {
			return nil, err
		}
		return types.NewTupleType(ts...), nil
	case *types.FunctionType:
		if t.ReturnType == nil {
			return t, nil
		}
		ret, err := c.expandType(t.ReturnType)
		if err != nil {
			return nil, err
		}
		if ret == t.ReturnType {
			return t, nil
		}
		cp := *t
		cp.ReturnType = ret
		return &cp, nil
	case *types.OperatorType:
		if t.Op == "keyof" {
			return c.keyOf(t.Type)
		}
	}
	return t, nil
}

func (c *Checker) expandList(ts []types.Type) ([]types.Type, error) {
	out := make([]types.Type, len(ts))
	for i, t := range ts {
		e, err := c.expandType(t)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// expandQuiet expands t, falling back to t itself on failure.
func (c *Checker) expandQuiet(t types.Type) types.Type {
	e, err := c.expandType(t)
	if err != nil || e == nil {
		return orAny(t)
	}
	return e
}

func (c *Checker) expandAlias(a *types.AliasType, args []types.Type) (types.Type, error) {
	if c.expanding == nil {
		c.expanding = map[*types.AliasType]bool{}
	}
	if c.expanding[a] {
		// recursive alias: leave the inner occurrence as a reference
		return a, nil
	}
	c.expanding[a] = true
	defer delete(c.expanding, a)

	target := a.Target
	if len(a.TypeParams) > 0 {
		target = types.Substitute(target, types.Bind(a.TypeParams, args))
	}
	return c.expandType(target)
}

// keyOf is the union of the literal keys of an object-like type.
func (c *Checker) keyOf(t types.Type) (types.Type, error) {
	e, err := c.expandType(t)
	if err != nil {
		return nil, err
	}
	if e == types.Any {
		return types.NewUnionType(types.String, types.Number, types.Symbol), nil
	}
	var keys []types.Type
	for _, m := range types.Members(c, e) {
		switch m := m.(type) {
		case *types.IndexSignature:
			keys = append(keys, m.KeyType)
		default:
			if k, ok := types.MemberKey(m); ok && !k.Computed {
				keys = append(keys, types.NewStringLiteral(k.Name))
			}
		}
	}
	return types.NewUnionType(keys...), nil
}

// resolveRef resolves a named reference. Type parameters in scope shadow
// built-in declarations; otherwise built-ins are searched first.
func (c *Checker) resolveRef(ref *types.TypeRef) (types.Type, error) {
	if len(ref.Name) == 0 {
		return types.Any, nil
	}
	if len(ref.Name) > 1 {
		return c.resolveQualified(ref)
	}
	name := ref.Name[0]
	decls := c.findType(name)
	if len(decls) > 0 {
		if tp, ok := decls[0].(*types.TypeParameterType); ok {
			return c.instantiate(ref, tp)
		}
	}
	if (name == "Array" || name == "ReadonlyArray") && len(ref.TypeArgs) == 1 && len(decls) == 0 {
		// Array<T> is T[]
		elem, err := c.expandType(ref.TypeArgs[0])
		if err != nil {
			return nil, err
		}
		return types.NewArrayType(elem), nil
	}
	if b, ok := c.builtins.Type(name); ok {
		if bi, ok := b.(*types.InterfaceType); ok {
			if ui := firstInterface(decls); ui != nil {
				b = mergedInterface(bi, ui)
			}
		}
		return c.instantiate(ref, b)
	}
	if len(decls) == 0 {
		return nil, fail(errors.NameNotFound, ref.Span, "cannot find name '%s'", name)
	}
	return c.instantiate(ref, typeMeaning(decls))
}

// typeMeaning picks the declaration that gives a merged name its type
// meaning: a class over an interface merged into it, anything over a
// namespace.
func typeMeaning(decls []types.Type) types.Type {
	var best types.Type
	for _, d := range decls {
		switch d.(type) {
		case *types.ClassType:
			return d
		case *types.ModuleType:
			if best == nil {
				best = d
			}
		default:
			if best == nil {
				best = d
			} else if _, ns := best.(*types.ModuleType); ns {
				best = d
			}
		}
	}
	return best
}

func firstInterface(decls []types.Type) *types.InterfaceType {
	for _, d := range decls {
		if it, ok := d.(*types.InterfaceType); ok {
			return it
		}
	}
	return nil
}

// mergedInterface augments a built-in interface with a user declaration of
// the same name.
func mergedInterface(builtin, user *types.InterfaceType) *types.InterfaceType {
	members := make([]types.Member, 0, len(builtin.Members)+len(user.Members))
	members = append(members, user.Members...)
	members = append(members, builtin.Members...)
	return &types.InterfaceType{
		Name:       builtin.Name,
		TypeParams: builtin.TypeParams,
		Members:    members,
		Extends:    append(append([]types.Type{}, builtin.Extends...), user.Extends...),
	}
}

// instantiate applies the reference's type arguments to a declaration.
func (c *Checker) instantiate(ref *types.TypeRef, decl types.Type) (types.Type, error) {
	args, err := c.expandList(ref.TypeArgs)
	if err != nil {
		return nil, err
	}
	notGeneric := func() error {
		return fail(errors.NotGeneric, ref.Span, "type '%s' is not generic", ref.QualifiedName())
	}
	switch d := decl.(type) {
	case *types.InterfaceType:
		if len(args) == 0 {
			return d, nil
		}
		if len(d.TypeParams) == 0 {
			return nil, notGeneric()
		}
		return types.InstantiateInterface(d, args), nil
	case *types.ClassType:
		if len(args) > 0 && len(d.TypeParams) == 0 {
			return nil, notGeneric()
		}
		return &types.InstanceType{Class: d, TypeArgs: args}, nil
	case *types.EnumType, *types.TypeParameterType:
		if len(args) > 0 {
			return nil, notGeneric()
		}
		return d, nil
	case *types.AliasType:
		if len(args) > 0 && len(d.TypeParams) == 0 {
			return nil, notGeneric()
		}
		return c.expandAlias(d, args)
	case *types.ModuleType:
		return nil, fail(errors.NameNotFound, ref.Span, "cannot use namespace '%s' as a type", ref.QualifiedName())
	}
	if len(args) > 0 {
		return nil, notGeneric()
	}
	return c.expandType(decl)
}

// resolveQualified resolves `Enum.Member` and `Namespace.Type`.
func (c *Checker) resolveQualified(ref *types.TypeRef) (types.Type, error) {
	head := ref.Name[0]
	if len(ref.Name) == 2 {
		if et := c.findEnum(head); et != nil {
			if _, ok := et.Member(ref.Name[1]); ok {
				return &types.EnumMemberType{Enum: et.Name, Name: ref.Name[1]}, nil
			}
			return nil, fail(errors.NameNotFound, ref.Span, "enum '%s' has no member '%s'", head, ref.Name[1])
		}
	}
	mod := c.findNamespace(head)
	for _, seg := range ref.Name[1 : len(ref.Name)-1] {
		if mod == nil {
			break
		}
		next, _ := mod.Exports.Vars[seg].(*types.ModuleType)
		mod = next
	}
	if mod != nil {
		last := ref.Name[len(ref.Name)-1]
		if decls := mod.Exports.Types[last]; len(decls) > 0 {
			return c.instantiate(ref, typeMeaning(decls))
		}
	}
	return nil, fail(errors.NameNotFound, ref.Span, "cannot find name '%s'", ref.QualifiedName())
}

// resolveQuery types `typeof a.b.c` by value lookup.
func (c *Checker) resolveQuery(q *types.TypeQuery) (types.Type, error) {
	t, err := c.typeOfEntity(q.Name, q.Span)
	if err != nil {
		return nil, err
	}
	return c.expandType(t)
}

func (c *Checker) typeOfEntity(name []string, at source.Span) (types.Type, error) {
	if len(name) == 0 {
		return types.Any, nil
	}
	t, err := c.typeOfName(name[0], at, RValue)
	if err != nil {
		return nil, err
	}
	for _, seg := range name[1:] {
		t, err = c.accessProperty(t, propRef{key: types.NameKey(seg), literal: true, span: at}, RValue)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// findEnum finds an enum declaration visible by name.
func (c *Checker) findEnum(name string) *types.EnumType {
	for _, d := range c.findType(name) {
		if et, ok := d.(*types.EnumType); ok {
			return et
		}
	}
	if t, ok := c.findVarType(name); ok {
		if et, ok := t.(*types.EnumType); ok {
			return et
		}
	}
	return nil
}

// findNamespace finds a namespace or module-valued import by name.
func (c *Checker) findNamespace(name string) *types.ModuleType {
	if t, ok := c.imports[name]; ok {
		if mt, ok := t.(*types.ModuleType); ok {
			return mt
		}
	}
	if t, ok := c.findVarType(name); ok {
		if mt, ok := t.(*types.ModuleType); ok {
			return mt
		}
	}
	for _, d := range c.findType(name) {
		if mt, ok := d.(*types.ModuleType); ok {
			return mt
		}
	}
	return nil
}

// --- types.Resolver ---

// Expand implements types.Resolver. Unresolvable references are returned
// unchanged.
func (c *Checker) Expand(t types.Type) types.Type {
	e, err := c.expandType(t)
	if err != nil || e == nil {
		return t
	}
	return e
}

// EnumValue implements types.Resolver.
func (c *Checker) EnumValue(m *types.EnumMemberType) (*types.LiteralType, bool) {
	et := c.findEnum(m.Enum)
	if et == nil {
		return nil, false
	}
	member, ok := et.Member(m.Name)
	if !ok {
		return nil, false
	}
	return member.Value, true
}

var _ types.Resolver = (*Checker)(nil)

package checker

import (
	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

// canRedeclare lists the binding pairs that may share a name in one scope.
func canRedeclare(old, new BindingKind) bool {
	varLike := func(k BindingKind) bool { return k == BindVar || k == BindParam }
	switch {
	case varLike(old) && new == BindVar:
		return true
	case old == BindFunction && new == BindFunction:
		return true
	case old == BindEnum && new == BindEnum:
		return true
	case old == BindNamespace || new == BindNamespace:
		other := old
		if old == BindNamespace {
			other = new
		}
		return other == BindNamespace || other == BindFunction || other == BindClass || other == BindEnum
	}
	return false
}

// varScope is the scope `var` declarations bind in.
func (c *Checker) varScope() *Scope {
	for s := c.scope; s != nil; s = s.parent {
		if s.kind != BlockScope {
			return s
		}
	}
	return c.scope
}

// declareVar binds name in the current scope (the enclosing function scope
// for var). A hoisted placeholder for the same name is completed instead of
// redeclared.
func (c *Checker) declareVar(kind BindingKind, name string, t types.Type, at source.Span) *VarInfo {
	s := c.scope
	if kind == BindVar {
		s = c.varScope()
	}
	if existing, ok := s.vars[name]; ok {
		switch {
		case existing.hoisted:
			existing.hoisted = false
			existing.Kind = kind
			existing.Type = t
			existing.Initialized = true
			return existing
		case canRedeclare(existing.Kind, kind):
			if existing.Type == nil || existing.Type == types.Any || existing.Kind == BindNamespace {
				existing.Type = t
			}
			existing.Initialized = true
			return existing
		}
		c.errorf(errors.DuplicateDeclaration, at, "cannot redeclare '%s'", name)
		return existing
	}
	info := &VarInfo{Kind: kind, Type: t, Initialized: true}
	s.vars[name] = info
	return info
}

// hoistVar declares a placeholder that the declaration later completes.
func (c *Checker) hoistVar(kind BindingKind, name string, t types.Type, initialized bool) *VarInfo {
	s := c.scope
	if kind == BindVar {
		s = c.varScope()
	}
	if existing, ok := s.vars[name]; ok {
		return existing
	}
	info := &VarInfo{Kind: kind, Type: t, Initialized: initialized, hoisted: true}
	s.vars[name] = info
	return info
}

// isTypeMeaning reports whether a declaration names a type (as opposed to a
// namespace, which only contributes a value and qualified names).
func isTypeMeaning(t types.Type) bool {
	_, ns := t.(*types.ModuleType)
	return !ns
}

// registerType adds a type declaration to the current scope. Interfaces,
// namespaces and enums merge with an earlier declaration of the same kind;
// the merged declaration is returned.
func (c *Checker) registerType(name string, t types.Type, at source.Span) types.Type {
	existing := c.scope.types[name]
	for _, e := range existing {
		if e == t {
			return e
		}
		switch e := e.(type) {
		case *types.InterfaceType:
			if it, ok := t.(*types.InterfaceType); ok {
				e.Members = append(e.Members, it.Members...)
				e.Extends = append(e.Extends, it.Extends...)
				if len(e.TypeParams) == 0 {
					e.TypeParams = it.TypeParams
				}
				return e
			}
		case *types.ModuleType:
			if mt, ok := t.(*types.ModuleType); ok {
				for k, v := range mt.Exports.Vars {
					e.Exports.Vars[k] = v
				}
				for k, v := range mt.Exports.Types {
					e.Exports.Types[k] = append(e.Exports.Types[k], v...)
				}
				return e
			}
		case *types.EnumType:
			if et, ok := t.(*types.EnumType); ok {
				e.Members = append(e.Members, et.Members...)
				return e
			}
		}
		if conflictingTypes(e, t) {
			c.errorf(errors.DuplicateDeclaration, at, "duplicate identifier '%s'", name)
			return e
		}
	}
	c.scope.types[name] = append(existing, t)
	return t
}

func conflictingTypes(a, b types.Type) bool {
	if !isTypeMeaning(a) || !isTypeMeaning(b) {
		return false
	}
	// a class merges with an interface of the same name
	_, ac := a.(*types.ClassType)
	_, bc := b.(*types.ClassType)
	_, ai := a.(*types.InterfaceType)
	_, bi := b.(*types.InterfaceType)
	if (ac && bi) || (ai && bc) {
		return false
	}
	return true
}

// declareVars binds every name of a pattern. t is the type of the value
// being destructured.
func (c *Checker) declareVars(kind BindingKind, pat ast.Pattern, t types.Type) {
	t = orAny(t)
	switch p := pat.(type) {
	case *ast.IdentPat:
		c.declareVar(kind, p.Name, t, p.Span())

	case *ast.AssignPat:
		c.checkPatternDefault(p)
		def := c.anyOnError(c.typeOf(p.Right, RValue))
		if t != types.Any {
			t = types.NewUnionType(types.RemoveNullUndefined(t), types.Widen(def))
		}
		c.declareVars(kind, p.Left, t)

	case *ast.ArrayPat:
		arr := c.expandQuiet(t)
		for i, elem := range p.Elems {
			if elem == nil {
				continue
			}
			if rest, ok := elem.(*ast.RestPat); ok {
				c.checkRestAnnotation(rest)
				c.declareVars(kind, rest.Arg, restOf(arr, i))
				continue
			}
			c.declareVars(kind, elem, c.elementAt(arr, i, elem.Span()))
		}

	case *ast.ObjectPat:
		obj := c.expandQuiet(t)
		used := map[types.Key]bool{}
		for _, prop := range p.Props {
			key := types.NameKey(prop.Key)
			used[key] = true
			pt := types.Type(types.Any)
			if obj != types.Any {
				pt = c.anyOnError(c.accessProperty(obj, propRef{key: key, literal: true, span: prop.Span()}, RValue))
			}
			c.declareVars(kind, prop.Value, pt)
		}
		if p.Rest != nil {
			c.declareVars(kind, p.Rest.Arg, c.restObject(obj, used))
		}

	case *ast.RestPat:
		c.checkRestAnnotation(p)
		c.declareVars(kind, p.Arg, t)

	case *ast.ExprPat:
		c.errorf(errors.Unsupported, p.Span(), "expression is not a binding pattern")
	}
}

// elementAt is the type destructured from position i of an array-like.
func (c *Checker) elementAt(t types.Type, i int, at source.Span) types.Type {
	switch t := t.(type) {
	case *types.TupleType:
		if i < len(t.ElementTypes) {
			return t.ElementTypes[i]
		}
		c.errorf(errors.TupleIndexError, at, "tuple type of length %d has no element at index %d (index=%d, len=%d)",
			len(t.ElementTypes), i, i, len(t.ElementTypes))
		return types.Any
	case *types.ArrayType:
		return t.ElementType
	}
	if types.IsStringLike(t) {
		return types.String
	}
	return types.Any
}

// restOf is the type of `...rest` starting at position i.
func restOf(t types.Type, i int) types.Type {
	switch t := t.(type) {
	case *types.TupleType:
		if i >= len(t.ElementTypes) {
			return types.NewTupleType()
		}
		return types.NewTupleType(t.ElementTypes[i:]...)
	case *types.ArrayType:
		return t
	}
	return types.NewArrayType(types.Any)
}

// restObject is the type of `...rest` in an object pattern.
func (c *Checker) restObject(t types.Type, used map[types.Key]bool) types.Type {
	if !types.IsObjectLike(t) {
		return types.Any
	}
	out := types.NewObjectType()
	for _, m := range types.Members(c, t) {
		if k, ok := types.MemberKey(m); ok && used[k] {
			continue
		}
		if p, ok := m.(*types.Property); ok && !p.Static {
			out.Members = append(out.Members, m)
		}
	}
	return out
}

// checkRestAnnotation reports a rest element annotated with a non-array type.
func (c *Checker) checkRestAnnotation(p *ast.RestPat) {
	if p.Type == nil {
		return
	}
	c.checkRestType(c.typeFromNode(p.Type), p.Span())
}

func (c *Checker) checkRestType(t types.Type, at source.Span) {
	exp := c.expandQuiet(t)
	switch exp := exp.(type) {
	case *types.ArrayType, *types.TupleType:
		return
	case *types.InterfaceType:
		if exp.Name == "Array" || exp.Name == "ReadonlyArray" {
			return
		}
	case *types.TypeParameterType:
		return
	case *types.Primitive:
		if exp == types.Any {
			return
		}
	}
	c.errorf(errors.TS2370, at, "a rest parameter must be of an array type, got '%s'", exp)
}

// checkPatternDefault reports object literal defaults naming keys that
// the object pattern does not bind.
func (c *Checker) checkPatternDefault(p *ast.AssignPat) {
	pat, ok := p.Left.(*ast.ObjectPat)
	if !ok || pat.Rest != nil {
		return
	}
	lit, ok := p.Right.(*ast.ObjectLit)
	if !ok {
		return
	}
	bound := map[string]bool{}
	for _, prop := range pat.Props {
		bound[prop.Key] = true
	}
	for _, prop := range lit.Props {
		var name string
		switch prop := prop.(type) {
		case *ast.KeyValueProp:
			if prop.Key.Kind == ast.PropComputed {
				continue
			}
			name = prop.Key.Name
			if prop.Key.Kind == ast.PropNumber {
				name = types.FormatNumber(prop.Key.Num)
			}
		case *ast.ShorthandProp:
			name = prop.Name.Name
		default:
			continue
		}
		if !bound[name] {
			c.errorf(errors.TS2353, prop.Span(), "object literal may only specify known properties, and '%s' does not exist in the pattern", name)
		}
	}
}

package types

// TypeParameterType is a type parameter placeholder bound by a generic
// function, interface, class or alias.
type TypeParameterType struct {
	Name       string
	Constraint Type
	Default    Type
}

func NewTypeParameter(name string, constraint Type) *TypeParameterType {
	return &TypeParameterType{Name: name, Constraint: constraint}
}

func (tp *TypeParameterType) String() string { return tp.Name }
func (tp *TypeParameterType) typeNode()      {}
func (tp *TypeParameterType) Equals(other Type) bool {
	o, ok := other.(*TypeParameterType)
	return ok && (tp == o || tp.Name == o.Name)
}

// Declaration renders `T extends C = D`.
func (tp *TypeParameterType) Declaration() string {
	s := tp.Name
	if tp.Constraint != nil {
		s += " extends " + tp.Constraint.String()
	}
	if tp.Default != nil {
		s += " = " + tp.Default.String()
	}
	return s
}

// Bind pairs parameters with arguments. Missing arguments take the default,
// then the constraint, then any.
func Bind(params []*TypeParameterType, args []Type) map[string]Type {
	m := make(map[string]Type, len(params))
	for i, tp := range params {
		switch {
		case i < len(args) && args[i] != nil:
			m[tp.Name] = args[i]
		case tp.Default != nil:
			m[tp.Name] = Substitute(tp.Default, m)
		case tp.Constraint != nil:
			m[tp.Name] = tp.Constraint
		default:
			m[tp.Name] = Any
		}
	}
	return m
}

// Substitute replaces type parameters (and unqualified references naming
// them) throughout t. Named declarations (interfaces, classes, enums,
// aliases) are left alone; they are instantiated where they are referenced.
func Substitute(t Type, m map[string]Type) Type {
	if t == nil || len(m) == 0 {
		return t
	}
	switch t := t.(type) {
	case *TypeParameterType:
		if r, ok := m[t.Name]; ok {
			return r
		}
		return t
	case *TypeRef:
		if len(t.Name) == 1 && len(t.TypeArgs) == 0 {
			if r, ok := m[t.Name[0]]; ok {
				return r
			}
		}
		if len(t.TypeArgs) == 0 {
			return t
		}
		return &TypeRef{Name: t.Name, TypeArgs: substituteList(t.TypeArgs, m), Span: t.Span}
	case *UnionType:
		return NewUnionType(substituteList(t.Types, m)...)
	case *IntersectionType:
		return NewIntersectionType(substituteList(t.Types, m)...)
	case *ArrayType:
		return &ArrayType{ElementType: Substitute(t.ElementType, m)}
	case *TupleType:
		return &TupleType{ElementTypes: substituteList(t.ElementTypes, m)}
	case *ObjectType:
		return &ObjectType{Members: substituteMembers(t.Members, m)}
	case *FunctionType:
		return SubstituteFunction(t, m)
	case *InstanceType:
		if len(t.TypeArgs) == 0 {
			return t
		}
		return &InstanceType{Class: t.Class, TypeArgs: substituteList(t.TypeArgs, m)}
	case *InterfaceType:
		if len(t.TypeArgs) == 0 {
			return t
		}
		// an instantiation: its members are already concrete except for
		// parameters of an enclosing generic
		return &InterfaceType{
			Name:     t.Name,
			Members:  substituteMembers(t.Members, m),
			Extends:  substituteList(t.Extends, m),
			TypeArgs: substituteList(t.TypeArgs, m),
		}
	case *OperatorType:
		if t.Op == "unique" {
			return t
		}
		return &OperatorType{Op: t.Op, Type: Substitute(t.Type, m)}
	}
	return t
}

// SubstituteFunction substitutes through parameters and the return type.
// Type parameters declared by fn itself shadow entries of m.
func SubstituteFunction(fn *FunctionType, m map[string]Type) *FunctionType {
	if fn == nil {
		return nil
	}
	if len(fn.TypeParams) > 0 {
		inner := make(map[string]Type, len(m))
		for k, v := range m {
			inner[k] = v
		}
		for _, tp := range fn.TypeParams {
			delete(inner, tp.Name)
		}
		m = inner
	}
	out := &FunctionType{TypeParams: fn.TypeParams, ReturnType: Substitute(fn.ReturnType, m)}
	out.Params = make([]Param, len(fn.Params))
	for i, p := range fn.Params {
		p.Type = Substitute(p.Type, m)
		out.Params[i] = p
	}
	return out
}

// Instantiate binds the function's own type parameters and returns a
// non-generic copy.
func Instantiate(fn *FunctionType, args []Type) *FunctionType {
	m := Bind(fn.TypeParams, args)
	return SubstituteFunction(&FunctionType{Params: fn.Params, ReturnType: fn.ReturnType}, m)
}

// InstantiateInterface applies type arguments to a generic interface.
func InstantiateInterface(it *InterfaceType, args []Type) *InterfaceType {
	if len(it.TypeParams) == 0 {
		return it
	}
	m := Bind(it.TypeParams, args)
	bound := make([]Type, len(it.TypeParams))
	for i, tp := range it.TypeParams {
		bound[i] = m[tp.Name]
	}
	return &InterfaceType{
		Name:     it.Name,
		Members:  substituteMembers(it.Members, m),
		Extends:  substituteList(it.Extends, m),
		TypeArgs: bound,
	}
}

func substituteList(ts []Type, m map[string]Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Substitute(t, m)
	}
	return out
}

// SubstituteMember substitutes through a single member.
func SubstituteMember(mem Member, m map[string]Type) Member {
	switch mem := mem.(type) {
	case *Property:
		cp := *mem
		cp.Type = Substitute(mem.Type, m)
		return &cp
	case *Method:
		cp := *mem
		cp.Fn = SubstituteFunction(mem.Fn, m)
		return &cp
	case *CallSignature:
		return &CallSignature{Fn: SubstituteFunction(mem.Fn, m)}
	case *ConstructSignature:
		return &ConstructSignature{Fn: SubstituteFunction(mem.Fn, m)}
	case *Constructor:
		return &Constructor{Fn: SubstituteFunction(mem.Fn, m)}
	case *IndexSignature:
		cp := *mem
		cp.KeyType = Substitute(mem.KeyType, m)
		cp.ValueType = Substitute(mem.ValueType, m)
		return &cp
	}
	return mem
}

func substituteMembers(ms []Member, m map[string]Type) []Member {
	out := make([]Member, len(ms))
	for i, mem := range ms {
		out[i] = SubstituteMember(mem, m)
	}
	return out
}

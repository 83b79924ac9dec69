package types

// Resolver gives the structural rules access to scope-dependent lookups.
// Expand must be total: references it cannot resolve come back unchanged.
type Resolver interface {
	Expand(t Type) Type
	EnumValue(m *EnumMemberType) (*LiteralType, bool)
}

// Members lists the instance-side members of an object-like type, own
// members first, then inherited ones not shadowed by an own member.
func Members(r Resolver, t Type) []Member {
	var out []Member
	seen := map[Key]bool{}
	visited := map[Type]bool{}
	add := func(ms []Member, subst map[string]Type) {
		for _, m := range ms {
			if k, ok := MemberKey(m); ok {
				if seen[k] {
					continue
				}
				seen[k] = true
			}
			if len(subst) > 0 {
				m = SubstituteMember(m, subst)
			}
			out = append(out, m)
		}
	}

	var walk func(t Type)
	walk = func(t Type) {
		t = r.Expand(t)
		if visited[t] {
			return
		}
		visited[t] = true
		switch t := t.(type) {
		case *ObjectType:
			add(t.Members, nil)
		case *InterfaceType:
			add(t.Members, nil)
			for _, ext := range t.Extends {
				walk(ext)
			}
		case *InstanceType:
			bindings := t.Bindings()
			var own []Member
			for _, m := range t.Class.Members {
				if !isStatic(m) {
					if _, ctor := m.(*Constructor); !ctor {
						own = append(own, m)
					}
				}
			}
			add(own, bindings)
			if t.Class.Super != nil {
				if sc, ok := r.Expand(t.Class.Super).(*ClassType); ok {
					walk(&InstanceType{Class: sc, TypeArgs: substituteList(t.Class.SuperArgs, bindings)})
				}
			}
		case *ClassType:
			var statics []Member
			for _, m := range t.Members {
				if isStatic(m) {
					statics = append(statics, m)
				}
			}
			add(statics, nil)
			if t.Super != nil {
				walk(t.Super)
			}
		case *IntersectionType:
			for _, m := range t.Types {
				walk(m)
			}
		}
	}
	walk(t)
	return out
}

func isStatic(m Member) bool {
	switch m := m.(type) {
	case *Property:
		return m.Static
	case *Method:
		return m.Static
	case *IndexSignature:
		return m.Static
	}
	return false
}

// FindMember looks up a named member by key.
func FindMember(members []Member, k Key) Member {
	for _, m := range members {
		if mk, ok := MemberKey(m); ok && mk == k {
			return m
		}
	}
	return nil
}

// Assignable reports whether a value of type source may be used where
// target is expected.
func Assignable(r Resolver, target, source Type) bool {
	a := &assigner{r: r, seen: map[pair]bool{}}
	return a.assignable(target, source)
}

type pair struct{ target, source Type }

type assigner struct {
	r    Resolver
	seen map[pair]bool
}

func (a *assigner) assignable(target, source Type) bool {
	if target == nil || source == nil {
		return true
	}
	target, source = a.r.Expand(target), a.r.Expand(source)

	if target == Any || target == Unknown || source == Any || source == Never {
		return true
	}
	if target.Equals(source) {
		return true
	}
	key := pair{target, source}
	if a.seen[key] {
		// assume success on cycles
		return true
	}
	a.seen[key] = true

	// Unions and intersections first, so the remaining rules see single types.
	if su, ok := source.(*UnionType); ok {
		for _, m := range su.Types {
			if !a.assignable(target, m) {
				return false
			}
		}
		return true
	}
	if tu, ok := target.(*UnionType); ok {
		for _, m := range tu.Types {
			if a.assignable(m, source) {
				return true
			}
		}
		return false
	}
	if ti, ok := target.(*IntersectionType); ok {
		for _, m := range ti.Types {
			if !a.assignable(m, source) {
				return false
			}
		}
		return true
	}
	if si, ok := source.(*IntersectionType); ok {
		for _, m := range si.Types {
			if a.assignable(target, m) {
				return true
			}
		}
		return a.structural(target, source)
	}

	if em, ok := source.(*EnumMemberType); ok {
		if _, isEnum := target.(*EnumType); isEnum {
			return target.String() == em.Enum
		}
		if v, ok := a.r.EnumValue(em); ok {
			return a.assignable(target, v)
		}
		return false
	}

	switch t := target.(type) {
	case *Primitive:
		return a.toPrimitive(t, source)
	case *LiteralType:
		return false
	case *ArrayType:
		switch s := source.(type) {
		case *ArrayType:
			return a.assignable(t.ElementType, s.ElementType)
		case *TupleType:
			for _, e := range s.ElementTypes {
				if !a.assignable(t.ElementType, e) {
					return false
				}
			}
			return true
		}
		return false
	case *TupleType:
		s, ok := source.(*TupleType)
		if !ok || len(s.ElementTypes) != len(t.ElementTypes) {
			return false
		}
		for i := range t.ElementTypes {
			if !a.assignable(t.ElementTypes[i], s.ElementTypes[i]) {
				return false
			}
		}
		return true
	case *FunctionType:
		if sf := a.callable(source); sf != nil {
			return a.function(t, sf)
		}
		return false
	case *EnumType:
		if lit, ok := source.(*LiteralType); ok {
			for _, m := range t.Members {
				if m.Value.Equals(lit) {
					return true
				}
			}
			return lit.Kind == LitNumber && t.IsNumeric()
		}
		return source == Number && t.IsNumeric()
	case *EnumMemberType:
		return false
	case *TypeParameterType:
		return false
	case *ThisType:
		return true
	case *ClassType:
		if sc, ok := source.(*ClassType); ok {
			return a.inherits(sc, t)
		}
		return a.structural(target, source)
	case *InstanceType:
		if si, ok := source.(*InstanceType); ok && a.inherits(si.Class, t.Class) && len(t.TypeArgs) == 0 {
			return true
		}
		return a.structural(target, source)
	case *InterfaceType:
		if elem, ok := ArrayInterfaceElem(t); ok {
			switch source.(type) {
			case *ArrayType, *TupleType:
				return a.assignable(NewArrayType(elem), source)
			}
		}
		return a.structural(target, source)
	case *ObjectType, *ModuleType:
		return a.structural(target, source)
	}
	return false
}

// ArrayInterfaceElem reports the element type of an instantiated Array or
// ReadonlyArray interface.
func ArrayInterfaceElem(t *InterfaceType) (Type, bool) {
	if (t.Name == "Array" || t.Name == "ReadonlyArray") && len(t.TypeArgs) == 1 {
		return t.TypeArgs[0], true
	}
	return nil, false
}

func (a *assigner) toPrimitive(t *Primitive, source Type) bool {
	switch s := source.(type) {
	case *LiteralType:
		return s.Keyword() == t
	case *Primitive:
		if t == Void {
			return s == Undefined
		}
		return false
	case *EnumType:
		return t == Number && s.IsNumeric()
	case *OperatorType:
		return t == Symbol && s.Op == "unique"
	case *TypeParameterType:
		if s.Constraint != nil {
			return a.assignable(t, s.Constraint)
		}
		return false
	}
	if t == Object {
		return IsObjectLike(source)
	}
	return false
}

func (a *assigner) inherits(sub, super *ClassType) bool {
	for c := sub; c != nil; {
		if c.Equals(super) {
			return true
		}
		if c.Super == nil {
			return false
		}
		next, ok := a.r.Expand(c.Super).(*ClassType)
		if !ok {
			return false
		}
		c = next
	}
	return false
}

// callable returns the call signature of a source type, if it has one.
func (a *assigner) callable(source Type) *FunctionType {
	if f, ok := source.(*FunctionType); ok {
		return f
	}
	if !IsObjectLike(source) {
		return nil
	}
	for _, m := range Members(a.r, source) {
		if cs, ok := m.(*CallSignature); ok {
			return cs.Fn
		}
	}
	return nil
}

func (a *assigner) function(t, s *FunctionType) bool {
	if len(s.TypeParams) > 0 {
		s = Instantiate(s, nil)
	}
	if len(t.TypeParams) > 0 {
		t = Instantiate(t, nil)
	}
	// a source may ignore trailing parameters, but not require more
	if s.RequiredCount() > len(t.Params) && t.MaxCount() >= 0 {
		return false
	}
	for i, sp := range s.Params {
		if sp.Rest {
			break
		}
		tp, ok := t.ParamTypeAt(i)
		if !ok {
			break
		}
		// parameters are compared bivariantly
		if !a.assignable(sp.Type, tp) && !a.assignable(tp, sp.Type) {
			return false
		}
	}
	if t.ReturnType == Void || t.ReturnType == nil {
		return true
	}
	return a.assignable(t.ReturnType, s.ReturnType)
}

// structural checks that every required member of target exists in source
// with an assignable type.
func (a *assigner) structural(target, source Type) bool {
	if !IsObjectLike(source) {
		return false
	}
	sourceMembers := Members(a.r, source)
	for _, tm := range Members(a.r, target) {
		switch tm := tm.(type) {
		case *Property:
			sm := FindMember(sourceMembers, tm.Key)
			if sm == nil {
				if tm.Optional {
					continue
				}
				return false
			}
			if !a.assignable(tm.Type, MemberType(sm)) {
				return false
			}
		case *Method:
			sm := FindMember(sourceMembers, tm.Key)
			if sm == nil {
				if tm.Optional {
					continue
				}
				return false
			}
			if !a.assignable(MemberType(tm), MemberType(sm)) {
				return false
			}
		case *CallSignature:
			sf := a.callable(source)
			if sf == nil || !a.function(tm.Fn, sf) {
				return false
			}
		case *IndexSignature:
			for _, sm := range sourceMembers {
				if _, named := MemberKey(sm); named && !a.assignable(tm.ValueType, MemberType(sm)) {
					return false
				}
			}
		}
	}
	return true
}

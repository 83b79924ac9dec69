package types

// Snapshot returns a detached deep copy of t. Shared declarations are copied
// once, so a class referencing its own instance type stays a cycle in the
// copy instead of recursing forever.
func Snapshot(t Type) Type {
	s := &snapshotter{memo: map[Type]Type{}}
	return s.copy(t)
}

type snapshotter struct {
	memo map[Type]Type
}

func (s *snapshotter) copy(t Type) Type {
	if t == nil {
		return nil
	}
	if done, ok := s.memo[t]; ok {
		return done
	}
	switch t := t.(type) {
	case *Primitive, *ThisType, *EnumMemberType, *TypeQuery:
		return t
	case *LiteralType:
		cp := *t
		return &cp
	case *UnionType:
		return &UnionType{Types: s.list(t.Types)}
	case *IntersectionType:
		return &IntersectionType{Types: s.list(t.Types)}
	case *ArrayType:
		return &ArrayType{ElementType: s.copy(t.ElementType)}
	case *TupleType:
		return &TupleType{ElementTypes: s.list(t.ElementTypes)}
	case *ObjectType:
		out := &ObjectType{}
		s.memo[t] = out
		out.Members = s.members(t.Members)
		return out
	case *InterfaceType:
		out := &InterfaceType{Name: t.Name}
		s.memo[t] = out
		out.TypeParams = s.params(t.TypeParams)
		out.Members = s.members(t.Members)
		out.Extends = s.list(t.Extends)
		out.TypeArgs = s.list(t.TypeArgs)
		return out
	case *ClassType:
		out := &ClassType{Name: t.Name, Abstract: t.Abstract}
		s.memo[t] = out
		out.Super = s.copy(t.Super)
		out.SuperArgs = s.list(t.SuperArgs)
		out.TypeParams = s.params(t.TypeParams)
		out.Members = s.members(t.Members)
		return out
	case *InstanceType:
		class, _ := s.copy(t.Class).(*ClassType)
		return &InstanceType{Class: class, TypeArgs: s.list(t.TypeArgs)}
	case *EnumType:
		out := &EnumType{Name: t.Name, Const: t.Const, Declare: t.Declare}
		for _, m := range t.Members {
			v := *m.Value
			out.Members = append(out.Members, EnumMember{Name: m.Name, Value: &v})
		}
		s.memo[t] = out
		return out
	case *FunctionType:
		return s.function(t)
	case *AliasType:
		out := &AliasType{Name: t.Name}
		s.memo[t] = out
		out.TypeParams = s.params(t.TypeParams)
		out.Target = s.copy(t.Target)
		return out
	case *ModuleType:
		out := &ModuleType{Name: t.Name, Exports: NewExports()}
		s.memo[t] = out
		for k, v := range t.Exports.Vars {
			out.Exports.Vars[k] = s.copy(v)
		}
		for k, v := range t.Exports.Types {
			out.Exports.Types[k] = s.list(v)
		}
		return out
	case *TypeParameterType:
		out := &TypeParameterType{Name: t.Name}
		s.memo[t] = out
		out.Constraint = s.copy(t.Constraint)
		out.Default = s.copy(t.Default)
		return out
	case *TypeRef:
		return &TypeRef{Name: append([]string(nil), t.Name...), TypeArgs: s.list(t.TypeArgs), Span: t.Span}
	case *OperatorType:
		if t.Op == "unique" {
			return t
		}
		return &OperatorType{Op: t.Op, Type: s.copy(t.Type)}
	}
	return t
}

func (s *snapshotter) list(ts []Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = s.copy(t)
	}
	return out
}

func (s *snapshotter) params(tps []*TypeParameterType) []*TypeParameterType {
	if tps == nil {
		return nil
	}
	out := make([]*TypeParameterType, len(tps))
	for i, tp := range tps {
		out[i] = s.copy(tp).(*TypeParameterType)
	}
	return out
}

func (s *snapshotter) function(fn *FunctionType) *FunctionType {
	if fn == nil {
		return nil
	}
	out := &FunctionType{TypeParams: s.params(fn.TypeParams), ReturnType: s.copy(fn.ReturnType)}
	for _, p := range fn.Params {
		p.Type = s.copy(p.Type)
		out.Params = append(out.Params, p)
	}
	return out
}

func (s *snapshotter) members(ms []Member) []Member {
	out := make([]Member, 0, len(ms))
	for _, m := range ms {
		switch m := m.(type) {
		case *Property:
			cp := *m
			cp.Type = s.copy(m.Type)
			out = append(out, &cp)
		case *Method:
			cp := *m
			cp.Fn = s.function(m.Fn)
			out = append(out, &cp)
		case *CallSignature:
			out = append(out, &CallSignature{Fn: s.function(m.Fn)})
		case *ConstructSignature:
			out = append(out, &ConstructSignature{Fn: s.function(m.Fn)})
		case *Constructor:
			out = append(out, &Constructor{Fn: s.function(m.Fn)})
		case *IndexSignature:
			cp := *m
			cp.KeyType = s.copy(m.KeyType)
			cp.ValueType = s.copy(m.ValueType)
			out = append(out, &cp)
		}
	}
	return out
}

// SnapshotExports copies a whole export table with one shared memo, so a
// class and a function returning its instances still agree on identity in
// the copy.
func SnapshotExports(e *Exports) *Exports {
	s := &snapshotter{memo: map[Type]Type{}}
	out := NewExports()
	for name, t := range e.Vars {
		out.Vars[name] = s.copy(t)
	}
	for name, ts := range e.Types {
		out.Types[name] = s.list(ts)
	}
	return out
}

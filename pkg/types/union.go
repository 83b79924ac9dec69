package types

import "strings"

// --- Union Types ---

// UnionType represents a union of multiple types (e.g., string | number).
// Build it with NewUnionType; it always holds at least two members.
type UnionType struct {
	Types []Type
}

func (ut *UnionType) String() string {
	parts := make([]string, len(ut.Types))
	for i, t := range ut.Types {
		parts[i] = parenthesize(t)
	}
	return strings.Join(parts, " | ")
}
func (ut *UnionType) typeNode() {}

// Equals compares members as sets.
func (ut *UnionType) Equals(other Type) bool {
	o, ok := other.(*UnionType)
	if !ok || len(ut.Types) != len(o.Types) {
		return false
	}
	for _, t := range ut.Types {
		if !o.Contains(t) {
			return false
		}
	}
	return true
}

// Contains checks if the union has a member equal to the given type.
func (ut *UnionType) Contains(target Type) bool {
	for _, t := range ut.Types {
		if t.Equals(target) {
			return true
		}
	}
	return false
}

// NewUnionType creates a union from the given types. Nested unions are
// flattened, duplicates removed, first occurrence order kept. `never`
// members vanish, an empty union is `never` and a single member is returned
// as is.
func NewUnionType(ts ...Type) Type {
	members := make([]Type, 0, len(ts))
	var collect func(t Type)
	collect = func(t Type) {
		if t == nil || t == Never {
			return
		}
		if u, ok := t.(*UnionType); ok {
			for _, m := range u.Types {
				collect(m)
			}
			return
		}
		for _, m := range members {
			if m.Equals(t) {
				return
			}
		}
		members = append(members, t)
	}
	for _, t := range ts {
		collect(t)
	}

	switch len(members) {
	case 0:
		return Never
	case 1:
		return members[0]
	}
	return &UnionType{Types: members}
}

// RemoveNullUndefined drops null and undefined from a type.
func RemoveNullUndefined(t Type) Type {
	if t == Null || t == Undefined {
		return Never
	}
	if u, ok := t.(*UnionType); ok {
		var kept []Type
		for _, m := range u.Types {
			if m != Null && m != Undefined {
				kept = append(kept, m)
			}
		}
		return NewUnionType(kept...)
	}
	return t
}

// --- Intersection Types ---

// IntersectionType represents `A & B`.
type IntersectionType struct {
	Types []Type
}

func (it *IntersectionType) String() string {
	parts := make([]string, len(it.Types))
	for i, t := range it.Types {
		parts[i] = parenthesize(t)
	}
	return strings.Join(parts, " & ")
}
func (it *IntersectionType) typeNode() {}
func (it *IntersectionType) Equals(other Type) bool {
	o, ok := other.(*IntersectionType)
	return ok && equalLists(it.Types, o.Types)
}

// NewIntersectionType flattens nested intersections; `any` absorbs the
// whole intersection and `never` propagates.
func NewIntersectionType(ts ...Type) Type {
	members := make([]Type, 0, len(ts))
	var collect func(t Type)
	collect = func(t Type) {
		if t == nil {
			return
		}
		if it, ok := t.(*IntersectionType); ok {
			for _, m := range it.Types {
				collect(m)
			}
			return
		}
		for _, m := range members {
			if m.Equals(t) {
				return
			}
		}
		members = append(members, t)
	}
	for _, t := range ts {
		collect(t)
	}
	for _, m := range members {
		if m == Any || m == Never {
			return m
		}
	}
	switch len(members) {
	case 0:
		return Unknown
	case 1:
		return members[0]
	}
	return &IntersectionType{Types: members}
}

func parenthesize(t Type) string {
	switch t.(type) {
	case *FunctionType, *UnionType, *IntersectionType:
		return "(" + t.String() + ")"
	}
	return t.String()
}

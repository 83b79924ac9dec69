package types

// EnumMember is one member with its constant value.
type EnumMember struct {
	Name  string
	Value *LiteralType
}

// EnumType is an enum declaration.
type EnumType struct {
	Name    string
	Const   bool
	Declare bool
	Members []EnumMember
}

func (et *EnumType) String() string { return et.Name }
func (et *EnumType) typeNode()      {}
func (et *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	if !ok {
		return false
	}
	if et == o {
		return true
	}
	if et.Name != o.Name || et.Const != o.Const || len(et.Members) != len(o.Members) {
		return false
	}
	for i := range et.Members {
		if et.Members[i].Name != o.Members[i].Name || !et.Members[i].Value.Equals(o.Members[i].Value) {
			return false
		}
	}
	return true
}

// Member looks up a member by name.
func (et *EnumType) Member(name string) (EnumMember, bool) {
	for _, m := range et.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

// IsNumeric reports whether every member has a numeric value.
func (et *EnumType) IsNumeric() bool {
	for _, m := range et.Members {
		if m.Value.Kind != LitNumber {
			return false
		}
	}
	return true
}

// EnumMemberType references one member of an enum by name. It does not own
// the enum; resolving the value goes through the declaration.
type EnumMemberType struct {
	Enum string
	Name string
}

func (em *EnumMemberType) String() string { return em.Enum + "." + em.Name }
func (em *EnumMemberType) typeNode()      {}
func (em *EnumMemberType) Equals(other Type) bool {
	o, ok := other.(*EnumMemberType)
	return ok && em.Enum == o.Enum && em.Name == o.Name
}

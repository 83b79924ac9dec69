package types

import "strings"

// --- Interfaces ---

// InterfaceType is a named structural type. Declarations merge by appending
// members to the same InterfaceType.
type InterfaceType struct {
	Name       string
	TypeParams []*TypeParameterType
	Members    []Member
	Extends    []Type
	TypeArgs   []Type // set on instantiations of a generic interface
}

func (it *InterfaceType) String() string {
	if len(it.TypeArgs) > 0 {
		return it.Name + typeArgList(it.TypeArgs)
	}
	return it.Name + typeParamList(it.TypeParams)
}
func (it *InterfaceType) typeNode() {}

// Equals is declaration identity: the same pointer, or the same name with
// the same members (a snapshot of the declaration).
func (it *InterfaceType) Equals(other Type) bool {
	o, ok := other.(*InterfaceType)
	if !ok {
		return false
	}
	return it == o || (it.Name == o.Name && equalLists(it.TypeArgs, o.TypeArgs) && equalMembers(it.Members, o.Members))
}

// Body renders the members, for diagnostics.
func (it *InterfaceType) Body() string {
	var b strings.Builder
	writeMembers(&b, it.Members)
	return b.String()
}

// --- Classes ---

// ClassType is the static side of a class: the value bound to the class
// name. Instances are InstanceType.
type ClassType struct {
	Name       string
	Super      Type // nil, or the superclass (ClassType, or anything expanding to one)
	SuperArgs  []Type
	TypeParams []*TypeParameterType
	Members    []Member
	Abstract   bool
}

func (ct *ClassType) String() string {
	name := ct.Name
	if name == "" {
		name = "(anonymous class)"
	}
	return "typeof " + name
}
func (ct *ClassType) typeNode() {}
func (ct *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	if !ok {
		return false
	}
	return ct == o || (ct.Name != "" && ct.Name == o.Name && equalMembers(ct.Members, o.Members))
}

// Constructors returns the constructor declarations of the class itself.
func (ct *ClassType) Constructors() []*Constructor {
	var out []*Constructor
	for _, m := range ct.Members {
		if c, ok := m.(*Constructor); ok {
			out = append(out, c)
		}
	}
	return out
}

// InstanceType is an instance of a class with optional type arguments.
type InstanceType struct {
	Class    *ClassType
	TypeArgs []Type
}

func (it *InstanceType) String() string {
	name := it.Class.Name
	if name == "" {
		name = "(anonymous class)"
	}
	if len(it.TypeArgs) == 0 {
		return name
	}
	return name + typeArgList(it.TypeArgs)
}
func (it *InstanceType) typeNode() {}
func (it *InstanceType) Equals(other Type) bool {
	o, ok := other.(*InstanceType)
	return ok && it.Class.Equals(o.Class) && equalLists(it.TypeArgs, o.TypeArgs)
}

// Bindings maps the class type parameters to the instance type arguments,
// falling back to defaults, then to any.
func (it *InstanceType) Bindings() map[string]Type {
	return Bind(it.Class.TypeParams, it.TypeArgs)
}

func typeParamList(tps []*TypeParameterType) string {
	if len(tps) == 0 {
		return ""
	}
	names := make([]string, len(tps))
	for i, tp := range tps {
		names[i] = tp.Name
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func typeArgList(args []Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = typeString(a)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

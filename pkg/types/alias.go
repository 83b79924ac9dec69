package types

import "sort"

// AliasType is `type Name<T> = Target`.
type AliasType struct {
	Name       string
	TypeParams []*TypeParameterType
	Target     Type
}

func (at *AliasType) String() string { return at.Name + typeParamList(at.TypeParams) }
func (at *AliasType) typeNode()      {}
func (at *AliasType) Equals(other Type) bool {
	o, ok := other.(*AliasType)
	return ok && (at == o || (at.Name == o.Name && len(at.TypeParams) == len(o.TypeParams) && equalTypes(at.Target, o.Target)))
}

// Exports is a module export table.
type Exports struct {
	Vars  map[string]Type
	Types map[string][]Type
}

// NewExports creates an empty export table.
func NewExports() *Exports {
	return &Exports{Vars: map[string]Type{}, Types: map[string][]Type{}}
}

// Empty reports whether nothing has been exported.
func (e *Exports) Empty() bool {
	return len(e.Vars) == 0 && len(e.Types) == 0
}

// Names lists exported value names in sorted order.
func (e *Exports) Names() []string {
	names := make([]string, 0, len(e.Vars))
	for n := range e.Vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ModuleType is a module or namespace seen as a value.
type ModuleType struct {
	Name    string
	Exports *Exports
}

func (mt *ModuleType) String() string { return "typeof " + mt.Name }
func (mt *ModuleType) typeNode()      {}
func (mt *ModuleType) Equals(other Type) bool {
	o, ok := other.(*ModuleType)
	return ok && mt == o
}

package types

import "strings"

// Param is one parameter of a function type.
type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// FunctionType represents the type of a function.
type FunctionType struct {
	TypeParams []*TypeParameterType
	Params     []Param
	ReturnType Type
}

// NewFunctionType builds a non-generic function type from positional
// parameter types.
func NewFunctionType(ret Type, params ...Type) *FunctionType {
	fn := &FunctionType{ReturnType: ret}
	for i, p := range params {
		fn.Params = append(fn.Params, Param{Name: paramName(i), Type: p})
	}
	return fn
}

// WithOptional marks the trailing n parameters optional.
func (ft *FunctionType) WithOptional(n int) *FunctionType {
	for i := len(ft.Params) - n; i < len(ft.Params); i++ {
		if i >= 0 {
			ft.Params[i].Optional = true
		}
	}
	return ft
}

// WithRest appends a rest parameter of the given array type.
func (ft *FunctionType) WithRest(t Type) *FunctionType {
	ft.Params = append(ft.Params, Param{Name: "args", Type: t, Rest: true})
	return ft
}

func paramName(i int) string {
	return string(rune('a' + i%26))
}

// RequiredCount is the number of parameters without an optional marker.
func (ft *FunctionType) RequiredCount() int {
	n := 0
	for _, p := range ft.Params {
		if !p.Optional && !p.Rest {
			n++
		}
	}
	return n
}

// MaxCount is the largest argument count accepted, -1 when unbounded.
func (ft *FunctionType) MaxCount() int {
	for _, p := range ft.Params {
		if p.Rest {
			return -1
		}
	}
	return len(ft.Params)
}

// AcceptsArity reports whether n arguments fall in [required, total].
func (ft *FunctionType) AcceptsArity(n int) bool {
	if n < ft.RequiredCount() {
		return false
	}
	max := ft.MaxCount()
	return max < 0 || n <= max
}

// ParamTypeAt returns the declared type for argument i, unwrapping rest
// arrays.
func (ft *FunctionType) ParamTypeAt(i int) (Type, bool) {
	if i < len(ft.Params) && !ft.Params[i].Rest {
		return ft.Params[i].Type, true
	}
	if n := len(ft.Params); n > 0 && ft.Params[n-1].Rest {
		switch rt := ft.Params[n-1].Type.(type) {
		case *ArrayType:
			return rt.ElementType, true
		case *TupleType:
			if idx := i - (n - 1); idx < len(rt.ElementTypes) {
				return rt.ElementTypes[idx], true
			}
		}
		return Any, true
	}
	return nil, false
}

func (ft *FunctionType) paramList() string {
	var b strings.Builder
	b.WriteString("(")
	for i, p := range ft.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Rest {
			b.WriteString("...")
		}
		b.WriteString(p.Name)
		if p.Optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(typeString(p.Type))
	}
	b.WriteString(")")
	return b.String()
}

func (ft *FunctionType) signature(arrow string) string {
	var b strings.Builder
	if len(ft.TypeParams) > 0 {
		b.WriteString("<")
		for i, tp := range ft.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(tp.Declaration())
		}
		b.WriteString(">")
	}
	b.WriteString(ft.paramList())
	b.WriteString(arrow)
	b.WriteString(typeString(ft.ReturnType))
	return b.String()
}

func (ft *FunctionType) String() string { return ft.signature(" => ") }
func (ft *FunctionType) typeNode()      {}
func (ft *FunctionType) Equals(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	if ft == o {
		return true
	}
	if len(ft.TypeParams) != len(o.TypeParams) || len(ft.Params) != len(o.Params) {
		return false
	}
	for i := range ft.Params {
		a, b := ft.Params[i], o.Params[i]
		if a.Optional != b.Optional || a.Rest != b.Rest || !equalTypes(a.Type, b.Type) {
			return false
		}
	}
	return equalTypes(ft.ReturnType, o.ReturnType)
}

// Package builtins provides the global ambient declarations (Array, String,
// Object, Symbol, RegExp, ...) the checker resolves names against.
package builtins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nooga/tscheck/pkg/types"
)

// Lib names a target library declaration set.
type Lib string

const (
	LibES5    Lib = "es5"
	LibES2015 Lib = "es2015"
	LibDOM    Lib = "dom"
)

// DefaultLibs is used when no library set is configured.
var DefaultLibs = []Lib{LibES5, LibES2015, LibDOM}

// ParseLib normalizes a library name ("ES6" is es2015).
func ParseLib(s string) (Lib, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "es5":
		return LibES5, nil
	case "es2015", "es6":
		return LibES2015, nil
	case "dom":
		return LibDOM, nil
	}
	return "", fmt.Errorf("unknown lib %q", s)
}

// Provider is the view of the built-in declarations the checker needs.
type Provider interface {
	// Type resolves a global type name such as "Array" or "RegExp".
	Type(name string) (types.Type, bool)
	// Var resolves a global value such as "Math" or "Symbol".
	Var(name string) (types.Type, bool)
}

// Registry holds the declarations of a library set. It is immutable once
// built, so one Registry can serve any number of concurrent checkers.
type Registry struct {
	libs  []Lib
	types map[string]types.Type
	vars  map[string]types.Type
}

// NewRegistry runs the standard initializers for the given libraries.
func NewRegistry(libs ...Lib) (*Registry, error) {
	return NewRegistryWith(GetStandardInitializers(), libs...)
}

// NewRegistryWith runs the given initializers, keeping only those whose
// library is enabled.
func NewRegistryWith(initializers []BuiltinInitializer, libs ...Lib) (*Registry, error) {
	if len(libs) == 0 {
		libs = DefaultLibs
	}
	enabled := map[Lib]bool{}
	for _, l := range libs {
		enabled[l] = true
	}
	// es2015 extends es5
	if enabled[LibES2015] {
		enabled[LibES5] = true
	}

	r := &Registry{libs: libs, types: map[string]types.Type{}, vars: map[string]types.Type{}}
	ctx := &TypeContext{
		DefineGlobal: func(name string, typ types.Type) error {
			if _, dup := r.vars[name]; dup {
				return fmt.Errorf("global %s defined twice", name)
			}
			r.vars[name] = typ
			return nil
		},
		DefineType: func(name string, typ types.Type) error {
			if _, dup := r.types[name]; dup {
				return fmt.Errorf("type %s defined twice", name)
			}
			r.types[name] = typ
			return nil
		},
		GetType: func(name string) (types.Type, bool) {
			t, ok := r.types[name]
			return t, ok
		},
	}

	sorted := append([]BuiltinInitializer(nil), initializers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	for _, init := range sorted {
		if !enabled[init.Lib()] {
			continue
		}
		if err := init.InitTypes(ctx); err != nil {
			return nil, fmt.Errorf("builtin %s: %w", init.Name(), err)
		}
	}
	return r, nil
}

// Libs returns the configured library set.
func (r *Registry) Libs() []Lib { return r.libs }

func (r *Registry) Type(name string) (types.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

func (r *Registry) Var(name string) (types.Type, bool) {
	t, ok := r.vars[name]
	return t, ok
}

// --- helpers shared by the initializers ---

func fn(ret types.Type, params ...types.Type) *types.FunctionType {
	return types.NewFunctionType(ret, params...)
}

func generic(tps []*types.TypeParameterType, f *types.FunctionType) *types.FunctionType {
	f.TypeParams = tps
	return f
}

func tparam(name string) *types.TypeParameterType {
	return types.NewTypeParameter(name, nil)
}

func iface(name string, obj *types.ObjectType, tps ...*types.TypeParameterType) *types.InterfaceType {
	return &types.InterfaceType{Name: name, TypeParams: tps, Members: obj.Members}
}

func ref(name string, args ...types.Type) *types.TypeRef {
	return types.NewTypeRef(name, args...)
}

func arrayOf(t types.Type) *types.ArrayType { return types.NewArrayType(t) }

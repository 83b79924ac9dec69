package builtins

import (
	"testing"

	"github.com/nooga/tscheck/pkg/types"
)

func TestNewRegistryWithDefaultLibs(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	for _, name := range []string{"Object", "Function", "Array", "ReadonlyArray", "String", "Number", "Boolean",
		"Symbol", "RegExp", "Error", "Promise", "Map", "Set", "Math", "JSON", "Date", "Console"} {
		if _, ok := reg.Type(name); !ok {
			t.Errorf("Expected type %s to be defined", name)
		}
	}
	for _, name := range []string{"Object", "Array", "Symbol", "Math", "console", "parseInt", "NaN"} {
		if _, ok := reg.Var(name); !ok {
			t.Errorf("Expected global %s to be defined", name)
		}
	}
}

func TestES5OnlyRegistry(t *testing.T) {
	reg, err := NewRegistry(LibES5)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if _, ok := reg.Type("Promise"); ok {
		t.Error("Promise should not exist under es5")
	}
	if _, ok := reg.Var("console"); ok {
		t.Error("console should not exist without dom")
	}
	if _, ok := reg.Type("Array"); !ok {
		t.Error("Array should exist under es5")
	}
}

func TestES2015ImpliesES5(t *testing.T) {
	reg, err := NewRegistry(LibES2015)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if _, ok := reg.Type("String"); !ok {
		t.Error("es2015 should include es5 declarations")
	}
	if _, ok := reg.Type("Iterable"); !ok {
		t.Error("es2015 should declare Iterable")
	}
}

func TestArrayInterfaceIsGeneric(t *testing.T) {
	reg, _ := NewRegistry()
	arr, _ := reg.Type("Array")
	it, ok := arr.(*types.InterfaceType)
	if !ok {
		t.Fatalf("Expected Array to be an interface, got %T", arr)
	}
	if len(it.TypeParams) != 1 || it.TypeParams[0].Name != "T" {
		t.Errorf("Expected Array<T>, got %s", it.String())
	}
	if types.FindMember(it.Members, types.NameKey("push")) == nil {
		t.Error("Expected Array to have push")
	}
}

func TestSymbolWellKnownAreUnique(t *testing.T) {
	reg, _ := NewRegistry()
	sym, _ := reg.Var("Symbol")
	obj := sym.(*types.ObjectType)
	m := types.FindMember(obj.Members, types.NameKey("iterator"))
	if m == nil {
		t.Fatal("Expected Symbol.iterator")
	}
	if !types.IsUniqueSymbol(types.MemberType(m)) {
		t.Errorf("Expected unique symbol, got %s", types.MemberType(m))
	}
}

type dupInitializer struct{}

func (d *dupInitializer) Name() string  { return "dup" }
func (d *dupInitializer) Lib() Lib      { return LibES5 }
func (d *dupInitializer) Priority() int { return PriorityGlobals }
func (d *dupInitializer) InitTypes(ctx *TypeContext) error {
	return ctx.DefineGlobal("Math", types.Any)
}

func TestDuplicateDefinitionFails(t *testing.T) {
	inits := append(GetStandardInitializers(), &dupInitializer{})
	if _, err := NewRegistryWith(inits, LibES5); err == nil {
		t.Error("Expected an error for a duplicate global")
	}
}

func TestParseLib(t *testing.T) {
	tests := []struct {
		in   string
		want Lib
		ok   bool
	}{
		{"es5", LibES5, true},
		{"ES6", LibES2015, true},
		{" es2015 ", LibES2015, true},
		{"dom", LibDOM, true},
		{"esnext", "", false},
	}
	for _, tt := range tests {
		got, err := ParseLib(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLib(%q): expected %q ok=%v, got %q err=%v", tt.in, tt.want, tt.ok, got, err)
		}
	}
}

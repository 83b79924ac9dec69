package types

import (
	"math"
	"testing"
)

// identity resolves nothing; enough for types that carry no references.
type identity struct{}

func (identity) Expand(t Type) Type                             { return t }
func (identity) EnumValue(*EnumMemberType) (*LiteralType, bool) { return nil, false }

func TestNewUnionType(t *testing.T) {
	one := NewNumberLiteral(1)

	u := NewUnionType(String, NewUnionType(Number, String), one, NewNumberLiteral(1))
	union, ok := u.(*UnionType)
	if !ok {
		t.Fatalf("Expected *UnionType, got %T", u)
	}
	if len(union.Types) != 3 {
		t.Fatalf("Expected 3 members, got %d (%s)", len(union.Types), u)
	}
	if u.String() != "string | number | 1" {
		t.Errorf("Expected first-occurrence order, got '%s'", u.String())
	}

	if got := NewUnionType(); got != Never {
		t.Errorf("Expected never for an empty union, got %s", got)
	}
	if got := NewUnionType(Number, Never, Number); got != Number {
		t.Errorf("Expected number, got %s", got)
	}
	if !NewUnionType(String, Number).Equals(NewUnionType(Number, String)) {
		t.Errorf("Expected unions to compare as sets")
	}
}

func TestNewIntersectionType(t *testing.T) {
	a := NewObjectType().WithProperty("a", Number)
	b := NewObjectType().WithProperty("b", String)

	if got := NewIntersectionType(a, Any, b); got != Any {
		t.Errorf("Expected any to absorb, got %s", got)
	}
	if got := NewIntersectionType(a, Never); got != Never {
		t.Errorf("Expected never to propagate, got %s", got)
	}
	got := NewIntersectionType(a, NewIntersectionType(b, a))
	if got.String() != "{ a: number } & { b: string }" {
		t.Errorf("Expected flattened intersection, got '%s'", got)
	}
}

func TestLiteralTruthiness(t *testing.T) {
	tests := []struct {
		lit    *LiteralType
		truthy bool
	}{
		{NewStringLiteral(""), false},
		{NewStringLiteral("a"), true},
		{NewNumberLiteral(0), false},
		{NewNumberLiteral(math.NaN()), false},
		{NewNumberLiteral(-1), true},
		{NewBooleanLiteral(true), true},
		{NewBigIntLiteral("0"), false},
	}
	for _, tt := range tests {
		if got := tt.lit.Truthy(); got != tt.truthy {
			t.Errorf("Truthy(%s): expected %v, got %v", tt.lit, tt.truthy, got)
		}
	}
}

func TestKeys(t *testing.T) {
	if NumberKey(1) != NameKey("1") {
		t.Errorf("Expected numeric and string keys to match")
	}
	if got := NameKey("a-b").String(); got != `"a-b"` {
		t.Errorf("Expected quoted key, got %s", got)
	}
	computed := Key{Name: "Symbol.iterator", Computed: true}
	if computed == NameKey("Symbol.iterator") {
		t.Errorf("Expected computed key to differ from a plain name")
	}
}

func TestSubstitute(t *testing.T) {
	tp := NewTypeParameter("T", nil)
	fn := &FunctionType{
		TypeParams: []*TypeParameterType{tp},
		Params:     []Param{{Name: "x", Type: tp}, {Name: "xs", Type: NewArrayType(NewTypeRef("T"))}},
		ReturnType: NewUnionType(tp, Null),
	}

	got := Instantiate(fn, []Type{Number})
	if got.String() != "(x: number, xs: number[]) => number | null" {
		t.Errorf("Expected substituted signature, got '%s'", got)
	}
	if fn.String() != "<T>(x: T, xs: T[]) => T | null" {
		t.Errorf("Expected original to be untouched, got '%s'", fn)
	}

	// inner type parameters shadow outer bindings
	inner := &FunctionType{TypeParams: []*TypeParameterType{NewTypeParameter("T", nil)}, ReturnType: tp}
	if r := SubstituteFunction(inner, map[string]Type{"T": String}); r.ReturnType != tp {
		t.Errorf("Expected shadowed T to stay, got %s", r.ReturnType)
	}
}

func TestBindDefaults(t *testing.T) {
	a := NewTypeParameter("A", nil)
	b := &TypeParameterType{Name: "B", Default: NewArrayType(a)}
	c := NewTypeParameter("C", String)

	m := Bind([]*TypeParameterType{a, b, c}, []Type{Boolean})
	if m["A"] != Boolean {
		t.Errorf("Expected A=boolean, got %s", m["A"])
	}
	if m["B"].String() != "boolean[]" {
		t.Errorf("Expected B=boolean[], got %s", m["B"])
	}
	if m["C"] != String {
		t.Errorf("Expected C to fall back to its constraint, got %s", m["C"])
	}
}

// arrayOf is an instantiated Array or ReadonlyArray interface with no
// members, so only the element type can make an array assignable to it.
func arrayOf(name string, elem Type) *InterfaceType {
	return &InterfaceType{Name: name, TypeArgs: []Type{elem}}
}

func TestAssignable(t *testing.T) {
	point := &InterfaceType{Name: "Point", Members: []Member{
		&Property{Key: NameKey("x"), Type: Number},
		&Property{Key: NameKey("y"), Type: Number, Optional: true},
	}}

	tests := []struct {
		name   string
		target Type
		source Type
		want   bool
	}{
		{"literal to keyword", Number, NewNumberLiteral(1), true},
		{"keyword to literal", NewNumberLiteral(1), Number, false},
		{"any source", String, Any, true},
		{"unknown target", Unknown, Number, true},
		{"undefined to void", Void, Undefined, true},
		{"null to number", Number, Null, false},
		{"union source", String, NewUnionType(NewStringLiteral("a"), NewStringLiteral("b")), true},
		{"union target", NewUnionType(String, Number), NewNumberLiteral(2), true},
		{"tuple to array", NewArrayType(Number), NewTupleType(NewNumberLiteral(1), Number), true},
		{"array to tuple", NewTupleType(Number), NewArrayType(Number), false},
		{"structural ok", point, NewObjectType().WithProperty("x", NewNumberLiteral(1)), true},
		{"structural missing", point, NewObjectType().WithProperty("y", Number), false},
		{"structural wrong type", point, NewObjectType().WithProperty("x", String), false},
		{"primitive to object", point, Number, false},
		{"object keyword", Object, NewArrayType(Any), true},
		{"fewer params", NewFunctionType(Void, Number, String), NewFunctionType(Number, Number), true},
		{"more params", NewFunctionType(Void), NewFunctionType(Number, Number), false},
		{"return type", NewFunctionType(String), NewFunctionType(Number), false},
		{"array to Array<T>", arrayOf("Array", Number), NewArrayType(Number), true},
		{"tuple to ReadonlyArray<T>", arrayOf("ReadonlyArray", Number), NewTupleType(NewNumberLiteral(1)), true},
		{"wrong element to Array<T>", arrayOf("Array", Number), NewArrayType(String), false},
	}

	for _, tt := range tests {
		if got := Assignable(identity{}, tt.target, tt.source); got != tt.want {
			t.Errorf("%s: Assignable(%s, %s) expected %v, got %v", tt.name, tt.target, tt.source, tt.want, got)
		}
	}
}

func TestClassInheritance(t *testing.T) {
	base := &ClassType{Name: "Base", Members: []Member{
		&Method{Key: NameKey("run"), Fn: NewFunctionType(Void)},
	}}
	derived := &ClassType{Name: "Derived", Super: base, Members: []Member{
		&Property{Key: NameKey("extra"), Type: String},
	}}

	if !Assignable(identity{}, &InstanceType{Class: base}, &InstanceType{Class: derived}) {
		t.Errorf("Expected Derived to be assignable to Base")
	}
	members := Members(identity{}, &InstanceType{Class: derived})
	if len(members) != 2 {
		t.Fatalf("Expected own and inherited members, got %d", len(members))
	}
	if FindMember(members, NameKey("run")) == nil {
		t.Errorf("Expected inherited method 'run'")
	}
}

func TestSnapshotCycle(t *testing.T) {
	node := &ClassType{Name: "Node"}
	node.Members = []Member{&Property{Key: NameKey("next"), Type: &InstanceType{Class: node}}}

	cp, ok := Snapshot(node).(*ClassType)
	if !ok {
		t.Fatalf("Expected *ClassType snapshot")
	}
	if cp == node {
		t.Fatalf("Expected a detached copy")
	}
	next := cp.Members[0].(*Property).Type.(*InstanceType)
	if next.Class != cp {
		t.Errorf("Expected the copy to reference itself, got a different class")
	}
	if !cp.Equals(node) {
		t.Errorf("Expected snapshot to equal the original")
	}
}

func TestWiden(t *testing.T) {
	got := Widen(NewTupleType(NewNumberLiteral(1), NewStringLiteral("a"), NewBooleanLiteral(true)))
	if got.String() != "[number, string, boolean]" {
		t.Errorf("Expected widened tuple, got %s", got)
	}
	if Widen(NewUnionType(NewNumberLiteral(1), NewNumberLiteral(2))) != Number {
		t.Errorf("Expected 1 | 2 to widen to number")
	}
}

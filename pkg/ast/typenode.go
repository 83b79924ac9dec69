package ast

// KeywordType is a predefined type: any, unknown, number, string, boolean,
// void, null, undefined, object, symbol, bigint, never.
type KeywordType struct {
	Base
	Name string
}

// LitType is a literal type; Value is *StrLit, *NumLit, *BoolLit,
// *BigIntLit or an empty-interpolation *TemplateLit.
type LitType struct {
	Base
	Value Expr
}

// TypeRef is a named type reference with optional type arguments.
type TypeRef struct {
	Base
	Name     EntityName
	TypeArgs []TypeNode
}

// ArrayType is `T[]`.
type ArrayType struct {
	Base
	Elem TypeNode
}

// TupleType is `[A, B?, ...C[]]`.
type TupleType struct {
	Base
	Elems []TypeNode
}

// OptionalType is `T?` inside a tuple.
type OptionalType struct {
	Base
	Type TypeNode
}

// RestType is `...T` inside a tuple.
type RestType struct {
	Base
	Type TypeNode
}

// UnionType is `A | B`.
type UnionType struct {
	Base
	Types []TypeNode
}

// IntersectionType is `A & B`.
type IntersectionType struct {
	Base
	Types []TypeNode
}

// FnType is `<T>(a: A) => R` or `new (a: A) => R`.
type FnType struct {
	Base
	TypeParams  []*TypeParam
	Params      []*Param
	Ret         TypeNode
	Constructor bool
}

// TypeLit is an inline object type `{ a: A; m(): void }`.
type TypeLit struct {
	Base
	Members []TypeMember
}

// TypeQuery is `typeof a.b`.
type TypeQuery struct {
	Base
	Name EntityName
}

// ParenType is `(T)`.
type ParenType struct {
	Base
	Type TypeNode
}

// ThisType is the `this` type.
type ThisType struct{ Base }

// TypeOperator is `keyof T`, `unique symbol` or `readonly T[]`.
type TypeOperator struct {
	Base
	Op   string
	Type TypeNode
}

// UnsupportedType stands for type syntax the checker has no model for
// (conditional, mapped, indexed access, infer, template literal types).
type UnsupportedType struct {
	Base
	Kind string
}

func (*KeywordType) typeNode()      {}
func (*LitType) typeNode()          {}
func (*TypeRef) typeNode()          {}
func (*ArrayType) typeNode()        {}
func (*TupleType) typeNode()        {}
func (*OptionalType) typeNode()     {}
func (*RestType) typeNode()         {}
func (*UnionType) typeNode()        {}
func (*IntersectionType) typeNode() {}
func (*FnType) typeNode()           {}
func (*TypeLit) typeNode()          {}
func (*TypeQuery) typeNode()        {}
func (*ParenType) typeNode()        {}
func (*ThisType) typeNode()         {}
func (*TypeOperator) typeNode()     {}
func (*UnsupportedType) typeNode()  {}

// --- Interface / type literal members ---

// PropSig is `[readonly] key[?]: T`.
type PropSig struct {
	Base
	Key      *PropName
	Type     TypeNode
	Optional bool
	Readonly bool
}

// MethodSig is `key[?]<T>(params): R`.
type MethodSig struct {
	Base
	Key        *PropName
	TypeParams []*TypeParam
	Params     []*Param
	Ret        TypeNode
	Optional   bool
}

// CallSig is `<T>(params): R`.
type CallSig struct {
	Base
	TypeParams []*TypeParam
	Params     []*Param
	Ret        TypeNode
}

// ConstructSig is `new <T>(params): R`.
type ConstructSig struct {
	Base
	TypeParams []*TypeParam
	Params     []*Param
	Ret        TypeNode
}

// IndexSig is `[readonly] [key: K]: T`; it may appear in classes too.
type IndexSig struct {
	Base
	ParamName string
	KeyType   TypeNode
	Type      TypeNode
	Readonly  bool
	Static    bool
}

func (*PropSig) typeMember()      {}
func (*MethodSig) typeMember()    {}
func (*CallSig) typeMember()      {}
func (*ConstructSig) typeMember() {}
func (*IndexSig) typeMember()     {}

package types

import (
	"math"
	"strconv"
)

// Type is the interface implemented by all type representations.
type Type interface {
	// String returns a string representation of the type, suitable for debugging or printing.
	String() string
	// Equals checks if this type is structurally equivalent to another type.
	Equals(other Type) bool

	// typeNode() is a marker method to ensure only types defined in this package
	// can be assigned to the Type interface.
	typeNode()
}

// --- Primitive (keyword) Types ---

// Primitive represents a keyword type such as number or any.
type Primitive struct {
	Name string
}

func (p *Primitive) String() string { return p.Name }
func (p *Primitive) typeNode()      {}
func (p *Primitive) Equals(other Type) bool {
	// Primitives are singletons, so pointer equality is sufficient.
	return p == other
}

// Pre-defined instances for the keyword types
var (
	Any       = &Primitive{Name: "any"}
	Unknown   = &Primitive{Name: "unknown"}
	String    = &Primitive{Name: "string"}
	Number    = &Primitive{Name: "number"}
	Boolean   = &Primitive{Name: "boolean"}
	Void      = &Primitive{Name: "void"}
	Null      = &Primitive{Name: "null"}
	Undefined = &Primitive{Name: "undefined"}
	Object    = &Primitive{Name: "object"}
	Symbol    = &Primitive{Name: "symbol"}
	BigInt    = &Primitive{Name: "bigint"}
	Never     = &Primitive{Name: "never"}
)

var keywords = map[string]*Primitive{
	"any": Any, "unknown": Unknown, "string": String, "number": Number,
	"boolean": Boolean, "void": Void, "null": Null, "undefined": Undefined,
	"object": Object, "symbol": Symbol, "bigint": BigInt, "never": Never,
}

// Keyword returns the keyword type with the given name.
func Keyword(name string) (*Primitive, bool) {
	p, ok := keywords[name]
	return p, ok
}

// --- Literal Types ---

// LiteralKind is the kind of value a LiteralType holds.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
	LitBigInt
)

// LiteralType represents a specific literal value used as a type.
type LiteralType struct {
	Kind LiteralKind
	Str  string // string value, or the digits of a bigint
	Num  float64
	Bool bool
}

func NewStringLiteral(s string) *LiteralType  { return &LiteralType{Kind: LitString, Str: s} }
func NewNumberLiteral(n float64) *LiteralType { return &LiteralType{Kind: LitNumber, Num: n} }
func NewBooleanLiteral(b bool) *LiteralType   { return &LiteralType{Kind: LitBoolean, Bool: b} }
func NewBigIntLiteral(digits string) *LiteralType {
	return &LiteralType{Kind: LitBigInt, Str: digits}
}

func (lt *LiteralType) typeNode() {}
func (lt *LiteralType) String() string {
	switch lt.Kind {
	case LitString:
		return strconv.Quote(lt.Str)
	case LitNumber:
		return FormatNumber(lt.Num)
	case LitBoolean:
		return strconv.FormatBool(lt.Bool)
	default:
		return lt.Str + "n"
	}
}
func (lt *LiteralType) Equals(other Type) bool {
	o, ok := other.(*LiteralType)
	if !ok {
		return false
	}
	if lt.Kind != o.Kind {
		return false
	}
	switch lt.Kind {
	case LitNumber:
		return lt.Num == o.Num
	case LitBoolean:
		return lt.Bool == o.Bool
	default:
		return lt.Str == o.Str
	}
}

// Truthy applies JavaScript truthiness to the literal value.
func (lt *LiteralType) Truthy() bool {
	switch lt.Kind {
	case LitString:
		return lt.Str != ""
	case LitNumber:
		return lt.Num != 0 && !math.IsNaN(lt.Num)
	case LitBoolean:
		return lt.Bool
	default:
		return lt.Str != "0"
	}
}

// Keyword returns the keyword type the literal widens to.
func (lt *LiteralType) Keyword() *Primitive {
	switch lt.Kind {
	case LitString:
		return String
	case LitNumber:
		return Number
	case LitBoolean:
		return Boolean
	default:
		return BigInt
	}
}

// FormatNumber prints a number the way it appears as a property key.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// --- This ---

// ThisType is the polymorphic `this` type.
type ThisType struct{}

// This is the single ThisType instance.
var This = &ThisType{}

func (t *ThisType) String() string { return "this" }
func (t *ThisType) typeNode()      {}
func (t *ThisType) Equals(other Type) bool {
	_, ok := other.(*ThisType)
	return ok
}

// --- Helpers ---

// IsAny reports whether t is the any keyword.
func IsAny(t Type) bool { return t == Any }

// equalLists compares two type slices element by element.
func equalLists(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalTypes(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalTypes(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

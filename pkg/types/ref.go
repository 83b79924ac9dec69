package types

import (
	"strings"

	"github.com/nooga/tscheck/pkg/source"
)

// TypeRef is a named type reference as written in source. It stays lazy
// until the checker expands it against a scope.
type TypeRef struct {
	Name     []string
	TypeArgs []Type
	Span     source.Span
}

// NewTypeRef creates a reference to a single, unqualified name.
func NewTypeRef(name string, args ...Type) *TypeRef {
	return &TypeRef{Name: []string{name}, TypeArgs: args, Span: source.NoSpan}
}

// QualifiedName joins the name parts with dots.
func (tr *TypeRef) QualifiedName() string { return strings.Join(tr.Name, ".") }

func (tr *TypeRef) String() string {
	if len(tr.TypeArgs) == 0 {
		return tr.QualifiedName()
	}
	return tr.QualifiedName() + typeArgList(tr.TypeArgs)
}
func (tr *TypeRef) typeNode() {}
func (tr *TypeRef) Equals(other Type) bool {
	o, ok := other.(*TypeRef)
	return ok && tr.QualifiedName() == o.QualifiedName() && equalLists(tr.TypeArgs, o.TypeArgs)
}

// TypeQuery is `typeof a.b`, resolved through value lookup.
type TypeQuery struct {
	Name []string
	Span source.Span
}

func (tq *TypeQuery) String() string { return "typeof " + strings.Join(tq.Name, ".") }
func (tq *TypeQuery) typeNode()      {}
func (tq *TypeQuery) Equals(other Type) bool {
	o, ok := other.(*TypeQuery)
	return ok && strings.Join(tq.Name, ".") == strings.Join(o.Name, ".")
}

// OperatorType is `keyof T`, `unique symbol` or `readonly T`.
type OperatorType struct {
	Op   string
	Type Type
}

// UniqueSymbol creates the `unique symbol` type.
func UniqueSymbol() *OperatorType { return &OperatorType{Op: "unique", Type: Symbol} }

// IsUniqueSymbol reports whether t is `unique symbol`.
func IsUniqueSymbol(t Type) bool {
	o, ok := t.(*OperatorType)
	return ok && o.Op == "unique"
}

func (ot *OperatorType) String() string { return ot.Op + " " + parenthesize(ot.Type) }
func (ot *OperatorType) typeNode()      {}
func (ot *OperatorType) Equals(other Type) bool {
	o, ok := other.(*OperatorType)
	// each unique symbol declaration is its own type
	if ok && ot.Op == "unique" {
		return ot == o
	}
	return ok && ot.Op == o.Op && equalTypes(ot.Type, o.Type)
}

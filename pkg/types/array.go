package types

import "strings"

// ArrayType represents `T[]`.
type ArrayType struct {
	ElementType Type
}

func NewArrayType(elem Type) *ArrayType { return &ArrayType{ElementType: elem} }

func (at *ArrayType) String() string { return parenthesize(at.ElementType) + "[]" }
func (at *ArrayType) typeNode()      {}
func (at *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && equalTypes(at.ElementType, o.ElementType)
}

// TupleType represents a fixed-length array `[A, B]`.
type TupleType struct {
	ElementTypes []Type
}

func NewTupleType(elems ...Type) *TupleType {
	if elems == nil {
		elems = []Type{}
	}
	return &TupleType{ElementTypes: elems}
}

func (tt *TupleType) String() string {
	parts := make([]string, len(tt.ElementTypes))
	for i, t := range tt.ElementTypes {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (tt *TupleType) typeNode() {}
func (tt *TupleType) Equals(other Type) bool {
	o, ok := other.(*TupleType)
	return ok && equalLists(tt.ElementTypes, o.ElementTypes)
}

// ElementUnion is the union of all element types, or `never` for `[]`.
func (tt *TupleType) ElementUnion() Type {
	return NewUnionType(tt.ElementTypes...)
}

package types

// Widen turns literal types into their keyword type, element-wise through
// unions, arrays and tuples.
func Widen(t Type) Type {
	switch t := t.(type) {
	case *LiteralType:
		return t.Keyword()
	case *UnionType:
		out := make([]Type, len(t.Types))
		for i, m := range t.Types {
			out[i] = Widen(m)
		}
		return NewUnionType(out...)
	case *ArrayType:
		return &ArrayType{ElementType: Widen(t.ElementType)}
	case *TupleType:
		out := make([]Type, len(t.ElementTypes))
		for i, m := range t.ElementTypes {
			out[i] = Widen(m)
		}
		return &TupleType{ElementTypes: out}
	}
	return t
}

// IsStringLike is string or a string literal.
func IsStringLike(t Type) bool {
	if t == String {
		return true
	}
	lit, ok := t.(*LiteralType)
	return ok && lit.Kind == LitString
}

// IsNumberLike is number or a number literal.
func IsNumberLike(t Type) bool {
	if t == Number {
		return true
	}
	lit, ok := t.(*LiteralType)
	return ok && lit.Kind == LitNumber
}

// IsBooleanLike is boolean or a boolean literal.
func IsBooleanLike(t Type) bool {
	if t == Boolean {
		return true
	}
	lit, ok := t.(*LiteralType)
	return ok && lit.Kind == LitBoolean
}

// IsNullish is null or undefined.
func IsNullish(t Type) bool {
	return t == Null || t == Undefined
}

// IsObjectLike reports whether values of t are objects.
func IsObjectLike(t Type) bool {
	switch t := t.(type) {
	case *ObjectType, *InterfaceType, *ClassType, *InstanceType, *ArrayType, *TupleType,
		*FunctionType, *ModuleType, *TypeParameterType:
		return true
	case *Primitive:
		return t == Object
	case *IntersectionType:
		for _, m := range t.Types {
			if IsObjectLike(m) {
				return true
			}
		}
	}
	return false
}

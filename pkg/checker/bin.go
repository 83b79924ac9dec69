package checker

import (
	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

func (c *Checker) typeOfBinary(e *ast.BinaryExpr) (types.Type, error) {
	left, err := c.typeOf(e.Left, RValue)
	if err != nil {
		return nil, err
	}
	right, err := c.typeOf(e.Right, RValue)
	if err != nil {
		return nil, err
	}
	return c.binaryTypes(e.Op, left, right, e.Span(), e.Left.Span(), e.Right.Span())
}

// binaryTypes applies the operator rules to already inferred operands.
func (c *Checker) binaryTypes(op string, left, right types.Type, at, leftAt, rightAt source.Span) (types.Type, error) {
	l, r := c.enumValue(c.expandQuiet(left)), c.enumValue(c.expandQuiet(right))

	switch op {
	case "===", "!==":
		if !c.overlaps(l, r) {
			c.errorf(errors.NoOverlap, at, "this comparison appears to be unintentional because the types '%s' and '%s' have no overlap", l, r)
		}
		return types.Boolean, nil

	case "==", "!=":
		return types.Boolean, nil

	case "+":
		return c.plus(l, r, at)

	case "-", "*", "/", "%", "**", "<<", ">>", ">>>", "&", "^", "|":
		if l == types.Unknown || r == types.Unknown {
			return nil, fail(errors.Unknown, at, "object is of type 'unknown'")
		}
		switch op {
		case "&", "^", "|":
			if types.IsBooleanLike(l) && types.IsBooleanLike(r) {
				c.errorf(errors.TS2447, at, "the '%s' operator is not allowed for boolean types", op)
				return types.Number, nil
			}
		}
		if !c.arithmetic(l) {
			c.errorf(errors.TS2362, leftAt, "the left-hand side of an arithmetic operation must be of type 'any', 'number', 'bigint' or an enum type, got '%s'", l)
		}
		if !c.arithmetic(r) {
			c.errorf(errors.TS2363, rightAt, "the right-hand side of an arithmetic operation must be of type 'any', 'number', 'bigint' or an enum type, got '%s'", r)
		}
		if isBigInt(l) && isBigInt(r) {
			return types.BigInt, nil
		}
		return types.Number, nil

	case "&&", "||":
		if l == types.Void {
			c.errorf(errors.TS1345, leftAt, "an expression of type 'void' cannot be tested for truthiness")
		}
		if l == types.Any {
			return types.Any, nil
		}
		return right, nil

	case "??":
		if l == types.Any {
			return types.Any, nil
		}
		return types.NewUnionType(types.RemoveNullUndefined(l), right), nil

	case "<", "<=", ">", ">=":
		if l == types.Unknown || r == types.Unknown {
			return nil, fail(errors.Unknown, at, "object is of type 'unknown'")
		}
		return types.Boolean, nil

	case "instanceof":
		return types.Boolean, nil

	case "in":
		if !inKey(l) {
			c.errorf(errors.TS2360, leftAt, "the left-hand side of an 'in' expression must be of type 'any', 'string', 'number', or 'symbol', got '%s'", l)
		}
		if !inTarget(r) {
			c.errorf(errors.TS2361, rightAt, "the right-hand side of an 'in' expression must not be a primitive, got '%s'", r)
		}
		return types.Boolean, nil
	}
	c.errorf(errors.Unsupported, at, "unsupported binary operator '%s'", op)
	return types.Any, nil
}

// enumValue replaces an enum member reference by its literal value.
func (c *Checker) enumValue(t types.Type) types.Type {
	if em, ok := t.(*types.EnumMemberType); ok {
		if v, ok := c.EnumValue(em); ok {
			return v
		}
	}
	return t
}

// plus types `+`: string wins, any propagates, numbers add, and a boolean
// on either side of a number gives boolean. Unions are typed per member.
func (c *Checker) plus(l, r types.Type, at source.Span) (types.Type, error) {
	if l == types.Unknown || r == types.Unknown {
		return nil, fail(errors.Unknown, at, "object is of type 'unknown'")
	}
	if types.IsNullish(l) || types.IsNullish(r) {
		return nil, fail(errors.TS2365, at, "operator '+' cannot be applied to types '%s' and '%s'", l, r)
	}
	if types.IsStringLike(l) || types.IsStringLike(r) {
		return types.String, nil
	}
	if l == types.Any || r == types.Any {
		return types.Any, nil
	}
	if u, ok := l.(*types.UnionType); ok {
		return c.plusEach(u.Types, func(m types.Type) (types.Type, error) { return c.plus(c.enumValue(m), r, at) })
	}
	if u, ok := r.(*types.UnionType); ok {
		return c.plusEach(u.Types, func(m types.Type) (types.Type, error) { return c.plus(l, c.enumValue(m), at) })
	}
	ln, rn := numberish(l), numberish(r)
	switch {
	case ln && rn:
		return types.Number, nil
	case isBigInt(l) && isBigInt(r):
		return types.BigInt, nil
	case types.IsBooleanLike(l) && rn, ln && types.IsBooleanLike(r):
		return types.Boolean, nil
	}
	return nil, fail(errors.TS2365, at, "operator '+' cannot be applied to types '%s' and '%s'", l, r)
}

func (c *Checker) plusEach(members []types.Type, f func(types.Type) (types.Type, error)) (types.Type, error) {
	out := make([]types.Type, 0, len(members))
	for _, m := range members {
		t, err := f(m)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return types.NewUnionType(out...), nil
}

func numberish(t types.Type) bool {
	return types.IsNumberLike(t) || isNumericEnum(t)
}

func isBigInt(t types.Type) bool {
	if t == types.BigInt {
		return true
	}
	lit, ok := t.(*types.LiteralType)
	return ok && lit.Kind == types.LitBigInt
}

// arithmetic accepts any, number, bigint and enums.
func (c *Checker) arithmetic(t types.Type) bool {
	switch t := t.(type) {
	case *types.Primitive:
		return t == types.Any || t == types.Number || t == types.BigInt
	case *types.LiteralType:
		return t.Kind == types.LitNumber || t.Kind == types.LitBigInt
	case *types.EnumType:
		return true
	case *types.UnionType:
		for _, m := range t.Types {
			if !c.arithmetic(c.enumValue(m)) {
				return false
			}
		}
		return true
	}
	return false
}

func inKey(t types.Type) bool {
	switch t := t.(type) {
	case *types.Primitive:
		return t == types.Any || t == types.String || t == types.Number || t == types.BigInt || t == types.Symbol
	case *types.LiteralType:
		return true
	case *types.EnumType:
		return true
	case *types.OperatorType:
		return types.IsUniqueSymbol(t)
	case *types.UnionType:
		for _, m := range t.Types {
			if !inKey(m) {
				return false
			}
		}
		return true
	}
	return false
}

func inTarget(t types.Type) bool {
	if t == types.Any {
		return true
	}
	if u, ok := t.(*types.UnionType); ok {
		for _, m := range u.Types {
			if !inTarget(m) {
				return false
			}
		}
		return true
	}
	return types.IsObjectLike(t) || isEnumLike(t)
}

func isEnumLike(t types.Type) bool {
	_, ok := t.(*types.EnumType)
	return ok
}

// overlaps decides whether two types share a value, for `===` and `!==`.
func (c *Checker) overlaps(a, b types.Type) bool {
	if a == types.Any || a == types.Unknown || b == types.Any || b == types.Unknown {
		return true
	}
	if a.Equals(b) {
		return true
	}
	if types.IsNullish(a) || types.IsNullish(b) {
		return true
	}
	if u, ok := a.(*types.UnionType); ok {
		for _, m := range u.Types {
			if c.overlaps(c.enumValue(m), b) {
				return true
			}
		}
		return false
	}
	if u, ok := b.(*types.UnionType); ok {
		for _, m := range u.Types {
			if c.overlaps(a, c.enumValue(m)) {
				return true
			}
		}
		return false
	}
	la, aLit := a.(*types.LiteralType)
	lb, bLit := b.(*types.LiteralType)
	switch {
	case aLit && bLit:
		return false
	case aLit:
		if p, ok := b.(*types.Primitive); ok {
			return la.Keyword() == p
		}
		return true
	case bLit:
		if p, ok := a.(*types.Primitive); ok {
			return lb.Keyword() == p
		}
		return true
	}
	pa, aPrim := a.(*types.Primitive)
	pb, bPrim := b.(*types.Primitive)
	if aPrim && bPrim {
		return pa == pb
	}
	return true
}

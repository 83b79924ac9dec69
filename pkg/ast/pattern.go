package ast

// IdentPat binds a single name.
type IdentPat struct {
	Base
	Name     string
	Optional bool
	Type     TypeNode
}

// ArrayPat is `[a, , b]`; a nil element is a hole.
type ArrayPat struct {
	Base
	Elems []Pattern
	Type  TypeNode
}

// ObjectPat is `{ a, b: c, ...rest }`.
type ObjectPat struct {
	Base
	Props []*ObjPatProp
	Rest  *RestPat
	Type  TypeNode
}

// ObjPatProp binds the property Key to Value. Shorthand `{ a = 1 }` becomes
// Key "a" with an *AssignPat value.
type ObjPatProp struct {
	Base
	Key   string
	Value Pattern
}

// AssignPat is a pattern with a default: `a = 1`.
type AssignPat struct {
	Base
	Left  Pattern
	Right Expr
}

// RestPat is `...a`.
type RestPat struct {
	Base
	Arg  Pattern
	Type TypeNode
}

// ExprPat is an assignment target that is not a binding, such as `a.b`.
type ExprPat struct {
	Base
	X Expr
}

func (*IdentPat) patNode()  {}
func (*ArrayPat) patNode()  {}
func (*ObjectPat) patNode() {}
func (*AssignPat) patNode() {}
func (*RestPat) patNode()   {}
func (*ExprPat) patNode()   {}

// TypeAnn returns the type annotation attached to a pattern, if any.
func TypeAnn(p Pattern) TypeNode {
	switch p := p.(type) {
	case *IdentPat:
		return p.Type
	case *ArrayPat:
		return p.Type
	case *ObjectPat:
		return p.Type
	case *RestPat:
		return p.Type
	case *AssignPat:
		return TypeAnn(p.Left)
	}
	return nil
}

// BoundNames lists every name a pattern binds, in source order.
func BoundNames(p Pattern) []string {
	var names []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case *IdentPat:
			names = append(names, p.Name)
		case *ArrayPat:
			for _, e := range p.Elems {
				if e != nil {
					walk(e)
				}
			}
		case *ObjectPat:
			for _, prop := range p.Props {
				walk(prop.Value)
			}
			if p.Rest != nil {
				walk(p.Rest)
			}
		case *AssignPat:
			walk(p.Left)
		case *RestPat:
			walk(p.Arg)
		case *ExprPat:
		}
	}
	walk(p)
	return names
}

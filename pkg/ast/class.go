package ast

// Class is the body shared by class declarations and class expressions.
type Class struct {
	Base
	TypeParams    []*TypeParam
	Super         Expr
	SuperTypeArgs []TypeNode
	Implements    []*TypeRef
	Body          []ClassMember
	Abstract      bool
}

// Constructor is a constructor implementation or overload signature.
type Constructor struct {
	Base
	Params        []*Param
	Body          *BlockStmt
	Accessibility string
}

// ClassMethod is a method, getter or setter; overload signatures have no body.
type ClassMethod struct {
	Base
	Key           *PropName
	Kind          MethodKind
	Fn            *Function
	Static        bool
	Abstract      bool
	Optional      bool
	Accessibility string
}

// ClassProp is a property declaration.
type ClassProp struct {
	Base
	Key           *PropName
	Type          TypeNode
	Value         Expr
	Static        bool
	Readonly      bool
	Optional      bool
	Abstract      bool
	Declare       bool
	Accessibility string
}

// StaticBlock is `static { ... }`.
type StaticBlock struct {
	Base
	Body *BlockStmt
}

func (*Constructor) classMember() {}
func (*ClassMethod) classMember() {}
func (*ClassProp) classMember()   {}
func (*IndexSig) classMember()    {}
func (*StaticBlock) classMember() {}

// Package ast is the syntax tree consumed by the checker. Every node carries
// the source span it was parsed from. The node sets are closed: each
// category interface is sealed by an unexported marker method, so a type
// switch over a category sees every variant defined in this package.
package ast

import (
	"strings"

	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	Span() source.Span
}

// Stmt represents a statement or declaration.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression. The checker records the inferred type of
// every expression it visits.
type Expr interface {
	Node
	exprNode()
	GetComputedType() types.Type
	SetComputedType(t types.Type)
}

// TypeNode is a type annotation as written in source.
type TypeNode interface {
	Node
	typeNode()
}

// Pattern is a binding or assignment target.
type Pattern interface {
	Node
	patNode()
}

// ClassMember is an element of a class body.
type ClassMember interface {
	Node
	classMember()
}

// TypeMember is an element of an interface body or a type literal.
type TypeMember interface {
	Node
	typeMember()
}

// ObjectProp is an element of an object literal.
type ObjectProp interface {
	Node
	objectProp()
}

// --- Bases ---

// Base holds the span shared by all nodes.
type Base struct {
	At source.Span
}

func (b *Base) Span() source.Span { return b.At }

// BaseExpr holds the span and the type computed by the checker.
type BaseExpr struct {
	Base
	ComputedType types.Type
}

func (be *BaseExpr) GetComputedType() types.Type  { return be.ComputedType }
func (be *BaseExpr) SetComputedType(t types.Type) { be.ComputedType = t }
func (be *BaseExpr) exprNode()                    {}

// --- Module ---

// Module is the root node of one parsed file.
type Module struct {
	Base
	File *source.SourceFile
	Body []Stmt
}

// --- Names ---

// EntityName is a possibly qualified name such as `A.B.C`.
type EntityName []string

func (n EntityName) String() string { return strings.Join(n, ".") }

// PropKind distinguishes the syntactic forms of a property name.
type PropKind int

const (
	PropIdent PropKind = iota
	PropString
	PropNumber
	PropComputed
	PropPrivate
)

// PropName is the key of a class member, interface member, or object
// literal property.
type PropName struct {
	Base
	Kind PropKind
	Name string  // identifier, private name or string value
	Num  float64 // numeric keys
	Expr Expr    // computed keys
}

func (p *PropName) String() string {
	switch p.Kind {
	case PropString:
		return "\"" + p.Name + "\""
	case PropComputed:
		return "[computed]"
	case PropPrivate:
		return "#" + p.Name
	}
	return p.Name
}

// TypeParam is a type parameter declaration: `T extends C = D`.
type TypeParam struct {
	Base
	Name       string
	Constraint TypeNode
	Default    TypeNode
}

// Param is a function or constructor parameter.
type Param struct {
	Base
	Pat           Pattern
	Accessibility string // "public", "private", "protected" for parameter properties
	Readonly      bool
}

// IsParameterProperty reports whether the parameter declares a class property.
func (p *Param) IsParameterProperty() bool {
	return p.Accessibility != "" || p.Readonly
}

// Function holds everything shared by declarations, expressions, arrows,
// methods and accessors.
type Function struct {
	Base
	TypeParams []*TypeParam
	Params     []*Param
	Ret        TypeNode
	Body       *BlockStmt // nil for signatures and expression-bodied arrows
	ExprBody   Expr       // arrow functions with an expression body
	Async      bool
	Generator  bool
}

// HasBody reports whether the function has an implementation.
func (f *Function) HasBody() bool {
	return f.Body != nil || f.ExprBody != nil
}

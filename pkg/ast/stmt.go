package ast

// VarKind is the declaration keyword of a variable.
type VarKind int

const (
	Var VarKind = iota
	Let
	Const
)

func (k VarKind) String() string {
	switch k {
	case Let:
		return "let"
	case Const:
		return "const"
	}
	return "var"
}

// VarDecl is `var|let|const a = 1, b`.
type VarDecl struct {
	Base
	Kind    VarKind
	Declare bool
	Decls   []*VarDeclarator
}

// VarDeclarator is one binding of a VarDecl.
type VarDeclarator struct {
	Base
	Name Pattern
	Init Expr
}

// FnDecl is a function declaration or an overload signature (no body).
type FnDecl struct {
	Base
	Name    *Ident
	Fn      *Function
	Declare bool
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Base
	Name    *Ident
	Class   *Class
	Declare bool
}

// InterfaceDecl is `interface I<T> extends A, B { ... }`.
type InterfaceDecl struct {
	Base
	Name       *Ident
	TypeParams []*TypeParam
	Extends    []*TypeRef
	Body       []TypeMember
	Declare    bool
}

// TypeAliasDecl is `type A<T> = ...`.
type TypeAliasDecl struct {
	Base
	Name       *Ident
	TypeParams []*TypeParam
	Type       TypeNode
	Declare    bool
}

// EnumDecl is `[const] enum E { ... }`.
type EnumDecl struct {
	Base
	Name    *Ident
	Const   bool
	Declare bool
	Members []*EnumMember
}

// EnumMember is one enum member with an optional initializer.
type EnumMember struct {
	Base
	Name string
	Init Expr
}

// ModuleDecl is `namespace N { ... }` or `declare module "m" { ... }`.
type ModuleDecl struct {
	Base
	Name     EntityName
	Body     []Stmt
	Declare  bool
	Global   bool
	External bool // the name is a module specifier string
}

// ExprStmt is an expression statement.
type ExprStmt struct {
	Base
	X Expr
}

// BlockStmt is `{ ... }`.
type BlockStmt struct {
	Base
	Stmts []Stmt
}

// ReturnStmt is `return [arg]`.
type ReturnStmt struct {
	Base
	Arg Expr
}

// IfStmt is `if (test) cons else alt`.
type IfStmt struct {
	Base
	Test Expr
	Cons Stmt
	Alt  Stmt
}

// WhileStmt is `while (test) body`.
type WhileStmt struct {
	Base
	Test Expr
	Body Stmt
}

// DoWhileStmt is `do body while (test)`.
type DoWhileStmt struct {
	Base
	Body Stmt
	Test Expr
}

// ForStmt is `for (init; test; update) body`. Init is *VarDecl, *ExprStmt or nil.
type ForStmt struct {
	Base
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

// ForInStmt is `for (left in|of right) body`. Left is *VarDecl or a Pattern
// wrapped in *PatStmt.
type ForInStmt struct {
	Base
	Left  Stmt
	Right Expr
	Body  Stmt
	Of    bool
	Await bool
}

// PatStmt lets an assignment target stand where a statement is expected
// (the head of for-in/for-of).
type PatStmt struct {
	Base
	Pat Pattern
}

// ThrowStmt is `throw arg`.
type ThrowStmt struct {
	Base
	Arg Expr
}

// TryStmt is `try {} catch (param) {} finally {}`.
type TryStmt struct {
	Base
	Block     *BlockStmt
	Param     Pattern
	Handler   *BlockStmt
	Finalizer *BlockStmt
}

// SwitchStmt is a switch statement.
type SwitchStmt struct {
	Base
	Disc  Expr
	Cases []*SwitchCase
}

// SwitchCase is one case; Test is nil for default.
type SwitchCase struct {
	Base
	Test Expr
	Body []Stmt
}

// BreakStmt is `break [label]`.
type BreakStmt struct {
	Base
	Label string
}

// ContinueStmt is `continue [label]`.
type ContinueStmt struct {
	Base
	Label string
}

// LabeledStmt is `label: body`.
type LabeledStmt struct {
	Base
	Label string
	Body  Stmt
}

// EmptyStmt is `;`.
type EmptyStmt struct{ Base }

// --- Modules ---

// ImportKind is the form of an import specifier.
type ImportKind int

const (
	ImportNamed ImportKind = iota
	ImportDefault
	ImportNamespace
)

// ImportDecl is `import ... from "source"`.
type ImportDecl struct {
	Base
	Specs    []*ImportSpec
	Source   string
	TypeOnly bool
}

// ImportSpec binds Local to Imported from the source module.
type ImportSpec struct {
	Base
	Kind     ImportKind
	Local    string
	Imported string
}

// ExportDecl is `export <decl>`.
type ExportDecl struct {
	Base
	Decl Stmt
}

// ExportDefaultExpr is `export default <expr>`.
type ExportDefaultExpr struct {
	Base
	X Expr
}

// ExportDefaultDecl is `export default function|class|interface ...`.
type ExportDefaultDecl struct {
	Base
	Decl Stmt
}

// ExportAssign is `export = <expr>`.
type ExportAssign struct {
	Base
	X Expr
}

// ExportNamed is `export { a as b } [from "source"]`.
type ExportNamed struct {
	Base
	Specs  []*ExportSpec
	Source string
}

// ExportSpec is one `local as exported` pair.
type ExportSpec struct {
	Base
	Local    string
	Exported string
}

// ExportAll is `export * from "source"`.
type ExportAll struct {
	Base
	Source string
}

func (*VarDecl) stmtNode()           {}
func (*FnDecl) stmtNode()            {}
func (*ClassDecl) stmtNode()         {}
func (*InterfaceDecl) stmtNode()     {}
func (*TypeAliasDecl) stmtNode()     {}
func (*EnumDecl) stmtNode()          {}
func (*ModuleDecl) stmtNode()        {}
func (*ExprStmt) stmtNode()          {}
func (*BlockStmt) stmtNode()         {}
func (*ReturnStmt) stmtNode()        {}
func (*IfStmt) stmtNode()            {}
func (*WhileStmt) stmtNode()         {}
func (*DoWhileStmt) stmtNode()       {}
func (*ForStmt) stmtNode()           {}
func (*ForInStmt) stmtNode()         {}
func (*PatStmt) stmtNode()           {}
func (*ThrowStmt) stmtNode()         {}
func (*TryStmt) stmtNode()           {}
func (*SwitchStmt) stmtNode()        {}
func (*BreakStmt) stmtNode()         {}
func (*ContinueStmt) stmtNode()      {}
func (*LabeledStmt) stmtNode()       {}
func (*EmptyStmt) stmtNode()         {}
func (*ImportDecl) stmtNode()        {}
func (*ExportDecl) stmtNode()        {}
func (*ExportDefaultExpr) stmtNode() {}
func (*ExportDefaultDecl) stmtNode() {}
func (*ExportAssign) stmtNode()      {}
func (*ExportNamed) stmtNode()       {}
func (*ExportAll) stmtNode()         {}

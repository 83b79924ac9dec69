package ast

// Ident is an identifier reference.
type Ident struct {
	BaseExpr
	Name string
}

// ThisExpr is `this`.
type ThisExpr struct{ BaseExpr }

// SuperExpr is `super`, valid as a callee or member object.
type SuperExpr struct{ BaseExpr }

// StrLit is a string literal.
type StrLit struct {
	BaseExpr
	Value string
}

// NumLit is a numeric literal.
type NumLit struct {
	BaseExpr
	Value float64
	Raw   string
}

// BigIntLit is a bigint literal such as `10n`.
type BigIntLit struct {
	BaseExpr
	Raw string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	BaseExpr
	Value bool
}

// NullLit is `null`.
type NullLit struct{ BaseExpr }

// RegexLit is a regular expression literal.
type RegexLit struct {
	BaseExpr
	Pattern string
	Flags   string
}

// TemplateLit is a template string. len(Quasis) == len(Exprs)+1.
type TemplateLit struct {
	BaseExpr
	Quasis []string
	Exprs  []Expr
}

// TaggedTemplate is tag`...`.
type TaggedTemplate struct {
	BaseExpr
	Tag Expr
	Tpl *TemplateLit
}

// ArrayLit is an array literal; a nil element is a hole.
type ArrayLit struct {
	BaseExpr
	Elems []Expr
}

// SpreadElement is `...x` inside an array literal or argument list.
type SpreadElement struct {
	BaseExpr
	Arg Expr
}

// ObjectLit is an object literal.
type ObjectLit struct {
	BaseExpr
	Props []ObjectProp
}

// FnExpr is a function expression.
type FnExpr struct {
	BaseExpr
	Name *Ident
	Fn   *Function
}

// ArrowExpr is an arrow function.
type ArrowExpr struct {
	BaseExpr
	Fn *Function
}

// ClassExpr is a class expression.
type ClassExpr struct {
	BaseExpr
	Name  *Ident
	Class *Class
}

// UnaryExpr is a prefix operator: ! - + ~ typeof void delete.
type UnaryExpr struct {
	BaseExpr
	Op  string
	Arg Expr
}

// UpdateExpr is ++ or --.
type UpdateExpr struct {
	BaseExpr
	Op     string
	Prefix bool
	Arg    Expr
}

// BinaryExpr covers arithmetic, comparison, logical and relational operators.
type BinaryExpr struct {
	BaseExpr
	Op    string
	Left  Expr
	Right Expr
}

// AssignExpr is `=` or a compound assignment.
type AssignExpr struct {
	BaseExpr
	Op    string
	Left  Pattern
	Right Expr
}

// CondExpr is `test ? cons : alt`.
type CondExpr struct {
	BaseExpr
	Test Expr
	Cons Expr
	Alt  Expr
}

// CallExpr is a call; Callee may be *SuperExpr.
type CallExpr struct {
	BaseExpr
	Callee   Expr
	TypeArgs []TypeNode
	Args     []Expr
	Optional bool
}

// NewExpr is `new C<T>(args)`.
type NewExpr struct {
	BaseExpr
	Callee   Expr
	TypeArgs []TypeNode
	Args     []Expr
}

// MemberExpr is `obj.prop` or `obj[prop]`. Prop is *Ident unless Computed.
type MemberExpr struct {
	BaseExpr
	Obj      Expr
	Prop     Expr
	Computed bool
	Optional bool
}

// SeqExpr is a comma sequence with at least one element.
type SeqExpr struct {
	BaseExpr
	Exprs []Expr
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	BaseExpr
	X Expr
}

// AsExpr is `x as T`, `<T>x` or `x satisfies T`.
type AsExpr struct {
	BaseExpr
	X    Expr
	Type TypeNode
	Kind string // "as", "assert", "satisfies"
}

// NonNullExpr is `x!`.
type NonNullExpr struct {
	BaseExpr
	X Expr
}

// AwaitExpr is `await x`.
type AwaitExpr struct {
	BaseExpr
	X Expr
}

// YieldExpr is `yield x` or `yield* x`.
type YieldExpr struct {
	BaseExpr
	X        Expr
	Delegate bool
}

// MetaProp is `new.target` or `import.meta`.
type MetaProp struct {
	BaseExpr
	Meta string
	Prop string
}

// InvalidExpr stands in for source the parser could not make sense of.
type InvalidExpr struct{ BaseExpr }

// --- Object literal properties ---

// KeyValueProp is `key: value`.
type KeyValueProp struct {
	Base
	Key   *PropName
	Value Expr
}

// ShorthandProp is `{ x }`.
type ShorthandProp struct {
	Base
	Name *Ident
}

// MethodKind distinguishes methods from accessors.
type MethodKind int

const (
	MethodNormal MethodKind = iota
	MethodGetter
	MethodSetter
)

// MethodProp is a method, getter or setter inside an object literal.
type MethodProp struct {
	Base
	Key  *PropName
	Kind MethodKind
	Fn   *Function
}

// SpreadProp is `{ ...x }`.
type SpreadProp struct {
	Base
	Arg Expr
}

func (*KeyValueProp) objectProp()  {}
func (*ShorthandProp) objectProp() {}
func (*MethodProp) objectProp()    {}
func (*SpreadProp) objectProp()    {}

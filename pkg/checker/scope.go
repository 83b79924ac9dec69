package checker

import (
	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/types"
)

// ScopeKind is the lexical construct a scope belongs to.
type ScopeKind int

const (
	ModuleScope ScopeKind = iota
	FunctionScope
	ArrowScope
	BlockScope
	ClassScope
	NamespaceScope
)

// BindingKind is how a name was introduced.
type BindingKind int

const (
	BindVar BindingKind = iota
	BindLet
	BindConst
	BindParam
	BindFunction
	BindClass
	BindEnum
	BindNamespace
	BindImport
)

func bindingFor(k ast.VarKind) BindingKind {
	switch k {
	case ast.Let:
		return BindLet
	case ast.Const:
		return BindConst
	}
	return BindVar
}

// VarInfo is a value binding.
type VarInfo struct {
	Kind        BindingKind
	Type        types.Type
	Initialized bool

	hoisted bool          // declared ahead of its statement
	lazy    *lazyFunction // function whose return type is inferred on demand
}

// lazyFunction is a hoisted function declaration. Its signature is known
// up front; an unannotated return type is inferred when first needed.
type lazyFunction struct {
	fn    *ast.Function
	typ   *types.FunctionType
	scope *Scope
}

// Scope is one lexical environment. The parent link is never owned: a
// scope lives exactly as long as the validation of its construct.
type Scope struct {
	kind      ScopeKind
	parent    *Scope
	vars      map[string]*VarInfo
	types     map[string][]types.Type
	declaring map[string]bool
	this      types.Type
	className string
	errs      []*errors.TypeError
}

func newScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		kind:      kind,
		parent:    parent,
		vars:      map[string]*VarInfo{},
		types:     map[string][]types.Type{},
		declaring: map[string]bool{},
	}
}

// isFunctionBoundary reports whether code in this scope runs later than
// the code around it.
func (s *Scope) isFunctionBoundary() bool {
	return s.kind == FunctionScope || s.kind == ArrowScope
}

// withChild runs fn in a new scope under the current one, then merges the
// child's diagnostics into the current scope. The child's bindings vanish.
func (c *Checker) withChild(kind ScopeKind, ctx Ctx, fn func(s *Scope) error) error {
	parent, saved := c.scope, c.ctx
	child := newScope(kind, parent)
	c.scope, c.ctx = child, ctx
	defer func() {
		c.scope, c.ctx = parent, saved
		parent.errs = append(parent.errs, child.errs...)
	}()
	return fn(child)
}

// lookup is the result of walking the scope chain for a value name.
type lookup struct {
	info      *VarInfo
	scope     *Scope
	declaring bool // the name is being initialized in scope
	deferred  bool // a function boundary lies between the use and scope
}

// findVar walks outward for a value binding. A name that is currently
// being declared stops the walk.
func (c *Checker) findVar(name string) (lookup, bool) {
	deferred := false
	for s := c.scope; s != nil; s = s.parent {
		if s.declaring[name] {
			return lookup{scope: s, declaring: true, deferred: deferred}, true
		}
		if info, ok := s.vars[name]; ok {
			return lookup{info: info, scope: s, deferred: deferred}, true
		}
		if s.isFunctionBoundary() {
			deferred = true
		}
	}
	return lookup{}, false
}

// findVarType returns the type bound to name, if any.
func (c *Checker) findVarType(name string) (types.Type, bool) {
	l, ok := c.findVar(name)
	if !ok || l.info == nil {
		return nil, false
	}
	return l.info.Type, true
}

// findType walks outward for a type binding and returns every declaration
// merged under the name in the innermost scope that has one.
func (c *Checker) findType(name string) []types.Type {
	for s := c.scope; s != nil; s = s.parent {
		if ts, ok := s.types[name]; ok && len(ts) > 0 {
			return ts
		}
	}
	return nil
}

// thisType is the type of `this` at the current position.
func (c *Checker) thisType() types.Type {
	for s := c.scope; s != nil; s = s.parent {
		if s.this != nil {
			return s.this
		}
	}
	return types.Any
}

// enclosingClass returns the name of the class whose body is being
// validated, if any.
func (c *Checker) enclosingClass() string {
	for s := c.scope; s != nil; s = s.parent {
		if s.className != "" {
			return s.className
		}
	}
	return ""
}

// beginDeclaring adds names to the declaring set of the current scope and
// returns the function removing them again.
func (c *Checker) beginDeclaring(names []string) func() {
	s := c.scope
	var added []string
	for _, n := range names {
		if !s.declaring[n] {
			s.declaring[n] = true
			added = append(added, n)
		}
	}
	return func() {
		for _, n := range added {
			delete(s.declaring, n)
		}
	}
}

// Package checker is the static analyzer: it resolves names against nested
// scopes, expands type references, infers the type of every expression,
// resolves members and calls, validates classes, and binds module exports.
package checker

import (
	"fmt"
	"sort"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/builtins"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

const checkerDebug = false

func debugPrintf(format string, args ...interface{}) {
	if checkerDebug {
		fmt.Printf(format, args...)
	}
}

// Options configures a Checker.
type Options struct {
	// Imports maps an import source ("./util") to the module it resolves to.
	// Unknown sources bind their imported names to any.
	Imports map[string]*types.ModuleType
	// AllowUnreachableCode silences diagnostics for statements after a
	// return, throw, break or continue.
	AllowUnreachableCode bool
	// Strict reports parameters without a type annotation.
	Strict bool
}

// ModuleInfo is the result of checking one module.
type ModuleInfo struct {
	Exports *types.Exports
	Errors  []*errors.TypeError
}

// PendingExport is an `export default x` / `export = x` whose target is
// declared later in the module.
type PendingExport struct {
	Name string // export name: "default" or "export="
	Expr ast.Expr
	Span source.Span
}

// Mode says whether an expression is read or written.
type Mode int

const (
	RValue Mode = iota
	LValue
)

// Ctx is the validation context saved and restored around child scopes.
type Ctx struct {
	InDeclare  bool // ambient context: bodies are not allowed
	InCondTest bool // test position of a conditional expression
	InCtor     bool // constructor body: readonly properties of this are writable
	Namespace  *types.ModuleType
}

// funcContext collects what a function body returns.
type funcContext struct {
	declared  types.Type
	returns   []types.Type // types of `return x`
	bare      bool         // a `return` without a value was seen
	async     bool
	generator bool
}

// returnTypes holds return types inferred ahead of a function's own
// declaration, keyed by the function's span. An entry is consumed by its
// first reader.
type returnTypes struct {
	m map[source.Span]types.Type
}

func (r *returnTypes) store(at source.Span, t types.Type) {
	r.m[at] = t
}

func (r *returnTypes) take(at source.Span) (types.Type, bool) {
	t, ok := r.m[at]
	if ok {
		delete(r.m, at)
	}
	return t, ok
}

// Checker checks one module at a time. It is not safe for concurrent use;
// run one Checker per goroutine and share the builtins.
type Checker struct {
	builtins builtins.Provider
	opts     Options

	scope   *Scope
	ctx     Ctx
	fn      *funcContext
	returns *returnTypes

	imports        map[string]types.Type
	info           *ModuleInfo
	pending        []PendingExport
	explicitExport bool

	// class types by declaration, created when the name is hoisted
	classes map[*ast.Class]*types.ClassType
	// `declare module "name"` blocks, importable by name
	ambient map[string]*types.ModuleType
	// declarations built when hoisted, looked up again by their statements
	interfaces map[*ast.InterfaceDecl]*types.InterfaceType
	aliases    map[*ast.TypeAliasDecl]*types.AliasType
	namespaces map[*ast.ModuleDecl]*types.ModuleType
	// aliases being expanded, to stop recursion
	expanding map[*types.AliasType]bool
}

// New creates a checker resolving global names through b.
func New(b builtins.Provider, opts Options) *Checker {
	return &Checker{builtins: b, opts: opts}
}

// Check validates a module and returns its exports and diagnostics. The
// tree is annotated in place: every visited expression carries its type.
func (c *Checker) Check(module *ast.Module) *ModuleInfo {
	c.scope = newScope(ModuleScope, nil)
	c.ctx = Ctx{}
	c.fn = nil
	c.returns = &returnTypes{m: map[source.Span]types.Type{}}
	c.imports = map[string]types.Type{}
	c.info = &ModuleInfo{Exports: types.NewExports()}
	c.pending = nil
	c.explicitExport = false
	c.expanding = map[*types.AliasType]bool{}
	c.classes = map[*ast.Class]*types.ClassType{}
	c.ambient = map[string]*types.ModuleType{}
	c.interfaces = map[*ast.InterfaceDecl]*types.InterfaceType{}
	c.aliases = map[*ast.TypeAliasDecl]*types.AliasType{}
	c.namespaces = map[*ast.ModuleDecl]*types.ModuleType{}

	debugPrintf("// [Checker] module %s: %d statements\n", fileName(module), len(module.Body))

	c.checkStmts(module.Body)
	c.drainPending()
	if !c.explicitExport {
		c.exportScope(c.scope)
	}
	c.info.Exports = types.SnapshotExports(c.info.Exports)

	errs := c.scope.errs
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].At.Before(errs[j].At) })
	c.info.Errors = errs
	return c.info
}

func fileName(m *ast.Module) string {
	if m.File == nil {
		return "<unknown>"
	}
	return m.File.DisplayPath()
}

// --- Diagnostics ---

// addError records a recoverable diagnostic in the current scope.
func (c *Checker) addError(err *errors.TypeError) {
	debugPrintf("// [Checker] %s\n", err.Error())
	c.scope.errs = append(c.scope.errs, err)
}

func (c *Checker) errorf(code errors.Code, at source.Span, format string, args ...interface{}) {
	c.addError(errors.NewTypeError(code, at, format, args...))
}

// fail builds an error to be returned up the inference chain.
func fail(code errors.Code, at source.Span, format string, args ...interface{}) error {
	return errors.NewTypeError(code, at, format, args...)
}

// record stores an error returned by an inference function.
func (c *Checker) record(err error) {
	if err == nil {
		return
	}
	if te, ok := err.(*errors.TypeError); ok {
		c.addError(te)
		return
	}
	c.addError(errors.NewTypeError(errors.Unsupported, source.NoSpan, "%v", err).CausedBy(err))
}

// anyOnError records err and substitutes any, the common way to continue
// after a failed sub-expression.
func (c *Checker) anyOnError(t types.Type, err error) types.Type {
	if err != nil {
		c.record(err)
		return types.Any
	}
	if t == nil {
		return types.Any
	}
	return t
}

func codeOf(err error) (errors.Code, bool) {
	te, ok := err.(*errors.TypeError)
	if !ok {
		return 0, false
	}
	return te.Code, true
}

func orAny(t types.Type) types.Type {
	if t == nil {
		return types.Any
	}
	return t
}

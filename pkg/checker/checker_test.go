package checker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/builtins"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

// tb builds syntax trees by hand. Every node gets a distinct span so that
// diagnostics and per-function tables can tell nodes apart.
type tb struct{ pos int }

func (b *tb) span() source.Span {
	b.pos += 2
	return source.Span{Lo: b.pos, Hi: b.pos + 1}
}

func (b *tb) base() ast.Base { return ast.Base{At: b.span()} }

func (b *tb) bx() ast.BaseExpr { return ast.BaseExpr{Base: b.base()} }

func (b *tb) ident(name string) *ast.Ident { return &ast.Ident{BaseExpr: b.bx(), Name: name} }

func (b *tb) num(v float64) *ast.NumLit { return &ast.NumLit{BaseExpr: b.bx(), Value: v} }

func (b *tb) str(s string) *ast.StrLit { return &ast.StrLit{BaseExpr: b.bx(), Value: s} }

func (b *tb) boolean(v bool) *ast.BoolLit { return &ast.BoolLit{BaseExpr: b.bx(), Value: v} }

func (b *tb) bin(op string, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{BaseExpr: b.bx(), Op: op, Left: l, Right: r}
}

func (b *tb) array(elems ...ast.Expr) *ast.ArrayLit { return &ast.ArrayLit{BaseExpr: b.bx(), Elems: elems} }

func (b *tb) kw(name string) *ast.KeywordType { return &ast.KeywordType{Base: b.base(), Name: name} }

func (b *tb) pat(name string, typ ast.TypeNode) *ast.IdentPat {
	return &ast.IdentPat{Base: b.base(), Name: name, Type: typ}
}

func (b *tb) decl(kind ast.VarKind, name string, init ast.Expr) *ast.VarDecl {
	return &ast.VarDecl{Base: b.base(), Kind: kind, Decls: []*ast.VarDeclarator{
		{Base: b.base(), Name: b.pat(name, nil), Init: init},
	}}
}

func (b *tb) param(name string, typ ast.TypeNode) *ast.Param {
	return &ast.Param{Base: b.base(), Pat: b.pat(name, typ)}
}

func (b *tb) block(stmts ...ast.Stmt) *ast.BlockStmt { return &ast.BlockStmt{Base: b.base(), Stmts: stmts} }

func (b *tb) ret(x ast.Expr) *ast.ReturnStmt { return &ast.ReturnStmt{Base: b.base(), Arg: x} }

func (b *tb) fn(name string, params []*ast.Param, body ...ast.Stmt) *ast.FnDecl {
	return &ast.FnDecl{Base: b.base(), Name: b.ident(name), Fn: &ast.Function{Base: b.base(), Params: params, Body: b.block(body...)}}
}

func (b *tb) call(callee ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{BaseExpr: b.bx(), Callee: callee, Args: args}
}

func (b *tb) module(stmts ...ast.Stmt) *ast.Module {
	return &ast.Module{Base: b.base(), File: source.NewInlineSource(""), Body: stmts}
}

func newTestChecker(t *testing.T, opts Options) *Checker {
	t.Helper()
	reg, err := builtins.NewRegistry()
	require.NoError(t, err)
	return New(reg, opts)
}

func check(t *testing.T, m *ast.Module) *ModuleInfo {
	t.Helper()
	return newTestChecker(t, Options{}).Check(m)
}

func codes(errs []*errors.TypeError) []errors.Code {
	out := make([]errors.Code, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func countCode(errs []*errors.TypeError, code errors.Code) int {
	n := 0
	for _, e := range errs {
		if e.Code == code {
			n++
		}
	}
	return n
}

func TestNumberPlusNumber(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		b.decl(ast.Const, "x", b.bin("+", b.num(1), b.num(2))),
		b.decl(ast.Const, "s", b.bin("+", b.num(1), b.str("a"))),
	))
	require.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.Exports.Vars["x"])
	assert.Equal(t, types.String, info.Exports.Vars["s"])
}

func TestPlusRejectsNull(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		b.decl(ast.Let, "x", b.bin("+", b.num(1), &ast.NullLit{BaseExpr: b.bx()})),
	))
	assert.Equal(t, []errors.Code{errors.TS2365}, codes(info.Errors))
	assert.Equal(t, types.Any, info.Exports.Vars["x"])
}

func TestArrayLiteralIsTuple(t *testing.T) {
	b := &tb{}
	empty := b.array()
	mixed := b.array(b.num(1), b.str("a"), b.boolean(true))
	info := check(t, b.module(
		&ast.ExprStmt{Base: b.base(), X: empty},
		&ast.ExprStmt{Base: b.base(), X: mixed},
	))
	require.Empty(t, info.Errors)

	if !types.NewTupleType().Equals(empty.GetComputedType()) {
		t.Errorf("Expected empty tuple, got %s", empty.GetComputedType())
	}
	want := types.NewTupleType(types.NewNumberLiteral(1), types.NewStringLiteral("a"), types.NewBooleanLiteral(true))
	if !want.Equals(mixed.GetComputedType()) {
		t.Errorf("Expected %s, got %s", want, mixed.GetComputedType())
	}
}

func TestLetWidensConstKeepsLiteral(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		b.decl(ast.Let, "a", b.num(1)),
		b.decl(ast.Const, "c", b.num(1)),
	))
	require.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.Exports.Vars["a"])
	assert.True(t, types.NewNumberLiteral(1).Equals(info.Exports.Vars["c"]))
}

func TestReadonlyProperty(t *testing.T) {
	c := newTestChecker(t, Options{})
	c.Check(&ast.Module{})

	iface := &types.InterfaceType{Name: "I", Members: []types.Member{
		&types.Property{Key: types.NameKey("x"), Type: types.Number, Readonly: true},
	}}
	x := propRef{key: types.NameKey("x"), literal: true}

	_, err := c.accessProperty(iface, x, LValue)
	code, ok := codeOf(err)
	require.True(t, ok, "expected a type error, got %v", err)
	assert.Equal(t, errors.ReadOnly, code)

	got, err := c.accessProperty(iface, x, RValue)
	require.NoError(t, err)
	assert.Equal(t, types.Number, got)
}

func TestTupleIndex(t *testing.T) {
	c := newTestChecker(t, Options{})
	c.Check(&ast.Module{})
	tuple := types.NewTupleType(types.Number, types.String)

	_, err := c.accessProperty(tuple, propRef{key: types.NumberKey(2), literal: true, isNum: true, num: 2}, RValue)
	require.Error(t, err)
	code, _ := codeOf(err)
	assert.Equal(t, errors.TupleIndexError, code)
	assert.Contains(t, err.Error(), "index=2, len=2")

	got, err := c.accessProperty(tuple, propRef{key: types.NumberKey(1), literal: true, isNum: true, num: 1}, RValue)
	require.NoError(t, err)
	assert.Equal(t, types.String, got)

	got, err = c.accessProperty(tuple, propRef{index: types.Number}, RValue)
	require.NoError(t, err)
	if !types.NewUnionType(types.Number, types.String).Equals(got) {
		t.Errorf("Expected number | string, got %s", got)
	}
}

func TestSelfReferenceInInitializer(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(b.decl(ast.Let, "a", b.ident("a"))))
	assert.Equal(t, []errors.Code{errors.ReferencedInInit}, codes(info.Errors))

	b = &tb{}
	cond := &ast.CondExpr{BaseExpr: b.bx(), Test: b.ident("a"), Cons: b.num(1), Alt: b.num(2)}
	info = check(t, b.module(b.decl(ast.Let, "a", cond)))
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.Exports.Vars["a"])
}

func TestUseAcrossFunctionBoundary(t *testing.T) {
	b := &tb{}
	arrow := &ast.ArrowExpr{BaseExpr: b.bx(), Fn: &ast.Function{Base: b.base(), ExprBody: b.ident("f")}}
	info := check(t, b.module(b.decl(ast.Const, "f", arrow)))
	assert.Empty(t, info.Errors)
}

func TestUndefinedName(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(&ast.ExprStmt{Base: b.base(), X: b.ident("nope")}))
	assert.Equal(t, []errors.Code{errors.UndefinedSymbol}, codes(info.Errors))
}

func TestConstructorOverloadArity(t *testing.T) {
	b := &tb{}
	ctor := func(body *ast.BlockStmt, params ...*ast.Param) *ast.Constructor {
		return &ast.Constructor{Base: b.base(), Params: params, Body: body}
	}
	cls := &ast.Class{Base: b.base(), Body: []ast.ClassMember{
		ctor(nil, b.param("a", b.kw("number"))),
		ctor(nil, b.param("a", b.kw("number")), b.param("b", b.kw("string"))),
		ctor(b.block(), b.param("a", b.kw("any")), &ast.Param{Base: b.base(), Pat: &ast.IdentPat{Base: b.base(), Name: "b", Optional: true}}),
	}}
	info := check(t, b.module(&ast.ClassDecl{Base: b.base(), Name: b.ident("C"), Class: cls}))
	require.Equal(t, 1, countCode(info.Errors, errors.TS2394), "diagnostics: %v", info.Errors)
	for _, e := range info.Errors {
		if e.Code == errors.TS2394 {
			assert.Equal(t, cls.Body[0].Span(), e.At)
		}
	}
}

func TestFallbackExports(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		b.decl(ast.Const, "a", b.num(1)),
		b.decl(ast.Let, "b", b.str("x")),
		&ast.TypeAliasDecl{Base: b.base(), Name: b.ident("N"), Type: b.kw("number")},
	))
	require.Empty(t, info.Errors)
	assert.ElementsMatch(t, []string{"a", "b"}, keys(info.Exports.Vars))
	assert.Contains(t, info.Exports.Types, "N")
}

func TestExplicitExportsOnly(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		&ast.ExportDecl{Base: b.base(), Decl: b.decl(ast.Const, "a", b.num(1))},
		b.decl(ast.Const, "hidden", b.num(2)),
	))
	require.Empty(t, info.Errors)
	assert.Equal(t, []string{"a"}, keys(info.Exports.Vars))
}

func TestExportDefaultBeforeDeclaration(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		&ast.ExportDefaultExpr{Base: b.base(), X: b.ident("later")},
		b.decl(ast.Const, "later", b.str("v")),
	))
	require.Empty(t, info.Errors)
	assert.True(t, types.NewStringLiteral("v").Equals(info.Exports.Vars["default"]))
}

func TestUnresolvedExport(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(&ast.ExportDefaultExpr{Base: b.base(), X: b.ident("missing")}))
	assert.Equal(t, []errors.Code{errors.UnresolvedExport}, codes(info.Errors))
}

func TestImportFromKnownModule(t *testing.T) {
	dep := &types.ModuleType{Name: "./dep", Exports: types.NewExports()}
	dep.Exports.Vars["n"] = types.Number

	b := &tb{}
	x := b.ident("n")
	m := b.module(
		&ast.ImportDecl{Base: b.base(), Source: "./dep", Specs: []*ast.ImportSpec{
			{Base: b.base(), Kind: ast.ImportNamed, Local: "n", Imported: "n"},
			{Base: b.base(), Kind: ast.ImportNamed, Local: "gone", Imported: "gone"},
		}},
		&ast.ExprStmt{Base: b.base(), X: x},
	)
	info := newTestChecker(t, Options{Imports: map[string]*types.ModuleType{"./dep": dep}}).Check(m)
	assert.Equal(t, []errors.Code{errors.NoSuchProperty}, codes(info.Errors))
	assert.Equal(t, types.Number, x.GetComputedType())
}

func TestFunctionReturnInference(t *testing.T) {
	b := &tb{}
	use := b.call(b.ident("f"))
	info := check(t, b.module(
		b.decl(ast.Const, "r", use),
		b.fn("f", nil, b.ret(b.num(1))),
	))
	require.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.Exports.Vars["r"])

	f, ok := info.Exports.Vars["f"].(*types.FunctionType)
	require.True(t, ok, "expected a function, got %T", info.Exports.Vars["f"])
	assert.Equal(t, types.Number, f.ReturnType)
}

func TestWrongArgumentCount(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		b.fn("f", []*ast.Param{b.param("a", b.kw("number"))}, b.ret(b.ident("a"))),
		&ast.ExprStmt{Base: b.base(), X: b.call(b.ident("f"))},
	))
	assert.Equal(t, []errors.Code{errors.WrongParams}, codes(info.Errors))
}

func TestArgumentNotAssignable(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		b.fn("f", []*ast.Param{b.param("a", b.kw("number"))}, b.ret(b.ident("a"))),
		&ast.ExprStmt{Base: b.base(), X: b.call(b.ident("f"), b.str("x"))},
	))
	assert.Equal(t, []errors.Code{errors.AssignFailed}, codes(info.Errors))
}

func TestGenericInference(t *testing.T) {
	b := &tb{}
	id := b.fn("id", []*ast.Param{b.param("x", &ast.TypeRef{Base: b.base(), Name: ast.EntityName{"T"}})}, b.ret(b.ident("x")))
	id.Fn.TypeParams = []*ast.TypeParam{{Base: b.base(), Name: "T"}}
	id.Fn.Ret = &ast.TypeRef{Base: b.base(), Name: ast.EntityName{"T"}}

	info := check(t, b.module(id, b.decl(ast.Let, "n", b.call(b.ident("id"), b.num(5)))))
	require.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.Exports.Vars["n"])
}

func TestMissingReturn(t *testing.T) {
	b := &tb{}
	f := b.fn("f", nil)
	f.Fn.Ret = b.kw("number")
	info := check(t, b.module(f))
	assert.Equal(t, []errors.Code{errors.ReturnRequired}, codes(info.Errors))
}

func TestInvalidRegExp(t *testing.T) {
	b := &tb{}
	bad := &ast.RegexLit{BaseExpr: b.bx(), Pattern: "(", Flags: "g"}
	flags := &ast.RegexLit{BaseExpr: b.bx(), Pattern: "a", Flags: "gg"}
	ok := &ast.RegexLit{BaseExpr: b.bx(), Pattern: `\d+`, Flags: "gi"}
	info := check(t, b.module(
		&ast.ExprStmt{Base: b.base(), X: bad},
		&ast.ExprStmt{Base: b.base(), X: flags},
		&ast.ExprStmt{Base: b.base(), X: ok},
	))
	assert.Equal(t, []errors.Code{errors.InvalidRegExp, errors.InvalidRegExp}, codes(info.Errors))
}

func TestEnumMembers(t *testing.T) {
	b := &tb{}
	enum := &ast.EnumDecl{Base: b.base(), Name: b.ident("E"), Members: []*ast.EnumMember{
		{Base: b.base(), Name: "A"},
		{Base: b.base(), Name: "B", Init: b.num(5)},
		{Base: b.base(), Name: "C"},
	}}
	access := &ast.MemberExpr{BaseExpr: b.bx(), Obj: b.ident("E"), Prop: b.ident("C")}
	info := check(t, b.module(enum, &ast.ExprStmt{Base: b.base(), X: access}))
	require.Empty(t, info.Errors)
	assert.True(t, types.NewNumberLiteral(6).Equals(access.GetComputedType()), "got %s", access.GetComputedType())
}

func TestUnreachableCode(t *testing.T) {
	body := func(b *tb) *ast.FnDecl {
		return b.fn("f", nil,
			b.ret(b.num(1)),
			&ast.ExprStmt{Base: b.base(), X: b.num(2)},
			&ast.ExprStmt{Base: b.base(), X: b.num(3)},
		)
	}
	b := &tb{}
	info := check(t, b.module(body(b)))
	assert.Equal(t, []errors.Code{errors.Unreachable}, codes(info.Errors))

	b = &tb{}
	info = newTestChecker(t, Options{AllowUnreachableCode: true}).Check(b.module(body(b)))
	assert.Empty(t, info.Errors)
}

func TestStrictReportsUntypedParams(t *testing.T) {
	b := &tb{}
	m := b.module(b.fn("f", []*ast.Param{b.param("a", nil)}, b.ret(b.ident("a"))))
	info := newTestChecker(t, Options{Strict: true}).Check(m)
	assert.Equal(t, []errors.Code{errors.ImplicitAny}, codes(info.Errors))
}

func TestDuplicateLet(t *testing.T) {
	b := &tb{}
	info := check(t, b.module(
		b.decl(ast.Let, "a", b.num(1)),
		b.decl(ast.Let, "a", b.num(2)),
	))
	assert.Equal(t, []errors.Code{errors.DuplicateDeclaration}, codes(info.Errors))
}

func TestExpandIsIdempotent(t *testing.T) {
	b := &tb{}
	alias := &ast.TypeAliasDecl{Base: b.base(), Name: b.ident("A"),
		Type: &ast.ArrayType{Base: b.base(), Elem: &ast.UnionType{Base: b.base(), Types: []ast.TypeNode{b.kw("number"), b.kw("string")}}}}
	c := newTestChecker(t, Options{})
	info := c.Check(b.module(alias))
	require.Empty(t, info.Errors)

	decl := info.Exports.Types["A"][0]
	once := c.Expand(decl)
	twice := c.Expand(once)
	if !once.Equals(twice) {
		t.Errorf("Expected expansion to be stable, got %s then %s", once, twice)
	}
	assert.True(t, strings.HasSuffix(once.String(), "[]"), "got %s", once)

	c, info = checkCode(t, "type N = number;\nlet x: N = 1;\n")
	require.Empty(t, info.Errors)
	once = c.Expand(&types.TypeQuery{Name: []string{"x"}})
	twice = c.Expand(once)
	if !once.Equals(twice) {
		t.Errorf("Expected expansion of typeof x to be stable, got %s then %s", once, twice)
	}
	assert.Equal(t, types.Number, once)
}

func TestCheckIsRepeatable(t *testing.T) {
	b := &tb{}
	m := b.module(b.decl(ast.Let, "a", b.ident("a")))
	c := newTestChecker(t, Options{})
	first := c.Check(m)
	second := c.Check(m)
	assert.Equal(t, codes(first.Errors), codes(second.Errors))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

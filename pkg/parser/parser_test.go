package parser

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
)

func parse(t *testing.T, code string) *ast.Module {
	t.Helper()
	m, err := ParseString(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func only[T any](t *testing.T, m *ast.Module) T {
	t.Helper()
	require.Len(t, m.Body, 1)
	s, ok := m.Body[0].(T)
	require.Truef(t, ok, "Expected %T, got %T", s, m.Body[0])
	return s
}

func TestParseVarDecl(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.VarKind
		names []string
	}{
		{"var a = 1;", ast.Var, []string{"a"}},
		{"let a, b = 2;", ast.Let, []string{"a", "b"}},
		{"const a = 1, b = 'x';", ast.Const, []string{"a", "b"}},
	}
	for _, tt := range tests {
		d := only[*ast.VarDecl](t, parse(t, tt.input))
		if d.Kind != tt.kind {
			t.Errorf("%q: Expected kind %s, got %s", tt.input, tt.kind, d.Kind)
		}
		var names []string
		for _, decl := range d.Decls {
			names = append(names, ast.BoundNames(decl.Name)...)
		}
		assert.Equal(t, tt.names, names, tt.input)
	}
}

func TestParseTypeAnnotation(t *testing.T) {
	d := only[*ast.VarDecl](t, parse(t, "let x: number | string[] = 1;"))
	id, ok := d.Decls[0].Name.(*ast.IdentPat)
	require.True(t, ok)
	u, ok := id.Type.(*ast.UnionType)
	require.Truef(t, ok, "Expected union type, got %T", id.Type)
	require.Len(t, u.Types, 2)
	kw, ok := u.Types[0].(*ast.KeywordType)
	require.True(t, ok)
	assert.Equal(t, "number", kw.Name)
	arr, ok := u.Types[1].(*ast.ArrayType)
	require.True(t, ok)
	assert.Equal(t, "string", arr.Elem.(*ast.KeywordType).Name)

	num, ok := d.Decls[0].Init.(*ast.NumLit)
	require.True(t, ok)
	assert.Equal(t, 1.0, num.Value)
}

func TestParseUnionFlattens(t *testing.T) {
	d := only[*ast.TypeAliasDecl](t, parse(t, "type T = 'a' | 'b' | 'c';"))
	u, ok := d.Type.(*ast.UnionType)
	require.True(t, ok)
	require.Len(t, u.Types, 3)
	for i, want := range []string{"a", "b", "c"} {
		lit, ok := u.Types[i].(*ast.LitType)
		require.True(t, ok)
		assert.Equal(t, want, lit.Value.(*ast.StrLit).Value)
	}
}

func TestParseFunction(t *testing.T) {
	d := only[*ast.FnDecl](t, parse(t, "function id<T>(x: T, y?: number, ...rest: string[]): T { return x; }"))
	require.NotNil(t, d.Name)
	assert.Equal(t, "id", d.Name.Name)
	require.Len(t, d.Fn.TypeParams, 1)
	assert.Equal(t, "T", d.Fn.TypeParams[0].Name)
	require.Len(t, d.Fn.Params, 3)

	y, ok := d.Fn.Params[1].Pat.(*ast.IdentPat)
	require.True(t, ok)
	assert.True(t, y.Optional)

	rest, ok := d.Fn.Params[2].Pat.(*ast.RestPat)
	require.Truef(t, ok, "Expected rest pattern, got %T", d.Fn.Params[2].Pat)
	assert.IsType(t, &ast.ArrayType{}, rest.Type)

	ret, ok := d.Fn.Ret.(*ast.TypeRef)
	require.True(t, ok)
	assert.Equal(t, "T", ret.Name.String())

	require.NotNil(t, d.Fn.Body)
	require.Len(t, d.Fn.Body.Stmts, 1)
	assert.IsType(t, &ast.ReturnStmt{}, d.Fn.Body.Stmts[0])
}

func TestParseOverloadSignature(t *testing.T) {
	m := parse(t, "function f(a: string): void;\nfunction f(a: any) {}")
	require.Len(t, m.Body, 2)
	sig := m.Body[0].(*ast.FnDecl)
	impl := m.Body[1].(*ast.FnDecl)
	assert.False(t, sig.Fn.HasBody())
	assert.True(t, impl.Fn.HasBody())
}

func TestParseArrow(t *testing.T) {
	s := only[*ast.ExprStmt](t, parse(t, "(async (a: number) => a + 1);"))
	p, ok := s.X.(*ast.ParenExpr)
	require.True(t, ok)
	arrow, ok := p.X.(*ast.ArrowExpr)
	require.Truef(t, ok, "Expected arrow, got %T", p.X)
	assert.True(t, arrow.Fn.Async)
	assert.Nil(t, arrow.Fn.Body)
	bin, ok := arrow.Fn.ExprBody.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseClass(t *testing.T) {
	code := `abstract class A<T> extends B implements I, J {
  private x: number = 1;
  static readonly y?: string;
  constructor(public z: T) { super(); }
  abstract m(): void;
  get v(): number { return this.x; }
  #p = 2;
}`
	d := only[*ast.ClassDecl](t, parse(t, code))
	assert.Equal(t, "A", d.Name.Name)
	c := d.Class
	assert.True(t, c.Abstract)
	require.Len(t, c.TypeParams, 1)
	assert.IsType(t, &ast.Ident{}, c.Super)
	require.Len(t, c.Implements, 2)
	assert.Equal(t, "J", c.Implements[1].Name.String())
	require.Len(t, c.Body, 6)

	x := c.Body[0].(*ast.ClassProp)
	assert.Equal(t, "x", x.Key.Name)
	assert.Equal(t, "private", x.Accessibility)
	assert.NotNil(t, x.Value)

	y := c.Body[1].(*ast.ClassProp)
	assert.True(t, y.Static)
	assert.True(t, y.Readonly)
	assert.True(t, y.Optional)

	ctor := c.Body[2].(*ast.Constructor)
	require.Len(t, ctor.Params, 1)
	assert.True(t, ctor.Params[0].IsParameterProperty())
	assert.NotNil(t, ctor.Body)

	m := c.Body[3].(*ast.ClassMethod)
	assert.True(t, m.Abstract)
	assert.False(t, m.Fn.HasBody())

	v := c.Body[4].(*ast.ClassMethod)
	assert.Equal(t, ast.MethodGetter, v.Kind)

	p := c.Body[5].(*ast.ClassProp)
	assert.Equal(t, ast.PropPrivate, p.Key.Kind)
	assert.Equal(t, "p", p.Key.Name)
}

func TestParseInterface(t *testing.T) {
	code := `interface I<T> extends A, B<T> {
  readonly a: number;
  b?: string;
  m(x: T): void;
  (): number;
  new (s: string): I<T>;
  [key: string]: any;
}`
	d := only[*ast.InterfaceDecl](t, parse(t, code))
	assert.Equal(t, "I", d.Name.Name)
	require.Len(t, d.Extends, 2)
	require.Len(t, d.Extends[1].TypeArgs, 1)
	require.Len(t, d.Body, 6)

	a := d.Body[0].(*ast.PropSig)
	assert.True(t, a.Readonly)
	b := d.Body[1].(*ast.PropSig)
	assert.True(t, b.Optional)
	assert.IsType(t, &ast.MethodSig{}, d.Body[2])
	assert.IsType(t, &ast.CallSig{}, d.Body[3])
	assert.IsType(t, &ast.ConstructSig{}, d.Body[4])
	idx := d.Body[5].(*ast.IndexSig)
	assert.Equal(t, "key", idx.ParamName)
}

func TestParseEnum(t *testing.T) {
	d := only[*ast.EnumDecl](t, parse(t, "const enum E { A, B = 5, C = 'c' }"))
	assert.True(t, d.Const)
	require.Len(t, d.Members, 3)
	assert.Equal(t, "A", d.Members[0].Name)
	assert.Nil(t, d.Members[0].Init)
	assert.Equal(t, 5.0, d.Members[1].Init.(*ast.NumLit).Value)
	assert.Equal(t, "c", d.Members[2].Init.(*ast.StrLit).Value)
}

func TestParseNamespaces(t *testing.T) {
	m := parse(t, `namespace A.B { export const x = 1; }
declare module "m" { export function f(): void; }
declare global { interface Window {} }`)
	require.Len(t, m.Body, 3)

	ns := m.Body[0].(*ast.ModuleDecl)
	assert.Equal(t, ast.EntityName{"A", "B"}, ns.Name)
	require.Len(t, ns.Body, 1)
	assert.IsType(t, &ast.ExportDecl{}, ns.Body[0])

	ext := m.Body[1].(*ast.ModuleDecl)
	assert.True(t, ext.External)
	assert.True(t, ext.Declare)
	assert.Equal(t, "m", ext.Name[0])

	global := m.Body[2].(*ast.ModuleDecl)
	assert.True(t, global.Global)
}

func TestParseImports(t *testing.T) {
	m := parse(t, `import d, { a, b as c } from "./x";
import * as ns from "y";
import type { T } from "z";`)
	require.Len(t, m.Body, 3)

	first := m.Body[0].(*ast.ImportDecl)
	assert.Equal(t, "./x", first.Source)
	require.Len(t, first.Specs, 3)
	assert.Equal(t, ast.ImportDefault, first.Specs[0].Kind)
	assert.Equal(t, "d", first.Specs[0].Local)
	assert.Equal(t, "b", first.Specs[2].Imported)
	assert.Equal(t, "c", first.Specs[2].Local)

	second := m.Body[1].(*ast.ImportDecl)
	require.Len(t, second.Specs, 1)
	assert.Equal(t, ast.ImportNamespace, second.Specs[0].Kind)

	third := m.Body[2].(*ast.ImportDecl)
	assert.True(t, third.TypeOnly)
}

func TestParseExports(t *testing.T) {
	m := parse(t, `export const a = 1;
export default function () {}
export { a as b };
export * from "m";
export { x } from "n";`)
	require.Len(t, m.Body, 5)

	assert.IsType(t, &ast.ExportDecl{}, m.Body[0])

	def := m.Body[1].(*ast.ExportDefaultDecl)
	fn, ok := def.Decl.(*ast.FnDecl)
	require.Truef(t, ok, "Expected anonymous function declaration, got %T", def.Decl)
	assert.Nil(t, fn.Name)

	named := m.Body[2].(*ast.ExportNamed)
	require.Len(t, named.Specs, 1)
	assert.Equal(t, "a", named.Specs[0].Local)
	assert.Equal(t, "b", named.Specs[0].Exported)

	all := m.Body[3].(*ast.ExportAll)
	assert.Equal(t, "m", all.Source)

	re := m.Body[4].(*ast.ExportNamed)
	assert.Equal(t, "n", re.Source)
}

func TestParseExportDefaultExpr(t *testing.T) {
	d := only[*ast.ExportDefaultExpr](t, parse(t, "export default 42;"))
	assert.Equal(t, 42.0, d.X.(*ast.NumLit).Value)
}

func TestParseExpressions(t *testing.T) {
	s := only[*ast.ExprStmt](t, parse(t, "a.b?.c[0](1, ...xs);"))
	call, ok := s.X.(*ast.CallExpr)
	require.Truef(t, ok, "Expected call, got %T", s.X)
	require.Len(t, call.Args, 2)
	assert.IsType(t, &ast.SpreadElement{}, call.Args[1])

	idx, ok := call.Callee.(*ast.MemberExpr)
	require.True(t, ok)
	assert.True(t, idx.Computed)
}

func TestParseAssignmentTargets(t *testing.T) {
	m := parse(t, "x = 1; o.p += 2; [a, b] = [b, a];")
	require.Len(t, m.Body, 3)

	first := m.Body[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	assert.IsType(t, &ast.IdentPat{}, first.Left)

	second := m.Body[1].(*ast.ExprStmt).X.(*ast.AssignExpr)
	assert.Equal(t, "+=", second.Op)
	assert.IsType(t, &ast.ExprPat{}, second.Left)

	third := m.Body[2].(*ast.ExprStmt).X.(*ast.AssignExpr)
	arr, ok := third.Left.(*ast.ArrayPat)
	require.Truef(t, ok, "Expected array pattern, got %T", third.Left)
	assert.Len(t, arr.Elems, 2)
}

func TestParseArrayHoles(t *testing.T) {
	d := only[*ast.VarDecl](t, parse(t, "const a = [1, , 3];"))
	arr := d.Decls[0].Init.(*ast.ArrayLit)
	require.Len(t, arr.Elems, 3)
	assert.Nil(t, arr.Elems[1])
}

func TestParseTemplate(t *testing.T) {
	d := only[*ast.VarDecl](t, parse(t, "const s = `a${1}b\\n${x}`;"))
	tpl, ok := d.Decls[0].Init.(*ast.TemplateLit)
	require.Truef(t, ok, "Expected template, got %T", d.Decls[0].Init)
	assert.Equal(t, []string{"a", "b\n", ""}, tpl.Quasis)
	assert.Len(t, tpl.Exprs, 2)
}

func TestParseControlFlow(t *testing.T) {
	code := `for (let i = 0; i < 3; i++) { continue; }
for (const k in o) {}
for (const v of xs) {}
while (x) break;
switch (x) { case 1: f(); break; default: g(); }
try { f(); } catch (e) { g(); } finally { h(); }`
	m := parse(t, code)
	require.Len(t, m.Body, 6)

	f := m.Body[0].(*ast.ForStmt)
	assert.IsType(t, &ast.VarDecl{}, f.Init)
	assert.NotNil(t, f.Test)
	assert.IsType(t, &ast.UpdateExpr{}, f.Update)

	in := m.Body[1].(*ast.ForInStmt)
	assert.False(t, in.Of)
	of := m.Body[2].(*ast.ForInStmt)
	assert.True(t, of.Of)
	assert.Equal(t, ast.Const, of.Left.(*ast.VarDecl).Kind)

	sw := m.Body[4].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 2)
	assert.NotNil(t, sw.Cases[0].Test)
	assert.Len(t, sw.Cases[0].Body, 2)
	assert.Nil(t, sw.Cases[1].Test)

	try := m.Body[5].(*ast.TryStmt)
	assert.NotNil(t, try.Param)
	assert.NotNil(t, try.Handler)
	assert.NotNil(t, try.Finalizer)
}

func TestParseAsExpressions(t *testing.T) {
	m := parse(t, "const a = x as number; const b = [1] as const;")
	require.Len(t, m.Body, 2)
	a := m.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.AsExpr)
	assert.Equal(t, "number", a.Type.(*ast.KeywordType).Name)
	b := m.Body[1].(*ast.VarDecl).Decls[0].Init.(*ast.AsExpr)
	assert.Equal(t, "const", b.Type.(*ast.TypeRef).Name.String())
}

func TestParseSpans(t *testing.T) {
	code := "let abc = 1;"
	d := only[*ast.VarDecl](t, parse(t, code))
	id := d.Decls[0].Name.(*ast.IdentPat)
	assert.Equal(t, "abc", code[id.At.Lo:id.At.Hi])
	assert.Equal(t, 0, d.At.Lo)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := ParseString(context.Background(), "let = ;")
	require.Error(t, err)
	var se *errors.SyntaxError
	require.True(t, stderrors.As(err, &se), "Expected SyntaxError, got %T", err)
	assert.Equal(t, "Syntax", se.Kind())
}

package checker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/parser"
	"github.com/nooga/tscheck/pkg/types"
)

func parseCode(t *testing.T, code string) *ast.Module {
	t.Helper()
	m, err := parser.ParseString(context.Background(), code)
	require.NoError(t, err)
	return m
}

// checkCode parses and checks code with default options. The checker is
// returned for queries against the module scope.
func checkCode(t *testing.T, code string) (*Checker, *ModuleInfo) {
	t.Helper()
	c := newTestChecker(t, Options{})
	return c, c.Check(parseCode(t, code))
}

type codeTest struct {
	name string
	code string
	want []errors.Code // nil means no diagnostics
}

func runCodeTests(t *testing.T, tests []codeTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, info := checkCode(t, tt.code)
			if len(tt.want) == 0 {
				assert.Empty(t, info.Errors)
				return
			}
			assert.Equal(t, tt.want, codes(info.Errors), "diagnostics: %v", info.Errors)
		})
	}
}

func TestClassDeclarationRules(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"overload without implementation", "class A { m(): void; }", []errors.Code{errors.TS2391}},
		{"constructor overload without implementation", "class A { constructor(x: number); }", []errors.Code{errors.TS2391}},
		{"implementation with another name", "class A { m(): void; n() {} }", []errors.Code{errors.TS2389}},
		{"overloads then implementation", "class A { m(x: number): void; m(x: string): void; m(x: any) {} }", nil},
		{"computed key of type string", "let k: string = \"x\";\nclass A { [k]: number; }", []errors.Code{errors.TS1166}},
		{"computed key of literal type", "const k = \"x\";\nclass A { [k]: number; }", nil},
		{"getter without return", "class A { get x() { } }", []errors.Code{errors.TS2378}},
		{"getter with return", "class A { get x() { return 1; } }", nil},
		{"setter return annotation", "class A { set x(v: number): void { } }", []errors.Code{errors.TS1095}},
		{"body in ambient class", "declare class A { m() {} }", []errors.Code{errors.TS1183}},
		{"ambient signatures", "declare class A { m(): void; }", nil},
	})
}

func TestAbstractMethodWithBody(t *testing.T) {
	m := parseCode(t, "abstract class A { m() {} }")
	decl := m.Body[0].(*ast.ClassDecl)
	decl.Class.Body[0].(*ast.ClassMethod).Abstract = true

	info := check(t, m)
	assert.Equal(t, []errors.Code{errors.TS1318}, codes(info.Errors))
}

func TestInheritedMethods(t *testing.T) {
	base := "class A { m() {} get g() { return 1; } static s() {} }\n"
	runCodeTests(t, []codeTest{
		{"all overridden", base + "class B extends A { m() {} get g() { return 2; } static s() {} }", nil},
		{"one missing", base + "class B extends A { m() {} get g() { return 2; } }", []errors.Code{errors.TS2515}},
		{"all missing", base + "class B extends A {}", []errors.Code{errors.TS2515, errors.TS2515, errors.TS2515}},
		{"abstract subclass", base + "abstract class B extends A {}", nil},
		{"properties are not methods", "class A { x: number = 1; }\nclass B extends A {}", nil},
		{"only the direct superclass", base + "class B extends A { m() {} get g() { return 2; } static s() {} }\nclass C extends B { m() {} get g() { return 3; } static s() {} }", nil},
	})
}

func TestUnionPropertyAccess(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"read present on all", "function f(u: { a: number } | { a: string }) { return u.a; }", nil},
		{"read missing on one", "function f(u: { a: number } | { b: string }) { const r = u.a; }", []errors.Code{errors.UnionError}},
		{"write accepted by one", "function f(u: { a: number } | { b: string }) { u.a = 1; }", nil},
		{"write refused by all", "function f(u: { a: number } | { b: string }) { u.c = 1; }", []errors.Code{errors.UnionError}},
		{"write to readonly member", "function f(u: { readonly a: number } | { a: number }) { u.a = 1; }", []errors.Code{errors.ReadOnly}},
	})
}

func TestOperatorRules(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"distinct literals", "const r = 1 === 2;", []errors.Code{errors.NoOverlap}},
		{"same literal", "const r = 1 === 1;", nil},
		{"literal outside union", "function f(u: \"a\" | \"b\") { return u === \"c\"; }", []errors.Code{errors.NoOverlap}},
		{"literal inside union", "function f(u: \"a\" | \"b\") { return u !== \"b\"; }", nil},
		{"string and number", "function f(s: string, n: number) { return s === n; }", []errors.Code{errors.NoOverlap}},
		{"literal and its keyword", "function f(s: string) { return s === \"x\"; }", nil},
		{"any overlaps", "function f(a: any) { return a === 1; }", nil},
		{"nullish overlaps", "function f(n: number) { return n === null; }", nil},

		{"in with object key", "function f(o: { a: number }) { return o in o; }", []errors.Code{errors.TS2360}},
		{"in on primitive", "function f(s: string) { return \"a\" in s; }", []errors.Code{errors.TS2361}},
		{"in on object", "function f(k: string, o: { a: number }) { return k in o; }", nil},

		{"boolean bitwise", "function f(a: boolean, b: boolean) { return a & b; }", []errors.Code{errors.TS2447}},
		{"string on the left", "function f(s: string) { return s - 1; }", []errors.Code{errors.TS2362}},
		{"string on the right", "function f(s: string) { return 1 * s; }", []errors.Code{errors.TS2363}},
		{"strings on both sides", "function f(s: string) { return s % s; }", []errors.Code{errors.TS2362, errors.TS2363}},
		{"numbers", "function f(n: number) { return n ** 2 - n; }", nil},

		{"void in condition", "function v(): void {}\nconst r = v() && 1;", []errors.Code{errors.TS1345}},
		{"unary on unknown", "function f(u: unknown) { return -u; }", []errors.Code{errors.Unknown}},
		{"arithmetic on unknown", "function f(u: unknown) { return u * 2; }", []errors.Code{errors.Unknown}},
	})
}

func TestSequenceExpressions(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"unused left side", "let x = 1;\nconst y = (x, 2);", []errors.Code{errors.UselessSeqExpr}},
		{"call on the left", "function g() { return 1; }\nconst y = (g(), 2);", nil},
		{"own initializer", "const z = (z, 1);", []errors.Code{errors.ImplicitAny}},
	})
}

func TestConstEnumAccess(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"string literal index", "const enum E { A, B }\nconst a = E[\"A\"];", nil},
		{"computed index", "const enum E { A, B }\nfunction f(i: number) { return E[i]; }", []errors.Code{errors.ConstEnumNonIndexAccess}},
		{"assignment", "const enum E { A, B }\nE.A = 1;", []errors.Code{errors.InvalidLValue}},
		{"plain enum assignment", "enum F { A }\nF.A = F.A;", []errors.Code{errors.ReadOnly}},
	})
}

func TestObjectSpread(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"type literal source", "const a = { x: 1 };\nconst o = { ...a, y: \"s\" };\nconst n: number = o.x;\nconst s: string = o.y;", nil},
		{"later properties win", "const a = { x: 1 };\nconst o = { ...a, x: \"s\" };\nconst s: string = o.x;", nil},
		{"unsupported source", "const o = { ...1 };", []errors.Code{errors.Unsupported}},
	})

	_, info := checkCode(t, "let v: any = 1;\nconst o = { ...v, y: 1 };\nconst w = o.anything;")
	require.Empty(t, info.Errors)
	assert.Equal(t, types.Any, info.Exports.Vars["o"])
}

func TestTemplateAndNegation(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"plain template is a literal", "const a = `ab`;\nconst b: \"ab\" = a;", nil},
		{"substitution gives string", "let n = 1;\nconst s: \"a1\" = `a${n}`;", []errors.Code{errors.AssignFailed}},
		{"negated falsy literal", "const t: true = !0;", nil},
		{"negated truthy literal", "const f: false = !\"x\";", nil},
		{"negated boolean", "let b = true;\nconst r: true = !b;", []errors.Code{errors.AssignFailed}},
	})
}

func TestMemberCallOverloads(t *testing.T) {
	_, info := checkCode(t, `class K {
  f(x: number): number;
  f(x: string): string;
  f(x: any): any { return x; }
}
const k = new K();
const s = k.f("a");
const n = k.f(1);
`)
	require.Empty(t, info.Errors)
	assert.Equal(t, "string", info.Exports.Vars["s"].String())
	assert.Equal(t, "number", info.Exports.Vars["n"].String())
}

func TestArrayInterfaceTypes(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"array to Array", "const a: number[] = [1, 2];\nconst b: Array<number> = a;", nil},
		{"literal to Array", "const c: Array<number> = [1, 2];", nil},
		{"wrong element", "const d: Array<number> = [\"a\"];", []errors.Code{errors.AssignFailed}},
		{"literal to ReadonlyArray", "const r: ReadonlyArray<string> = [\"a\"];", nil},
		{"ReadonlyArray members", "function f(xs: ReadonlyArray<number>) { return xs.length + xs[0]; }", nil},
	})
}

func TestTupleNonLiteralIndex(t *testing.T) {
	_, info := checkCode(t, `let i: any = 0;
let k: string = "0";
const t: [number, string] = [1, "a"];
const r = t[i];
const s = t[k];
`)
	require.Empty(t, info.Errors)
	assert.Equal(t, "number | string", info.Exports.Vars["r"].String())
	assert.Equal(t, "number | string", info.Exports.Vars["s"].String())
}

func TestGenericReferenceInference(t *testing.T) {
	_, info := checkCode(t, `interface Box<T> { value: T }
function first<T>(xs: Array<T>): T { return xs[0]; }
function unbox<T>(b: Box<T>): T { return b.value; }
const bx: Box<string> = { value: "s" };
const n = first([1, 2]);
const s = unbox(bx);
`)
	require.Empty(t, info.Errors)
	assert.Equal(t, "number", info.Exports.Vars["n"].String())
	assert.Equal(t, "string", info.Exports.Vars["s"].String())
}

func TestRegExpLiterals(t *testing.T) {
	runCodeTests(t, []codeTest{
		{"ignore case and multiline", "const r = /^[a-z]+$/im;", nil},
		{"known flags", "const r = /a/dgimsuy;", nil},
		{"unbalanced group", "const r = /a(/;", []errors.Code{errors.InvalidRegExp}},
		{"unknown flag", "const r = /a/x;", []errors.Code{errors.InvalidRegExp}},
		{"duplicate flag", "const r = /a/gg;", []errors.Code{errors.InvalidRegExp}},
	})
}

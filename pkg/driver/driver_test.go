package driver

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/tscheck/pkg/config"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/modules"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

func newDriver(t testing.TB) *Driver {
	t.Helper()
	d, err := New(nil)
	require.NoError(t, err)
	return d
}

func job(path, code string) *modules.CheckJob {
	return &modules.CheckJob{ModulePath: path, Source: source.NewSourceFile(filepath.Base(path), path, code)}
}

func codes(result *modules.CheckResult) []errors.Code {
	if result == nil || result.Info == nil {
		return nil
	}
	var out []errors.Code
	for _, e := range result.Info.Errors {
		out = append(out, e.Code)
	}
	return out
}

func TestCheckStringClean(t *testing.T) {
	d := newDriver(t)
	result := d.CheckString(context.Background(), "let x: number = 1;\nconst y = x + 2;\n")
	require.NoError(t, result.Error)
	require.NotNil(t, result.Info)
	assert.Empty(t, result.Info.Errors)
	assert.Equal(t, "<inline>", result.ModulePath)
}

func TestCheckStringTypeError(t *testing.T) {
	d := newDriver(t)
	result := d.CheckString(context.Background(), "nope;\n")
	require.NoError(t, result.Error)
	assert.Equal(t, []errors.Code{errors.UndefinedSymbol}, codes(result))
}

func TestCheckStringSyntaxError(t *testing.T) {
	d := newDriver(t)
	result := d.CheckString(context.Background(), "let = ;\n")
	require.Error(t, result.Error)
	var syntaxErr *errors.SyntaxError
	assert.True(t, stderrors.As(result.Error, &syntaxErr))
	assert.Nil(t, result.Info)

	var out bytes.Buffer
	assert.Equal(t, 1, ReportResult(&out, result))
	assert.Contains(t, out.String(), "Syntax Error")
}

func TestCrossModuleImports(t *testing.T) {
	d := newDriver(t)
	reg, err := d.CheckJobs(context.Background(), []*modules.CheckJob{
		job("src/main.ts", "import { n, missing } from \"./util\";\nconst k: number = n;\n"),
		job("src/util.ts", "export const n: number = 1;\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.ts", "src/util.ts"}, reg.Paths())

	util, ok := reg.Exports("src/util.ts")
	require.True(t, ok)
	assert.Equal(t, types.Number, util.Exports.Vars["n"])

	assert.Empty(t, codes(reg.Get("src/util.ts")))
	assert.Equal(t, []errors.Code{errors.NoSuchProperty}, codes(reg.Get("src/main.ts")))
}

func TestUnresolvedImportIsAny(t *testing.T) {
	d := newDriver(t)
	reg, err := d.CheckJobs(context.Background(), []*modules.CheckJob{
		job("main.ts", "import { anything } from \"./elsewhere\";\nanything.foo.bar();\n"),
	})
	require.NoError(t, err)
	assert.Empty(t, codes(reg.Get("main.ts")))
}

func TestImportCycle(t *testing.T) {
	d := newDriver(t)
	reg, err := d.CheckJobs(context.Background(), []*modules.CheckJob{
		job("a.ts", "import { b } from \"./b\";\nexport const a = 1;\n"),
		job("b.ts", "import { a } from \"./a\";\nexport const b = 2;\n"),
	})
	require.NoError(t, err)
	for _, p := range []string{"a.ts", "b.ts"} {
		result := reg.Get(p)
		require.NotNil(t, result, p)
		assert.NoError(t, result.Error)
		assert.Empty(t, codes(result))
	}
}

func TestParseFailureKeptInRegistry(t *testing.T) {
	d := newDriver(t)
	reg, err := d.CheckJobs(context.Background(), []*modules.CheckJob{
		job("bad.ts", "function (\n"),
		job("good.ts", "export const x = 1;\n"),
	})
	require.NoError(t, err)
	assert.Error(t, reg.Get("bad.ts").Error)
	assert.NoError(t, reg.Get("good.ts").Error)
	assert.Equal(t, 1, reg.Stats().FailedModules)
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, code string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(code), 0o644))
		return p
	}
	main := write("main.ts", "import { greet } from \"./greet\";\ngreet(\"hi\");\nundefinedThing;\n")
	greet := write("greet.ts", "export function greet(s: string): void {}\n")

	d := newDriver(t)
	reg, err := d.CheckFiles(context.Background(), []string{main, greet, main})
	require.NoError(t, err)
	assert.Len(t, reg.Paths(), 2)

	var out bytes.Buffer
	n := Report(&out, reg)
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "main.ts:3:1")
}

func TestCheckFilesMissing(t *testing.T) {
	d := newDriver(t)
	_, err := d.CheckFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.ts")})
	assert.Error(t, err)
}

func TestStrictConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Strict = true
	d, err := New(cfg)
	require.NoError(t, err)
	result := d.CheckString(context.Background(), "function f(a) { return a; }\n")
	assert.Equal(t, []errors.Code{errors.ImplicitAny}, codes(result))
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/tscheck/pkg/builtins"
)

func TestDecodeFull(t *testing.T) {
	doc := `
libs: [es5, ES6]
allowUnreachableCode: true
strict: true
workers: 3
include:
  - "src/*.ts"
`
	cfg, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []builtins.Lib{builtins.LibES5, builtins.LibES2015}, cfg.Libs)
	assert.True(t, cfg.AllowUnreachableCode)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []string{"src/*.ts"}, cfg.Include)

	opts := cfg.CheckerOptions()
	assert.True(t, opts.Strict)
	assert.True(t, opts.AllowUnreachableCode)
}

func TestDecodeLibString(t *testing.T) {
	cfg, err := Decode(strings.NewReader("libs: es2015, dom\n"))
	require.NoError(t, err)
	assert.Equal(t, []builtins.Lib{builtins.LibES2015, builtins.LibDOM}, cfg.Libs)
}

func TestDecodeEmptyIsDefault(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, builtins.DefaultLibs, cfg.Libs)
	assert.Greater(t, cfg.Workers, 0)
	assert.False(t, cfg.Strict)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("strictt: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictt")
}

func TestDecodeValidation(t *testing.T) {
	_, err := Decode(strings.NewReader("libs: [es5, es2077]\nworkers: -1\n"))
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 2)
}

func TestSetLibs(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetLibs("es5"))
	assert.Equal(t, []builtins.Lib{builtins.LibES5}, cfg.Libs)
	assert.Error(t, cfg.SetLibs("cobol"))
	assert.Error(t, cfg.SetLibs(" , "))
}

func TestFindAndFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Find(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	for _, name := range []string{"b.ts", "a.ts", "skip.js"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", name), []byte("let x = 1;\n"), 0o644))
	}
	conf := "include:\n  - src/*.ts\n  - src/a.ts\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(conf), 0o644))

	cfg, err = Find(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Path)

	files, err := cfg.Files("/elsewhere")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src", "a.ts"), filepath.Join(dir, "src", "b.ts")}, files)
}

func TestRegistry(t *testing.T) {
	cfg := Default()
	reg, err := cfg.Registry()
	require.NoError(t, err)
	_, ok := reg.Type("Array")
	assert.True(t, ok)
}

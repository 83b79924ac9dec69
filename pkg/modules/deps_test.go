package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nooga/tscheck/pkg/ast"
)

func TestDependencyGraphWaves(t *testing.T) {
	g := NewDependencyGraph()
	g.AddModule("main.ts")
	g.AddDependency("main.ts", "a.ts")
	g.AddDependency("main.ts", "b.ts")
	g.AddDependency("b.ts", "a.ts")
	g.AddModule("lone.ts")

	waves, cyclic := g.Waves()
	assert.Equal(t, [][]string{{"a.ts", "lone.ts"}, {"b.ts"}, {"main.ts"}}, waves)
	assert.Empty(t, cyclic)
	assert.Equal(t, []string{"a.ts", "b.ts"}, g.Dependencies("main.ts"))
}

func TestDependencyGraphCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.ts", "b.ts")
	g.AddDependency("b.ts", "a.ts")
	g.AddDependency("c.ts", "a.ts")
	g.AddModule("d.ts")

	waves, cyclic := g.Waves()
	assert.Equal(t, [][]string{{"d.ts"}}, waves)
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts"}, cyclic)
}

func TestDependencyGraphDuplicateEdges(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.ts", "b.ts")
	g.AddDependency("a.ts", "b.ts")
	assert.Len(t, g.Dependencies("a.ts"), 1)
}

func TestResolveRelative(t *testing.T) {
	files := map[string]bool{
		"src/a.ts":         true,
		"src/lib/index.ts": true,
		"src/types.d.ts":   true,
		"shared/b.tsx":     true,
	}
	known := func(p string) bool { return files[p] }

	tests := []struct {
		from, spec string
		expected   string
		ok         bool
	}{
		{"src/main.ts", "./a", "src/a.ts", true},
		{"src/main.ts", "./a.ts", "src/a.ts", true},
		{"src/main.ts", "./lib", "src/lib/index.ts", true},
		{"src/main.ts", "./types", "src/types.d.ts", true},
		{"src/main.ts", "../shared/b", "shared/b.tsx", true},
		{"src/main.ts", "./missing", "", false},
		{"src/main.ts", "lodash", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveRelative(tt.from, tt.spec, known)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("ResolveRelative(%q, %q): Expected (%q, %v), got (%q, %v)", tt.from, tt.spec, tt.expected, tt.ok, got, ok)
		}
	}
}

func TestImportSpecifiers(t *testing.T) {
	m := &ast.Module{Body: []ast.Stmt{
		&ast.ImportDecl{Source: "./a"},
		&ast.ExportAll{Source: "./b"},
		&ast.ExportNamed{},
		&ast.ImportDecl{Source: "./a"},
		&ast.ExportNamed{Source: "./c"},
	}}
	assert.Equal(t, []string{"./a", "./b", "./c"}, ImportSpecifiers(m))
}

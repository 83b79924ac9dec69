package modules

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/nooga/tscheck/pkg/ast"
)

// DependencyGraph records which modules of a run import which. Modules are
// checked in waves so a module's imports are checked before it.
type DependencyGraph struct {
	modules map[string]bool
	deps    map[string][]string // module -> modules it imports
	mutex   sync.RWMutex
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		modules: make(map[string]bool),
		deps:    make(map[string][]string),
	}
}

// AddModule registers a module with no dependencies yet.
func (g *DependencyGraph) AddModule(modulePath string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.modules[modulePath] = true
}

// AddDependency records that from imports to. Both become known modules.
func (g *DependencyGraph) AddDependency(from, to string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.modules[from] = true
	g.modules[to] = true
	for _, d := range g.deps[from] {
		if d == to {
			return
		}
	}
	g.deps[from] = append(g.deps[from], to)
}

// Dependencies returns the modules a module imports.
func (g *DependencyGraph) Dependencies(modulePath string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return append([]string(nil), g.deps[modulePath]...)
}

// Waves groups the modules so that every module comes after the modules it
// imports. Each wave can be checked in parallel. Modules on an import cycle
// cannot be ordered; they are returned separately and should be checked
// last, without each other's exports.
func (g *DependencyGraph) Waves() (waves [][]string, cyclic []string) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Kahn's algorithm, one frontier at a time
	remaining := make(map[string]int, len(g.modules))
	dependents := make(map[string][]string)
	for m := range g.modules {
		remaining[m] = len(g.deps[m])
		for _, d := range g.deps[m] {
			dependents[d] = append(dependents[d], m)
		}
	}

	var frontier []string
	for m, n := range remaining {
		if n == 0 {
			frontier = append(frontier, m)
		}
	}
	for len(frontier) > 0 {
		sort.Strings(frontier)
		waves = append(waves, frontier)
		var next []string
		for _, m := range frontier {
			delete(remaining, m)
			for _, dep := range dependents[m] {
				remaining[dep]--
				if remaining[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		frontier = next
	}

	for m := range remaining {
		cyclic = append(cyclic, m)
	}
	sort.Strings(cyclic)
	return waves, cyclic
}

// IsRelative reports whether an import specifier names a file relative to
// the importing module.
func IsRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// candidateExtensions are tried in order when a relative specifier has no
// extension of its own.
var candidateExtensions = []string{".ts", ".tsx", ".d.ts"}

// ResolveRelative maps a relative specifier written in module from to a
// known module path. Paths use forward slashes.
func ResolveRelative(from, specifier string, known func(string) bool) (string, bool) {
	if !IsRelative(specifier) {
		return "", false
	}
	base := path.Join(path.Dir(from), specifier)
	if known(base) {
		return base, true
	}
	for _, ext := range candidateExtensions {
		if known(base + ext) {
			return base + ext, true
		}
	}
	for _, ext := range candidateExtensions {
		if index := path.Join(base, "index"+ext); known(index) {
			return index, true
		}
	}
	return "", false
}

// ImportSpecifiers lists every module specifier a module imports or
// re-exports from, in source order and without duplicates.
func ImportSpecifiers(m *ast.Module) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range m.Body {
		switch d := s.(type) {
		case *ast.ImportDecl:
			add(d.Source)
		case *ast.ExportNamed:
			add(d.Source)
		case *ast.ExportAll:
			add(d.Source)
		}
	}
	return out
}

package modules

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/nooga/tscheck/pkg/types"
)

func TestRegistryBasicOperations(t *testing.T) {
	registry := NewRegistry()

	if n := len(registry.Paths()); n != 0 {
		t.Errorf("Expected empty registry, got %d modules", n)
	}

	ok := &CheckResult{ModulePath: "b.ts"}
	failed := &CheckResult{ModulePath: "a.ts", Error: fmt.Errorf("parse error")}
	registry.Set(ok)
	registry.Set(failed)

	if got := registry.Get("b.ts"); got != ok {
		t.Errorf("Expected stored result for b.ts, got %v", got)
	}
	if got := registry.Get("missing.ts"); got != nil {
		t.Errorf("Expected nil for missing module, got %v", got)
	}

	paths := registry.Paths()
	if len(paths) != 2 || paths[0] != "a.ts" || paths[1] != "b.ts" {
		t.Errorf("Expected sorted paths [a.ts b.ts], got %v", paths)
	}

	stats := registry.Stats()
	if stats.TotalModules != 2 {
		t.Errorf("Expected 2 modules, got %d", stats.TotalModules)
	}
	if stats.CheckedModules != 1 || stats.FailedModules != 1 {
		t.Errorf("Expected 1 checked and 1 failed, got %d and %d", stats.CheckedModules, stats.FailedModules)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d and %d", stats.CacheHits, stats.CacheMisses)
	}
}

func TestRegistryReplace(t *testing.T) {
	registry := NewRegistry()
	registry.Set(&CheckResult{ModulePath: "a.ts", Error: fmt.Errorf("parse error")})
	registry.Set(&CheckResult{ModulePath: "a.ts"})

	stats := registry.Stats()
	if stats.TotalModules != 1 {
		t.Errorf("Expected 1 module after replace, got %d", stats.TotalModules)
	}
	if stats.FailedModules != 0 || stats.CheckedModules != 1 {
		t.Errorf("Expected counts to follow the replacement, got %+v", stats)
	}
}

func TestRegistryExports(t *testing.T) {
	reg, err := CheckAll(context.Background(), nil, []*CheckJob{newJob("lib.ts"), newJob("broken.ts")}, fakeProcess)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	mod, ok := reg.Exports("lib.ts")
	if !ok {
		t.Fatal("Expected exports for lib.ts")
	}
	if mod.Name != "lib.ts" || mod.Exports.Vars["x"] != types.Number {
		t.Errorf("Expected lib.ts to export x: number, got %v", mod.Exports.Vars)
	}
	if _, ok := reg.Exports("broken.ts"); ok {
		t.Error("Expected no exports for a module that failed to parse")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("m%d.ts", i%5)
			registry.Set(&CheckResult{ModulePath: path})
			registry.Get(path)
		}(i)
	}
	wg.Wait()

	if n := registry.Stats().TotalModules; n != 5 {
		t.Errorf("Expected 5 modules, got %d", n)
	}
	if n := len(registry.Results()); n != 5 {
		t.Errorf("Expected 5 results, got %d", n)
	}
}

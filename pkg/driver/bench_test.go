package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nooga/tscheck/pkg/parser"
	"github.com/nooga/tscheck/pkg/source"
)

// loadScript reads one of the test scripts as a source file.
// Uses testing.TB for compatibility with both tests and benchmarks.
func loadScript(tb testing.TB, name string) *source.SourceFile {
	tb.Helper()
	p := filepath.Join("testdata", "scripts", name)
	content, err := os.ReadFile(p)
	if err != nil {
		tb.Fatalf("Failed to read %q: %v", p, err)
	}
	return source.FromFile(p, string(content))
}

func BenchmarkParse(b *testing.B) {
	sf := loadScript(b, "classes.ts")
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := parser.Parse(ctx, sf); err != nil {
			b.Fatalf("Parse failed: %v", err)
		}
	}
}

// BenchmarkCheck parses once and runs a fresh checker each iteration.
func BenchmarkCheck(b *testing.B) {
	d := newDriver(b)
	sf := loadScript(b, "classes.ts")
	m, err := parser.Parse(context.Background(), sf)
	if err != nil {
		b.Fatalf("Parse failed: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.checkModule(m, nil)
	}
}

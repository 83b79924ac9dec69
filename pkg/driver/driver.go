// Package driver ties the pipeline together: it reads sources, parses them,
// orders modules by their relative imports and checks them in parallel.
package driver

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/builtins"
	"github.com/nooga/tscheck/pkg/checker"
	"github.com/nooga/tscheck/pkg/config"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/modules"
	"github.com/nooga/tscheck/pkg/parser"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
)

const driverDebug = false

func debugPrintf(format string, args ...interface{}) {
	if driverDebug {
		fmt.Printf(format, args...)
	}
}

// Driver checks sources against one configuration. A Driver is safe for
// concurrent use; the built-in registry it holds is never mutated.
type Driver struct {
	cfg      *config.Config
	builtins *builtins.Registry
	logger   *slog.Logger
}

// New creates a driver. A nil configuration means config.Default().
func New(cfg *config.Config) (*Driver, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("driver: builtins: %w", err)
	}
	return &Driver{
		cfg:      cfg,
		builtins: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger routes progress messages to logger.
func (d *Driver) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Config returns the configuration the driver was created with.
func (d *Driver) Config() *config.Config {
	return d.cfg
}

func (d *Driver) poolConfig() *modules.PoolConfig {
	pc := modules.DefaultPoolConfig()
	if d.cfg.Workers > 0 {
		pc.NumWorkers = d.cfg.Workers
	}
	return pc
}

// checkModule runs a fresh checker over an already parsed module.
func (d *Driver) checkModule(m *ast.Module, imports map[string]*types.ModuleType) *checker.ModuleInfo {
	opts := d.cfg.CheckerOptions()
	opts.Imports = imports
	return checker.New(d.builtins, opts).Check(m)
}

// CheckSource parses and checks a single source with no imports resolved.
func (d *Driver) CheckSource(ctx context.Context, sf *source.SourceFile) *modules.CheckResult {
	result := &modules.CheckResult{ModulePath: sf.Path, Source: sf}
	if result.ModulePath == "" {
		result.ModulePath = sf.Name
	}
	m, err := parser.Parse(ctx, sf)
	if err != nil {
		result.Error = err
		return result
	}
	result.Module = m
	result.Info = d.checkModule(m, nil)
	return result
}

// CheckString checks a snippet of code, as given with -e.
func (d *Driver) CheckString(ctx context.Context, code string) *modules.CheckResult {
	return d.CheckSource(ctx, source.NewInlineSource(code))
}

// CheckFiles reads, parses and checks the given files. Relative imports
// between the files are resolved: a module is checked after the modules it
// imports, and sees their exports. Modules on an import cycle see each
// other as any.
func (d *Driver) CheckFiles(ctx context.Context, paths []string) (*modules.Registry, error) {
	var jobs []*modules.CheckJob
	seen := map[string]bool{}
	for _, p := range paths {
		key := modulePath(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
		jobs = append(jobs, &modules.CheckJob{ModulePath: key, Source: source.FromFile(p, string(content))})
	}
	return d.CheckJobs(ctx, jobs)
}

// CheckJobs is CheckFiles for sources that are already in memory. Job
// module paths are used to resolve relative imports.
func (d *Driver) CheckJobs(ctx context.Context, jobs []*modules.CheckJob) (*modules.Registry, error) {
	parsed, err := modules.CheckAll(ctx, d.poolConfig(), jobs, func(ctx context.Context, job *modules.CheckJob) (*ast.Module, *checker.ModuleInfo, error) {
		m, err := parser.Parse(ctx, job.Source)
		return m, nil, err
	})
	if err != nil {
		return nil, err
	}
	d.logger.Info("parsed", "modules", len(jobs), "failed", parsed.Stats().FailedModules)

	graph, imports := d.buildGraph(parsed)
	waves, cyclic := graph.Waves()
	if len(cyclic) > 0 {
		d.logger.Warn("import cycle", "modules", cyclic)
		waves = append(waves, cyclic)
	}

	byPath := make(map[string]*modules.CheckJob, len(jobs))
	for _, job := range jobs {
		byPath[job.ModulePath] = job
	}

	out := modules.NewRegistry()
	for i, wave := range waves {
		var waveJobs []*modules.CheckJob
		for _, p := range wave {
			result := parsed.Get(p)
			if result == nil || result.Error != nil {
				// parse failures are reported as they are
				if result != nil {
					out.Set(result)
				}
				continue
			}
			waveJobs = append(waveJobs, byPath[p])
		}
		debugPrintf("// [Driver] wave %d: %v\n", i, wave)

		checked, err := modules.CheckAll(ctx, d.poolConfig(), waveJobs, func(ctx context.Context, job *modules.CheckJob) (*ast.Module, *checker.ModuleInfo, error) {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			m := parsed.Get(job.ModulePath).Module
			resolved := map[string]*types.ModuleType{}
			for spec, dep := range imports[job.ModulePath] {
				if mt, ok := out.Exports(dep); ok {
					resolved[spec] = mt
				}
			}
			return m, d.checkModule(m, resolved), nil
		})
		if err != nil {
			return out, err
		}
		for _, result := range checked.Results() {
			out.Set(result)
		}
		d.logger.Info("checked wave", "wave", i, "modules", len(waveJobs))
	}
	return out, nil
}

// buildGraph records the relative imports among the parsed modules. The
// returned map gives, per module, the module path each specifier resolves to.
func (d *Driver) buildGraph(parsed *modules.Registry) (*modules.DependencyGraph, map[string]map[string]string) {
	graph := modules.NewDependencyGraph()
	imports := map[string]map[string]string{}
	known := func(p string) bool { return parsed.Get(p) != nil }

	for _, result := range parsed.Results() {
		graph.AddModule(result.ModulePath)
		if result.Module == nil {
			continue
		}
		for _, spec := range modules.ImportSpecifiers(result.Module) {
			dep, ok := modules.ResolveRelative(result.ModulePath, spec, known)
			if !ok {
				d.logger.Debug("unresolved import", "module", result.ModulePath, "source", spec)
				continue
			}
			if dep == result.ModulePath {
				continue
			}
			graph.AddDependency(result.ModulePath, dep)
			if imports[result.ModulePath] == nil {
				imports[result.ModulePath] = map[string]string{}
			}
			imports[result.ModulePath][spec] = dep
		}
	}
	return graph, imports
}

// modulePath is the registry key of a file: cleaned, with forward slashes.
func modulePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// Report prints every diagnostic in reg to w, module by module, and
// returns how many were printed.
func Report(w io.Writer, reg *modules.Registry) int {
	count := 0
	for _, result := range reg.Results() {
		count += ReportResult(w, result)
	}
	return count
}

// ReportResult prints the diagnostics of one module.
func ReportResult(w io.Writer, result *modules.CheckResult) int {
	var diags []errors.Diagnostic
	if result.Error != nil {
		var syntaxErr *errors.SyntaxError
		if stderrors.As(result.Error, &syntaxErr) {
			diags = append(diags, syntaxErr)
		} else {
			fmt.Fprintf(w, "%s: %v\n", result.ModulePath, result.Error)
			return 1
		}
	}
	if result.Info != nil {
		for _, e := range result.Info.Errors {
			diags = append(diags, e)
		}
	}
	if len(diags) > 0 {
		errors.DisplayErrors(w, result.Source, diags)
	}
	return len(diags)
}

package modules

import (
	"context"
	"sort"
	"sync"

	"github.com/nooga/tscheck/pkg/types"
)

// Registry holds check results by module path. It is safe for concurrent
// use.
type Registry struct {
	modules map[string]*CheckResult
	mutex   sync.RWMutex
	stats   RegistryStats
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*CheckResult)}
}

// Get retrieves a result by module path.
func (r *Registry) Get(path string) *CheckResult {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	result := r.modules[path]
	if result != nil {
		r.stats.CacheHits++
	} else {
		r.stats.CacheMisses++
	}
	return result
}

// Set stores a result, replacing an earlier one for the same path.
func (r *Registry) Set(result *CheckResult) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if old := r.modules[result.ModulePath]; old != nil {
		r.count(old, -1)
	} else {
		r.stats.TotalModules++
	}
	r.count(result, 1)
	r.modules[result.ModulePath] = result
}

func (r *Registry) count(result *CheckResult, delta int) {
	switch {
	case result.Error != nil:
		r.stats.FailedModules += delta
	case result.Diagnostics() > 0:
		r.stats.ErrorModules += delta
	default:
		r.stats.CheckedModules += delta
	}
}

// Paths lists the registered module paths in sorted order.
func (r *Registry) Paths() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	paths := make([]string, 0, len(r.modules))
	for p := range r.modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Results returns every result, ordered by module path.
func (r *Registry) Results() []*CheckResult {
	paths := r.Paths()
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*CheckResult, 0, len(paths))
	for _, p := range paths {
		out = append(out, r.modules[p])
	}
	return out
}

// Exports returns the module type for a checked module, for use as an
// import target of another module.
func (r *Registry) Exports(path string) (*types.ModuleType, bool) {
	result := r.Get(path)
	if result == nil || result.Info == nil {
		return nil, false
	}
	return &types.ModuleType{Name: path, Exports: result.Info.Exports}, true
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.stats
}

// CheckAll runs every job through a fresh pool and collects the results.
// Results of jobs that were not processed before ctx was cancelled are
// missing from the registry; the context error is returned in that case.
func CheckAll(ctx context.Context, config *PoolConfig, jobs []*CheckJob, process Processor) (*Registry, error) {
	reg := NewRegistry()
	if len(jobs) == 0 {
		return reg, nil
	}

	pool := NewWorkerPool(config, process)
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	submitErr := make(chan error, 2)
	go func() {
		defer close(submitErr)
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				submitErr <- err
				break
			}
		}
		// Shutdown waits for the workers, which finish once the queue is
		// drained or ctx is cancelled.
		if err := pool.Shutdown(context.Background()); err != nil {
			submitErr <- err
		}
	}()

	for received := 0; received < len(jobs); received++ {
		select {
		case result, ok := <-pool.Results():
			if !ok {
				received = len(jobs)
				break
			}
			reg.Set(result)
		case <-ctx.Done():
			return reg, ctx.Err()
		}
	}
	if err := <-submitErr; err != nil {
		return reg, err
	}
	return reg, ctx.Err()
}

// Package modules checks many modules in parallel. Every worker runs its
// own checker; the only state the workers share is the immutable built-in
// registry and the result registry.
package modules

import (
	"context"
	"runtime"
	"time"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/checker"
	"github.com/nooga/tscheck/pkg/source"
)

// CheckJob is one module to parse and check.
type CheckJob struct {
	ModulePath string             // Module path, used as the registry key
	Source     *source.SourceFile // Source content
	Timestamp  time.Time          // When the job was created
}

// CheckResult is the outcome of one job.
type CheckResult struct {
	ModulePath string
	Source     *source.SourceFile
	Module     *ast.Module         // Parsed tree, annotated with types
	Info       *checker.ModuleInfo // Exports and diagnostics
	Duration   time.Duration       // Time taken to parse and check
	WorkerID   int                 // ID of the worker that ran the job
	Error      error               // Parse failure or cancellation
	Timestamp  time.Time           // When processing started
}

// Diagnostics is the number of type errors reported for the module.
func (r *CheckResult) Diagnostics() int {
	if r.Info == nil {
		return 0
	}
	return len(r.Info.Errors)
}

// Processor turns a job into a checked module. Implementations must be
// safe to call from several goroutines at once.
type Processor func(ctx context.Context, job *CheckJob) (*ast.Module, *checker.ModuleInfo, error)

// PoolConfig configures a worker pool.
type PoolConfig struct {
	NumWorkers       int // Number of workers (0 = GOMAXPROCS)
	JobBufferSize    int // Size of the job queue
	ResultBufferSize int // Size of the result queue
}

// DefaultPoolConfig returns sensible defaults.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		NumWorkers:       runtime.GOMAXPROCS(0),
		JobBufferSize:    100,
		ResultBufferSize: 100,
	}
}

// WorkerPoolStats contains statistics about worker pool performance
type WorkerPoolStats struct {
	TotalJobs     int           // Total jobs submitted
	ActiveJobs    int           // Currently active jobs
	CompletedJobs int           // Jobs that produced a checked module
	FailedJobs    int           // Jobs that failed before checking
	Diagnostics   int           // Type errors over all completed jobs
	AverageTime   time.Duration // Average processing time per job
	TotalTime     time.Duration // Total time spent processing
	WorkerCount   int           // Number of workers
}

// RegistryStats contains statistics about the result registry
type RegistryStats struct {
	TotalModules   int // Modules in the registry
	CheckedModules int // Modules checked without diagnostics
	ErrorModules   int // Modules with diagnostics
	FailedModules  int // Modules that failed to parse
	CacheHits      int
	CacheMisses    int
}

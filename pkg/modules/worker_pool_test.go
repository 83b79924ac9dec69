package modules

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nooga/tscheck/pkg/ast"
	"github.com/nooga/tscheck/pkg/checker"
	"github.com/nooga/tscheck/pkg/errors"
	"github.com/nooga/tscheck/pkg/source"
	"github.com/nooga/tscheck/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProcess reports one diagnostic for paths containing "bad", fails
// paths containing "broken" and panics on paths containing "panic".
func fakeProcess(ctx context.Context, job *CheckJob) (*ast.Module, *checker.ModuleInfo, error) {
	switch {
	case strings.Contains(job.ModulePath, "broken"):
		return nil, nil, fmt.Errorf("cannot parse %s", job.ModulePath)
	case strings.Contains(job.ModulePath, "panic"):
		panic("boom")
	}
	info := &checker.ModuleInfo{Exports: types.NewExports()}
	info.Exports.Vars["x"] = types.Number
	if strings.Contains(job.ModulePath, "bad") {
		info.Errors = append(info.Errors, errors.NewTypeError(errors.UndefinedSymbol, source.NoSpan, "cannot find name 'y'"))
	}
	return &ast.Module{File: job.Source}, info, nil
}

func newJob(path string) *CheckJob {
	return &CheckJob{
		ModulePath: path,
		Source:     source.NewSourceFile(path, path, "export const x = 1;"),
	}
}

func TestWorkerPoolBasic(t *testing.T) {
	config := DefaultPoolConfig()
	config.NumWorkers = 2

	pool := NewWorkerPool(config, fakeProcess)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Expected successful start, got error: %v", err)
	}

	if pool.HasActiveJobs() {
		t.Error("Expected no active jobs initially")
	}

	if err := pool.Submit(newJob("test.ts")); err != nil {
		t.Fatalf("Expected successful job submission, got error: %v", err)
	}

	select {
	case result := <-pool.Results():
		if result.ModulePath != "test.ts" {
			t.Errorf("Expected module path 'test.ts', got '%s'", result.ModulePath)
		}
		if result.Error != nil {
			t.Errorf("Expected successful check, got error: %v", result.Error)
		}
		if result.Info == nil || result.Info.Exports.Vars["x"] != types.Number {
			t.Errorf("Expected export x: number, got %v", result.Info)
		}
		if result.Duration < 0 {
			t.Errorf("Expected non-negative duration, got %v", result.Duration)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for result")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := pool.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Expected successful shutdown, got error: %v", err)
	}
	if _, ok := <-pool.Results(); ok {
		t.Error("Expected results channel to be closed after shutdown")
	}
}

func TestWorkerPoolLifecycleErrors(t *testing.T) {
	pool := NewWorkerPool(nil, fakeProcess)
	assert.Error(t, pool.Submit(newJob("a.ts")), "submit before start")

	ctx := context.Background()
	require.NoError(t, pool.Start(ctx))
	assert.Error(t, pool.Start(ctx), "second start")

	require.NoError(t, pool.Shutdown(ctx))
	assert.Error(t, pool.Shutdown(ctx), "second shutdown")
	assert.Error(t, pool.Submit(newJob("b.ts")), "submit after shutdown")
}

func TestWorkerPoolRequiresProcessor(t *testing.T) {
	pool := NewWorkerPool(DefaultPoolConfig(), nil)
	assert.Error(t, pool.Start(context.Background()))
}

func TestWorkerPoolStats(t *testing.T) {
	config := &PoolConfig{NumWorkers: 3, JobBufferSize: 10, ResultBufferSize: 10}
	pool := NewWorkerPool(config, fakeProcess)
	require.NoError(t, pool.Start(context.Background()))

	paths := []string{"a.ts", "bad.ts", "broken.ts", "panic.ts"}
	for _, p := range paths {
		require.NoError(t, pool.Submit(newJob(p)))
	}

	byPath := map[string]*CheckResult{}
	for range paths {
		select {
		case r := <-pool.Results():
			byPath[r.ModulePath] = r
		case <-time.After(2 * time.Second):
			t.Fatal("Timeout waiting for results")
		}
	}
	require.NoError(t, pool.Shutdown(context.Background()))

	assert.NoError(t, byPath["a.ts"].Error)
	assert.Equal(t, 1, byPath["bad.ts"].Diagnostics())
	assert.Error(t, byPath["broken.ts"].Error)
	if assert.Error(t, byPath["panic.ts"].Error) {
		assert.Contains(t, byPath["panic.ts"].Error.Error(), "internal error")
		assert.Nil(t, byPath["panic.ts"].Info)
	}

	stats := pool.Stats()
	assert.Equal(t, 4, stats.TotalJobs)
	assert.Equal(t, 2, stats.CompletedJobs)
	assert.Equal(t, 2, stats.FailedJobs)
	assert.Equal(t, 1, stats.Diagnostics)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, 3, stats.WorkerCount)
}

func TestWorkerPoolConcurrency(t *testing.T) {
	var inFlight, peak int32
	process := func(ctx context.Context, job *CheckJob) (*ast.Module, *checker.ModuleInfo, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return fakeProcess(ctx, job)
	}

	config := &PoolConfig{NumWorkers: 4, JobBufferSize: 16, ResultBufferSize: 16}
	jobs := make([]*CheckJob, 16)
	for i := range jobs {
		jobs[i] = newJob(fmt.Sprintf("m%02d.ts", i))
	}

	reg, err := CheckAll(context.Background(), config, jobs, process)
	require.NoError(t, err)
	assert.Len(t, reg.Paths(), 16)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestWorkerPoolCancellation(t *testing.T) {
	release := make(chan struct{})
	process := func(ctx context.Context, job *CheckJob) (*ast.Module, *checker.ModuleInfo, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
		return fakeProcess(ctx, job)
	}

	ctx, cancel := context.WithCancel(context.Background())
	config := &PoolConfig{NumWorkers: 1, JobBufferSize: 4, ResultBufferSize: 4}
	jobs := []*CheckJob{newJob("a.ts"), newJob("b.ts"), newJob("c.ts")}

	done := make(chan error, 1)
	go func() {
		_, err := CheckAll(ctx, config, jobs, process)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	defer close(release)

	select {
	case err := <-done:
		if err == nil {
			t.Error("Expected cancellation error, got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for cancelled run to return")
	}
}

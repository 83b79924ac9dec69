package modules

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const poolDebug = false

func debugPrintf(format string, args ...interface{}) {
	if poolDebug {
		fmt.Printf(format, args...)
	}
}

// WorkerPool checks submitted modules on a fixed number of goroutines.
type WorkerPool struct {
	// Configuration
	numWorkers   int
	jobBuffer    int
	resultBuffer int
	process      Processor

	// Channels
	jobQueue   chan *CheckJob
	resultChan chan *CheckResult

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// State
	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	// Statistics
	stats      WorkerPoolStats
	statsMutex sync.RWMutex
}

// checkWorker is a single worker goroutine
type checkWorker struct {
	id         int
	pool       *WorkerPool
	jobQueue   <-chan *CheckJob
	resultChan chan<- *CheckResult
}

// NewWorkerPool creates a pool running process for every job.
func NewWorkerPool(config *PoolConfig, process Processor) *WorkerPool {
	if config == nil {
		config = DefaultPoolConfig()
	}
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = DefaultPoolConfig().NumWorkers
	}
	return &WorkerPool{
		numWorkers:   numWorkers,
		jobBuffer:    config.JobBufferSize,
		resultBuffer: config.ResultBufferSize,
		process:      process,
	}
}

// Start launches the workers. Cancelling ctx stops them.
func (wp *WorkerPool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&wp.started, 0, 1) {
		return fmt.Errorf("worker pool already started")
	}
	if wp.process == nil {
		return fmt.Errorf("worker pool has no processor")
	}

	wp.ctx, wp.cancel = context.WithCancel(ctx)
	wp.jobQueue = make(chan *CheckJob, wp.jobBuffer)
	wp.resultChan = make(chan *CheckResult, wp.resultBuffer)
	wp.stats = WorkerPoolStats{WorkerCount: wp.numWorkers}

	for i := 0; i < wp.numWorkers; i++ {
		worker := &checkWorker{
			id:         i,
			pool:       wp,
			jobQueue:   wp.jobQueue,
			resultChan: wp.resultChan,
		}
		wp.wg.Add(1)
		go worker.run(wp.ctx)
	}
	debugPrintf("// [Pool] started %d workers\n", wp.numWorkers)
	return nil
}

// Submit queues a job. It blocks while the queue is full.
func (wp *WorkerPool) Submit(job *CheckJob) error {
	if atomic.LoadInt32(&wp.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if atomic.LoadInt32(&wp.stopped) == 1 {
		return fmt.Errorf("worker pool stopped")
	}
	if job.Timestamp.IsZero() {
		job.Timestamp = time.Now()
	}

	select {
	case wp.jobQueue <- job:
		atomic.AddInt32(&wp.activeJobs, 1)
		wp.statsMutex.Lock()
		wp.stats.TotalJobs++
		wp.statsMutex.Unlock()
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results returns the channel results are delivered on. It is closed by
// Shutdown once every worker has finished.
func (wp *WorkerPool) Results() <-chan *CheckResult {
	return wp.resultChan
}

// Shutdown stops accepting jobs and waits for the workers to drain the
// queue, or for ctx to expire.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&wp.stopped, 0, 1) {
		return fmt.Errorf("worker pool already stopped")
	}
	close(wp.jobQueue)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		close(wp.resultChan)
		return nil
	case <-ctx.Done():
		wp.cancel()
		return ctx.Err()
	}
}

// HasActiveJobs returns true if there are jobs in progress
func (wp *WorkerPool) HasActiveJobs() bool {
	return atomic.LoadInt32(&wp.activeJobs) > 0
}

// Stats returns current worker pool statistics
func (wp *WorkerPool) Stats() WorkerPoolStats {
	wp.statsMutex.RLock()
	defer wp.statsMutex.RUnlock()

	stats := wp.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&wp.activeJobs))
	return stats
}

// run is the main worker loop
func (w *checkWorker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			result := w.processJob(ctx, job)
			w.record(result)
			atomic.AddInt32(&w.pool.activeJobs, -1)

			select {
			case w.resultChan <- result:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (w *checkWorker) record(result *CheckResult) {
	p := w.pool
	p.statsMutex.Lock()
	defer p.statsMutex.Unlock()
	if result.Error == nil {
		p.stats.CompletedJobs++
		p.stats.Diagnostics += result.Diagnostics()
	} else {
		p.stats.FailedJobs++
	}
	p.stats.TotalTime += result.Duration
	if n := p.stats.CompletedJobs + p.stats.FailedJobs; n > 0 {
		p.stats.AverageTime = p.stats.TotalTime / time.Duration(n)
	}
}

// processJob runs the processor on one job. A panic in the processor
// fails the job instead of the whole run.
func (w *checkWorker) processJob(ctx context.Context, job *CheckJob) (result *CheckResult) {
	start := time.Now()
	result = &CheckResult{
		ModulePath: job.ModulePath,
		Source:     job.Source,
		WorkerID:   w.id,
		Timestamp:  start,
	}
	defer func() {
		if r := recover(); r != nil {
			result.Module, result.Info = nil, nil
			result.Error = fmt.Errorf("checking %s: internal error: %v", job.ModulePath, r)
		}
		result.Duration = time.Since(start)
		debugPrintf("// [Pool] worker %d: %s in %s\n", w.id, job.ModulePath, result.Duration)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}
	result.Module, result.Info, result.Error = w.pool.process(ctx, job)
	return result
}

package analyzer

import (
	"runtime"
	"sync"
)

// WorkerPool runs analysis jobs on a fixed set of goroutines. It backs
// batch operations such as the gallery summary.
type WorkerPool struct {
	workers   int
	jobs      chan func()
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// NewWorkerPool creates a pool with the given number of workers; zero or
// negative defaults to the CPU count.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers: workers,
		jobs:    make(chan func(), workers*2),
	}
}

// Start launches the workers. Calling Start more than once is a no-op.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobs {
		job()
		wp.wg.Done()
	}
}

// Submit queues a job. Blocks when the queue is full.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobs <- job
}

// Wait blocks until every submitted job has finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Close shuts the pool down. Pending jobs still run.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.jobs)
	})
}

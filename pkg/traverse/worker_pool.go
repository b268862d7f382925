package traverse

import (
	"fmt"
	"math"
	"sync"

	"github.com/dd0wney/cluso-reach/pkg/logging"
)

// Task is one unit of work. The pool passes the executing worker's
// identity (0..workers-1) at dispatch time.
type Task func(workerID int)

// WorkerPool manages a fixed pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan Task
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	logger    logging.Logger
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool creates a pool of exactly the given number of workers.
// The count is validated, never clamped: fewer than one worker is an
// ErrInvalidWorkerCount, more than MaxWorkers an ErrTooManyWorkers.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, workers)
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan Task, workers*2), // Buffer for 2x workers
		logger:    logging.DefaultLogger(),
	}

	pool.start()
	return pool, nil
}

// SetLogger replaces the logger used for recovered task panics.
func (wp *WorkerPool) SetLogger(logger logging.Logger) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	wp.logger = logger
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker processes tasks from the queue under a fixed identity
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.runTask(id, task)
	}
}

// runTask executes one task, recovering panics so a bad task cannot
// kill the worker. Callers that need the failure surfaced wrap their
// tasks with their own recovery before submission.
func (wp *WorkerPool) runTask(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			wp.mu.RLock()
			logger := wp.logger
			wp.mu.RUnlock()
			logger.Error("worker recovered from task panic",
				logging.Worker(id),
				logging.Any("panic", fmt.Sprint(r)),
			)
		}
	}()
	task(id)
}

// Submit adds a task to the worker pool.
// Returns false if the pool is closed, true if the task was accepted.
func (wp *WorkerPool) Submit(task Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	// Check if pool is closed while holding read lock
	if wp.closed {
		return false
	}

	// Safe to send because we hold the lock and pool is not closed
	wp.taskQueue <- task
	return true
}

// Close shuts down the worker pool and waits for in-flight tasks.
// Safe to call multiple times and from multiple goroutines.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		// Acquire write lock before closing
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait waits for all submitted tasks to complete
func (wp *WorkerPool) Wait() {
	// Close the queue and wait for workers to finish
	wp.Close()
}

package traverse

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dd0wney/cluso-reach/pkg/logging"
)

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	defer pool.Close()

	// Submit a simple task
	var executed atomic.Bool
	success := pool.Submit(func(workerID int) {
		executed.Store(true)
	})

	if !success {
		t.Error("Task submission failed")
	}

	// Wait for task to complete
	pool.Close()

	if !executed.Load() {
		t.Error("Task was not executed")
	}
}

// TestWorkerPoolInvalidCount tests that bad worker counts are rejected
func TestWorkerPoolInvalidCount(t *testing.T) {
	for _, workers := range []int{0, -1, -100} {
		pool, err := NewWorkerPool(workers)
		if !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("NewWorkerPool(%d) error = %v, want ErrInvalidWorkerCount", workers, err)
		}
		if pool != nil {
			t.Errorf("NewWorkerPool(%d) returned a pool despite the error", workers)
		}
	}
}

// TestWorkerPoolTooManyWorkers tests the overflow guard
func TestWorkerPoolTooManyWorkers(t *testing.T) {
	_, err := NewWorkerPool(MaxWorkers + 1)
	if !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("NewWorkerPool(MaxWorkers+1) error = %v, want ErrTooManyWorkers", err)
	}
}

// TestWorkerPoolWorkerIDs tests that tasks see identities in [0, workers)
func TestWorkerPoolWorkerIDs(t *testing.T) {
	const workers = 4
	pool, err := NewWorkerPool(workers)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	if pool.Workers() != workers {
		t.Errorf("Workers() = %d, want %d", pool.Workers(), workers)
	}

	var mu sync.Mutex
	seen := make(map[int]int)

	for i := 0; i < 100; i++ {
		pool.Submit(func(workerID int) {
			mu.Lock()
			seen[workerID]++
			mu.Unlock()
			time.Sleep(time.Millisecond)
		})
	}
	pool.Close()

	total := 0
	for id, count := range seen {
		if id < 0 || id >= workers {
			t.Errorf("Worker ID %d out of range [0,%d)", id, workers)
		}
		total += count
	}
	if total != 100 {
		t.Errorf("Executed %d tasks, want 100", total)
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool, err := NewWorkerPool(10)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	defer pool.Close()

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func(workerID int) {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace validates that closing the pool while
// submitting tasks doesn't panic
func TestWorkerPoolCloseRace(t *testing.T) {
	numIterations := 100

	for iteration := 0; iteration < numIterations; iteration++ {
		pool, err := NewWorkerPool(4)
		if err != nil {
			t.Fatalf("NewWorkerPool failed: %v", err)
		}

		// Start submitting tasks concurrently
		var wg sync.WaitGroup
		numSubmitters := 10

		for i := 0; i < numSubmitters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					// Try to submit - might fail if closed
					pool.Submit(func(workerID int) {
						time.Sleep(1 * time.Millisecond)
					})
				}
			}()
		}

		// Close pool concurrently with submissions
		time.Sleep(5 * time.Millisecond)
		pool.Close()

		wg.Wait()
		// If we reach here without panic, the race fix works
	}
}

// TestWorkerPoolSubmitAfterClose tests that submissions after close return false
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	// Submit a task before close
	success := pool.Submit(func(workerID int) {
		time.Sleep(10 * time.Millisecond)
	})
	if !success {
		t.Error("Task submission before close should succeed")
	}

	// Close pool
	pool.Close()

	// Try to submit after close
	success = pool.Submit(func(workerID int) {
		t.Error("This task should never execute")
	})

	if success {
		t.Error("Task submission after close should return false")
	}
}

// TestWorkerPoolMultipleClose tests that closing multiple times is safe
func TestWorkerPoolMultipleClose(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	// Submit some tasks
	for i := 0; i < 10; i++ {
		pool.Submit(func(workerID int) {
			time.Sleep(1 * time.Millisecond)
		})
	}

	// Close multiple times - should not panic
	pool.Close()
	pool.Close()
	pool.Close()
}

// TestWorkerPoolConcurrentClose tests concurrent close calls
func TestWorkerPoolConcurrentClose(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	// Submit some tasks
	for i := 0; i < 20; i++ {
		pool.Submit(func(workerID int) {
			time.Sleep(1 * time.Millisecond)
		})
	}

	// Close concurrently from multiple goroutines
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Close()
		}()
	}

	wg.Wait()
}

// TestWorkerPoolTaskExecution tests that all submitted tasks execute
func TestWorkerPoolTaskExecution(t *testing.T) {
	pool, err := NewWorkerPool(5)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	defer pool.Close()

	numTasks := 50
	executed := make([]bool, numTasks)
	var mu sync.Mutex

	for i := 0; i < numTasks; i++ {
		taskID := i
		pool.Submit(func(workerID int) {
			mu.Lock()
			executed[taskID] = true
			mu.Unlock()
		})
	}

	pool.Close()

	// Verify all tasks executed
	for i, exec := range executed {
		if !exec {
			t.Errorf("Task %d was not executed", i)
		}
	}
}

// TestWorkerPoolWithPanic tests that panics in tasks don't crash the pool
func TestWorkerPoolWithPanic(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	pool.SetLogger(logging.NewNopLogger())
	defer pool.Close()

	var counter int64

	// Submit tasks that panic
	for i := 0; i < 5; i++ {
		pool.Submit(func(workerID int) {
			panic("intentional panic")
		})
	}

	// Submit normal tasks
	for i := 0; i < 10; i++ {
		pool.Submit(func(workerID int) {
			atomic.AddInt64(&counter, 1)
		})
	}

	pool.Close()

	if counter != 10 {
		t.Errorf("Expected counter 10, got %d - panics may have crashed workers", counter)
	}
}

// BenchmarkWorkerPoolThroughput benchmarks worker pool throughput
func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, err := NewWorkerPool(10)
	if err != nil {
		b.Fatalf("NewWorkerPool failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func(workerID int) {
			// Minimal work
		})
	}

	pool.Close()
}

// BenchmarkWorkerPoolWithWork benchmarks with actual work
func BenchmarkWorkerPoolWithWork(b *testing.B) {
	pool, err := NewWorkerPool(10)
	if err != nil {
		b.Fatalf("NewWorkerPool failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func(workerID int) {
			sum := 0
			for j := 0; j < 100; j++ {
				sum += j
			}
			_ = sum
		})
	}

	pool.Close()
}

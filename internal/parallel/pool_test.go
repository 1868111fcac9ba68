package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecutionStats(t *testing.T) {
	stats := NewExecutionStats()

	if stats.TasksSubmitted != 0 {
		t.Errorf("expected 0 tasks submitted initially, got %d", stats.TasksSubmitted)
	}

	stats.RecordTaskSubmitted()
	if stats.TasksSubmitted != 1 {
		t.Errorf("expected 1 task submitted, got %d", stats.TasksSubmitted)
	}

	stats.RecordTaskCompleted(100 * time.Millisecond)
	if stats.TasksCompleted != 1 {
		t.Errorf("expected 1 task completed, got %d", stats.TasksCompleted)
	}

	err := errors.New("boom")
	stats.RecordTaskFailed(err)
	if stats.TasksFailed != 1 {
		t.Errorf("expected 1 task failed, got %d", stats.TasksFailed)
	}
	if stats.LastError != err {
		t.Errorf("expected last error %v, got %v", err, stats.LastError)
	}

	stats.Finalize()
	if stats.TotalExecutionTime <= 0 {
		t.Errorf("expected positive total execution time, got %v", stats.TotalExecutionTime)
	}
}

func TestWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(2)
	var n int64
	for i := 0; i < 20; i++ {
		if err := pool.Submit(context.Background(), func() { atomic.AddInt64(&n, 1) }); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	pool.Shutdown()

	if got := atomic.LoadInt64(&n); got != 20 {
		t.Errorf("expected 20 tasks to run, got %d", got)
	}
	if pool.Stats().TasksCompleted != 20 {
		t.Errorf("expected stats to report 20 completed, got %d", pool.Stats().TasksCompleted)
	}
}

func TestWorkerPoolSubmitAfterShutdownFails(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Shutdown()

	err := pool.Submit(context.Background(), func() {})
	if !errors.Is(err, ErrPoolShutdown) {
		t.Errorf("expected ErrPoolShutdown, got %v", err)
	}
}

func TestWorkerPoolRecordsPanicsAsFailures(t *testing.T) {
	pool := NewWorkerPool(1)
	if err := pool.Submit(context.Background(), func() { panic("boom") }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	pool.Shutdown()

	if pool.Stats().TasksFailed != 1 {
		t.Errorf("expected 1 failed task, got %d", pool.Stats().TasksFailed)
	}
}

func TestWorkerPoolSubmitRespectsContextCancellation(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	// Occupy the single worker for long enough that the buffered
	// queue (capacity 4) fills up and stays full, so the next Submit
	// blocks on the channel send and observes ctx.Done() instead.
	_ = pool.Submit(context.Background(), func() { time.Sleep(100 * time.Millisecond) })
	for i := 0; i < 4; i++ {
		_ = pool.Submit(context.Background(), func() {})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Submit(ctx, func() {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

package pipeline

import (
	"sync"
	"sync/atomic"
	"testing"
)

type sumProcessor struct {
	total *int64
}

func (p *sumProcessor) Process(item Item) {
	n := item.(int)
	atomic.AddInt64(p.total, int64(n))
}

func TestQueueProcessesAllEnqueuedItems(t *testing.T) {
	var total int64
	q := NewQueue(4, func() Processor { return &sumProcessor{total: &total} })
	defer q.Stop()

	for i := 1; i <= 100; i++ {
		q.Enqueue(i)
	}
	q.WaitTillDone()

	if got, want := atomic.LoadInt64(&total), int64(5050); got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestQueueOnProcessedReportsRunningCounts(t *testing.T) {
	var mu sync.Mutex
	var lastProcessed, lastEnqueued int

	q := NewQueue(1, func() Processor { return &sumProcessor{total: new(int64)} })
	defer q.Stop()

	q.OnProcessed(func(processed, enqueued int) {
		mu.Lock()
		lastProcessed, lastEnqueued = processed, enqueued
		mu.Unlock()
	})

	for i := 0; i < 10; i++ {
		q.Enqueue(i)
	}
	q.WaitTillDone()

	mu.Lock()
	defer mu.Unlock()
	if lastProcessed != 10 {
		t.Fatalf("expected 10 processed, got %d", lastProcessed)
	}
	if lastEnqueued != 10 {
		t.Fatalf("expected 10 enqueued, got %d", lastEnqueued)
	}
}

func TestQueueDoneIsFalseWhileItemsOutstanding(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	q := NewQueue(1, func() Processor {
		return processorFunc(func(item Item) {
			close(started)
			<-release
		})
	})
	defer func() {
		close(release)
		q.Stop()
	}()

	q.Enqueue(1)
	<-started

	if q.Done() {
		t.Fatal("expected Done to be false while a worker is mid-Process")
	}
}

type processorFunc func(item Item)

func (f processorFunc) Process(item Item) { f(item) }

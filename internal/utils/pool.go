package utils

import (
	"sync"
)

// WorkerPool runs submitted tasks on a fixed number of goroutines.
type WorkerPool struct {
	taskChan chan func()
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewWorkerPool starts maxWorkers workers sharing a queue of queueSize pending tasks.
func NewWorkerPool(maxWorkers, queueSize int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	pool := &WorkerPool{
		taskChan: make(chan func(), queueSize),
	}

	pool.wg.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go pool.worker()
	}

	return pool
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.taskChan {
		task()
	}
}

// Submit queues task without blocking. It reports false when the queue is
// full or the pool has been shut down.
func (p *WorkerPool) Submit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}

	select {
	case p.taskChan <- task:
		return true
	default:
		return false
	}
}

// Shutdown stops accepting tasks and waits for the queued ones to finish.
func (p *WorkerPool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.taskChan)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

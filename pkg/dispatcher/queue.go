package dispatcher

import (
	"sync"
	"sync/atomic"
)

const defaultQueueSize = 64

// CallbackQueue is the context completions are delivered on.
// Post returns false when fn was not accepted.
type CallbackQueue interface {
	Post(fn func()) bool
}

// Queue runs posted functions one at a time, in order, on a single goroutine.
type Queue struct {
	mu      sync.RWMutex
	closed  bool
	running atomic.Bool
	tasks   chan func()
	done    chan struct{}
}

// NewQueue starts a queue with the given buffer size.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	q := &Queue{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	defer close(q.done)
	for fn := range q.tasks {
		q.running.Store(true)
		fn()
		q.running.Store(false)
	}
}

// Post enqueues fn. It blocks while the buffer is full and drops fn once the
// queue is closed.
func (q *Queue) Post(fn func()) bool {
	if q == nil || fn == nil {
		return false
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	q.tasks <- fn
	return true
}

// Close stops accepting work, runs what is already queued and waits for the
// worker to exit. While a task is running, which includes Close being called
// from inside one, it returns without waiting and the worker drains the
// rest on its own.
func (q *Queue) Close() {
	if q == nil {
		return
	}
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()
	if q.running.Load() {
		return
	}
	<-q.done
}

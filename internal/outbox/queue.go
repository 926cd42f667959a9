package outbox

import (
	"sync"

	"github.com/eapache/queue"
)

// Queue is a thread-safe unbounded FIFO with a single close transition.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *queue.Queue
	closed bool

	// Stats
	totalReceived int64
	totalSent     int64
	highWater     int
}

// New creates an empty open queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{
		items: queue.New(),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Send appends an item to the queue.
// Returns false if the queue is closed.
func (q *Queue[T]) Send(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items.Add(item)
	q.totalReceived++
	if n := q.items.Length(); n > q.highWater {
		q.highWater = n
	}

	q.cond.Signal()
	return true
}

// Receive removes and returns the oldest item.
// Blocks until an item is available or the queue is closed.
// Returns the zero value and false once the queue is closed and empty.
func (q *Queue[T]) Receive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Length() == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.items.Length() == 0 {
		var zero T
		return zero, false
	}

	return q.pop(), true
}

// TryReceive attempts to receive without blocking.
func (q *Queue[T]) TryReceive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Length() == 0 {
		var zero T
		return zero, false
	}

	return q.pop(), true
}

// Close closes the queue. Closing twice is a no-op.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Stats returns queue statistics.
func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Count:         q.items.Length(),
		TotalReceived: q.totalReceived,
		TotalSent:     q.totalSent,
		HighWater:     q.highWater,
		Closed:        q.closed,
	}
}

// Stats contains queue statistics.
type Stats struct {
	Count         int
	TotalReceived int64
	TotalSent     int64
	HighWater     int
	Closed        bool
}

// pop removes the head item. Must be called with lock held and Length() > 0.
func (q *Queue[T]) pop() T {
	item := q.items.Remove().(T)
	q.totalSent++
	return item
}

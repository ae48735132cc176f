package queue

import "sync"

// Queue implements a thread-safe generic FIFO queue.
// Pop is the single point of consumption: exactly one caller
// receives any given item.
type Queue[T any] struct {
	items []T
	mu    sync.Mutex
}

// New creates a new queue with the given initial capacity.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0, capacity),
	}
}

// Len returns the number of items in the queue
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Push appends a value to the back of the queue
func (q *Queue[T]) Push(value T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, value)
}

// Pop removes and returns the value at the front of the queue
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	value := q.items[0]
	var zero T
	q.items[0] = zero // avoid memory leak
	q.items = q.items[1:]
	return value, true
}

// DrainAll removes and returns all remaining items in FIFO order
func (q *Queue[T]) DrainAll() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

// Package ring provides a fixed-capacity ring buffer that overwrites its
// oldest entry once full.
package ring

// Ring is a bounded buffer with overwrite-oldest eviction. It is not
// internally synchronized; owners serialize access.
type Ring[T any] struct {
	buf  []T
	head int // index of the oldest entry
	size int
}

// New creates a ring with the given capacity. Capacities below one are
// clamped to one.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Add appends an item, overwriting the oldest entry when the ring is full.
// Overwriting is steady-state behavior, not a failure.
func (r *Ring[T]) Add(item T) {
	if r.size == len(r.buf) {
		r.buf[r.head] = item
		r.head = (r.head + 1) % len(r.buf)
		return
	}
	r.buf[(r.head+r.size)%len(r.buf)] = item
	r.size++
}

// All returns entries in insertion order, most recent last. A positive limit
// truncates to the most recent limit entries.
func (r *Ring[T]) All(limit int) []T {
	n := r.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]T, 0, n)
	start := r.size - n
	for i := start; i < r.size; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

// Oldest returns the oldest entry, if any.
func (r *Ring[T]) Oldest() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[r.head], true
}

// Newest returns the most recent entry, if any.
func (r *Ring[T]) Newest() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[(r.head+r.size-1)%len(r.buf)], true
}

// Clear empties the ring without changing its capacity. Slots are zeroed so
// evicted entries can be collected.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.head = 0
	r.size = 0
}

// Len returns the number of stored entries.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

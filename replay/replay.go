// Package replay provides a bounded experience buffer with uniform sampling.
package replay

import (
	"golang.org/x/exp/rand"
)

// DefaultCapacity is the number of transitions kept by default.
const DefaultCapacity = 10000

// Buffer is a fixed-size FIFO ring: once full, every Add evicts the oldest item.
type Buffer[T any] struct {
	items    []T
	capacity int
	position int // next slot to write
	size     int
}

// New creates an empty buffer. A non-positive capacity uses DefaultCapacity.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends item, evicting the oldest one when the buffer is full.
func (b *Buffer[T]) Add(item T) {
	b.items[b.position] = item
	b.position = (b.position + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// Len returns the number of stored items.
func (b *Buffer[T]) Len() int { return b.size }

// Cap returns the maximum number of stored items.
func (b *Buffer[T]) Cap() int { return b.capacity }

// Items returns the stored items from oldest to newest.
func (b *Buffer[T]) Items() []T {
	out := make([]T, 0, b.size)
	start := (b.position - b.size + b.capacity) % b.capacity
	for i := 0; i < b.size; i++ {
		out = append(out, b.items[(start+i)%b.capacity])
	}
	return out
}

// Sample returns n items drawn uniformly with replacement. When the buffer
// holds n items or fewer it returns all of them instead.
func (b *Buffer[T]) Sample(rng *rand.Rand, n int) []T {
	if b.size <= n {
		return b.Items()
	}
	batch := make([]T, n)
	for i := range batch {
		batch[i] = b.items[rng.Intn(b.size)]
	}
	return batch
}

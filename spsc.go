// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import "code.hybscloud.com/atomix"

// SPSC is a lock-free single-producer single-consumer bounded queue.
//
// Based on Lamport's ring buffer with cached index optimization.
// The producer caches the consumer's head index, and vice versa, so the
// cursors only cross cores when a cached view runs out. It is the
// lock-free comparison point for [Ring].
//
// Exactly one goroutine may produce and exactly one may consume.
type SPSC[T any] struct {
	_          pad
	head       atomix.Uint64 // Consumer reads from here
	_          pad
	cachedTail uint64 // Consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // Producer writes here
	_          pad
	cachedHead uint64 // Producer's cached view of head
	_          pad
	buffer     []T
	mask       uint64
}

// NewSPSC creates a new SPSC queue.
// Capacity rounds up to the next power of 2. Panics if capacity < 2.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if capacity < 2 {
		panic("xcpu: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &SPSC[T]{
		buffer: make([]T, n),
		mask:   n - 1,
	}
}

// Produce adds an element to the queue (producer only).
// Returns ErrFull if the queue is full.
func (q *SPSC[T]) Produce(elem T) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return ErrFull
		}
	}

	q.buffer[tail&q.mask] = elem
	q.tail.StoreRelease(tail + 1)
	return nil
}

// Consume removes and returns an element (consumer only).
// Returns (zero-value, ErrEmpty) if the queue is empty.
func (q *SPSC[T]) Consume() (T, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, ErrEmpty
		}
	}

	elem := q.buffer[head&q.mask]
	var zero T
	q.buffer[head&q.mask] = zero
	q.head.StoreRelease(head + 1)
	return elem, nil
}

// Drain releases every remaining element in FIFO order and resets the
// queue. release may be nil. Teardown only.
func (q *SPSC[T]) Drain(release func(T)) int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	var zero T
	for i := head; i < tail; i++ {
		elem := q.buffer[i&q.mask]
		q.buffer[i&q.mask] = zero
		if release != nil {
			release(elem)
		}
	}
	q.head.StoreRelease(0)
	q.tail.StoreRelease(0)
	q.cachedHead, q.cachedTail = 0, 0
	return int(tail - head)
}

// Cap returns the queue capacity.
func (q *SPSC[T]) Cap() int {
	return int(q.mask + 1)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

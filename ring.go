// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
	"golang.org/x/sys/cpu"
)

// CacheLineSize is the cache line size used to separate producer and
// consumer state.
const CacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// pad is cache line padding to prevent false sharing.
type pad = cpu.CacheLinePad

// Ring is a bounded circular buffer with independently locked producer and
// consumer cursors.
//
// The producer cursor and its lock live on their own cache line, the
// consumer cursor and its lock on another. Full and empty are decided by the
// occupancy of a single slot, never by comparing the two cursors, so the
// producer never reads consumer state and vice versa. Payload slots are the
// only memory both sides touch.
//
// Any number of goroutines may produce and consume; each side is serialized
// by its own spin lock. Neither side ever waits for the other: a full or
// empty ring is reported immediately as [ErrFull] or [ErrEmpty].
//
// Memory: capacity slots of 8 bytes plus sizeof(T)
type Ring[T any] struct {
	_        pad
	prodLock spinLock
	tail     uint64 // Next slot to produce into
	_        pad
	consLock spinLock
	head     uint64 // Next slot to consume from
	_        pad
	slots    []ringSlot[T]
	capacity uint64
}

type ringSlot[T any] struct {
	full atomix.Uint64 // 1 while data holds a live entry
	data T
}

// NewRing creates a ring holding at most capacity entries.
// Capacity is exact; it is not rounded. Panics if capacity < 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic("xcpu: capacity must be >= 1")
	}
	return &Ring[T]{
		slots:    make([]ringSlot[T], capacity),
		capacity: uint64(capacity),
	}
}

// Produce stores elem at the producer cursor.
// Returns ErrFull if that slot still holds an unconsumed entry.
// Takes only the producer lock.
func (q *Ring[T]) Produce(elem T) error {
	q.prodLock.Lock()
	slot := &q.slots[q.tail]
	if slot.full.LoadAcquire() != 0 {
		q.prodLock.Unlock()
		return ErrFull
	}
	slot.data = elem
	slot.full.StoreRelease(1)
	if q.tail++; q.tail == q.capacity {
		q.tail = 0
	}
	q.prodLock.Unlock()
	return nil
}

// Consume removes and returns the entry at the consumer cursor.
// Returns (zero-value, ErrEmpty) if that slot holds no entry.
// Takes only the consumer lock.
func (q *Ring[T]) Consume() (T, error) {
	q.consLock.Lock()
	slot := &q.slots[q.head]
	if slot.full.LoadAcquire() == 0 {
		q.consLock.Unlock()
		var zero T
		return zero, ErrEmpty
	}
	elem := slot.data
	var zero T
	slot.data = zero
	slot.full.StoreRelease(0)
	if q.head++; q.head == q.capacity {
		q.head = 0
	}
	q.consLock.Unlock()
	return elem, nil
}

// Drain calls release exactly once for every entry still in the ring, in
// FIFO order, then resets the ring to empty. release may be nil.
// Returns the number of entries drained.
//
// Drain is a teardown operation: the caller must ensure no Produce or
// Consume runs concurrently.
func (q *Ring[T]) Drain(release func(T)) int {
	q.prodLock.Lock()
	q.consLock.Lock()
	n := 0
	var zero T
	for i := range q.capacity {
		slot := &q.slots[(q.head+i)%q.capacity]
		if slot.full.LoadAcquire() == 0 {
			break
		}
		elem := slot.data
		slot.data = zero
		slot.full.StoreRelaxed(0)
		if release != nil {
			release(elem)
		}
		n++
	}
	q.head, q.tail = 0, 0
	q.consLock.Unlock()
	q.prodLock.Unlock()
	return n
}

// Cap returns the ring capacity.
func (q *Ring[T]) Cap() int {
	return int(q.capacity)
}

// spinLock is a test-and-set lock that spins with CPU pause hints.
type spinLock struct {
	word atomix.Uint64
}

func (l *spinLock) Lock() {
	sw := spin.Wait{}
	for !l.word.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
}

func (l *spinLock) Unlock() {
	l.word.StoreRelease(0)
}

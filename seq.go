// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Seq is a CAS-based bounded queue with a sequence number per slot.
//
// A slot is writable when its sequence equals the producer cursor and
// readable when it equals the consumer cursor plus one, so full and empty
// are decided per slot as in [Ring]. Unlike Ring the cursors are claimed
// with compare-and-swap instead of a side lock, and every slot is padded to
// a cache line.
//
// Memory: n slots (one cache line per slot)
type Seq[T any] struct {
	_        pad
	tail     atomix.Uint64 // Producer cursor
	_        pad
	head     atomix.Uint64 // Consumer cursor
	_        pad
	buffer   []seqSlot[T]
	mask     uint64
	capacity uint64
}

type seqSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    [CacheLineSize - 8]byte
}

// NewSeq creates a sequence-slot queue.
// Capacity rounds up to the next power of 2. Panics if capacity < 2.
func NewSeq[T any](capacity int) *Seq[T] {
	if capacity < 2 {
		panic("xcpu: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &Seq[T]{
		buffer:   make([]seqSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}
	return q
}

// Produce adds an element to the queue.
// Returns ErrFull if the slot at the producer cursor is still occupied.
func (q *Seq[T]) Produce(elem T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		slot := &q.buffer[tail&q.mask]
		diff := int64(slot.seq.LoadAcquire()) - int64(tail)

		if diff == 0 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = elem
				slot.seq.StoreRelease(tail + 1)
				return nil
			}
		} else if diff < 0 {
			return ErrFull
		}
		sw.Once()
	}
}

// Consume removes and returns the oldest element.
// Returns (zero-value, ErrEmpty) if the slot at the consumer cursor is not
// yet published.
func (q *Seq[T]) Consume() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head&q.mask]
		diff := int64(slot.seq.LoadAcquire()) - int64(head+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.seq.StoreRelease(head + q.capacity)
				return elem, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, ErrEmpty
		}
		sw.Once()
	}
}

// Drain releases every published element in FIFO order and resets the
// queue. release may be nil. Teardown only.
func (q *Seq[T]) Drain(release func(T)) int {
	head := q.head.LoadAcquire()
	n := 0
	var zero T
	for {
		slot := &q.buffer[head&q.mask]
		if slot.seq.LoadAcquire() != head+1 {
			break
		}
		elem := slot.data
		slot.data = zero
		if release != nil {
			release(elem)
		}
		head++
		n++
	}
	for i := uint64(0); i < q.capacity; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}
	q.head.StoreRelease(0)
	q.tail.StoreRelease(0)
	return n
}

// Cap returns the queue capacity.
func (q *Seq[T]) Cap() int {
	return int(q.capacity)
}

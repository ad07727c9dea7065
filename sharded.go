// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"fmt"

	ring "github.com/randomizedcoder/go-lock-free-ring"
)

// Sharded adapts a single-shard go-lock-free-ring to [Transport].
//
// The underlying ring stores values as any, so each Produce boxes the
// element. Scenarios on this transport therefore include one small heap
// allocation per transfer, which the report does not subtract.
type Sharded[T any] struct {
	r *ring.ShardedRing
}

// NewSharded creates a sharded-ring transport with one shard.
// Capacity rounds up to the next power of 2.
func NewSharded[T any](capacity int) (*Sharded[T], error) {
	r, err := ring.NewShardedRing(uint64(roundToPow2(capacity)), 1)
	if err != nil {
		return nil, fmt.Errorf("xcpu: sharded ring capacity %d: %w", capacity, err)
	}
	return &Sharded[T]{r: r}, nil
}

// Produce writes elem to shard 0. Returns ErrFull if the shard is full.
func (s *Sharded[T]) Produce(elem T) error {
	if !s.r.Write(0, elem) {
		return ErrFull
	}
	return nil
}

// Consume reads the oldest element. Returns ErrEmpty if none is ready.
func (s *Sharded[T]) Consume() (T, error) {
	v, ok := s.r.TryRead()
	if !ok {
		var zero T
		return zero, ErrEmpty
	}
	return v.(T), nil
}

// Drain reads every remaining element and passes it to release.
func (s *Sharded[T]) Drain(release func(T)) int {
	n := 0
	for {
		v, ok := s.r.TryRead()
		if !ok {
			return n
		}
		if release != nil {
			release(v.(T))
		}
		n++
	}
}

// Cap returns the ring capacity.
func (s *Sharded[T]) Cap() int {
	return int(s.r.Cap())
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"errors"
	"log"

	"code.hybscloud.com/xcpu/internal/asm"
)

// Sentinel tags used in ModeSentinel runs.
const (
	prefillTag = 42
	produceTag = 43
)

// crossWorker plays the producer or consumer role against a shared
// transport, chosen by the parity of the worker's CPU.
type crossWorker struct {
	desc  string
	alloc Allocator // nil in ModeSentinel
	log   *log.Logger
}

func (w *crossWorker) run(rec *Record, t Transport[Payload]) {
	rec.Role = RoleOf(rec.CPU)

	var n uint64
	var err error
	rec.Start()
	if rec.Role == RoleProducer {
		n, err = w.produce(rec, t)
	} else {
		n, err = w.consume(rec, t)
	}
	rec.Stop(n, err)

	switch {
	case errors.Is(err, ErrFull):
		w.log.Printf("%s: WARN: enq fullq(CPU:%d) i:%d", w.desc, rec.CPU, n)
	case errors.Is(err, ErrEmpty):
		w.log.Printf("%s: WARN: deq emptyq(CPU:%d) i:%d", w.desc, rec.CPU, n)
	case err != nil:
		w.log.Printf("%s: %v", w.desc, err)
	}
}

func (w *crossWorker) produce(rec *Record, t Transport[Payload]) (uint64, error) {
	var n uint64
	p := Sentinel(produceTag)
	for range rec.Loops {
		if w.alloc != nil {
			var err error
			if p, err = w.alloc.Allocate(); err != nil {
				return n, &AllocationError{Op: "produce", Role: rec.Role, CPU: rec.CPU, Err: err}
			}
		}
		if err := t.Produce(p); err != nil {
			if w.alloc != nil {
				w.alloc.Release(p)
			}
			return n, err
		}
		n++
		asm.Barrier()
	}
	return n, nil
}

func (w *crossWorker) consume(rec *Record, t Transport[Payload]) (uint64, error) {
	var n uint64
	for range rec.Loops {
		p, err := t.Consume()
		if err != nil {
			return n, err
		}
		if w.alloc != nil && !p.IsSentinel() {
			w.alloc.Release(p)
		}
		n++
		asm.Barrier()
	}
	return n, nil
}

// localWorker allocates and releases a page per iteration on one CPU.
// It is the same-CPU baseline for the cross-CPU page scenarios.
type localWorker struct {
	desc string
	log  *log.Logger
}

func (w *localWorker) run(rec *Record, alloc Allocator) {
	rec.Role = RoleLocal

	var n uint64
	var err error
	rec.Start()
	for range rec.Loops {
		var p Payload
		if p, err = alloc.Allocate(); err != nil {
			err = &AllocationError{Op: "alloc_put", Role: rec.Role, CPU: rec.CPU, Err: err}
			break
		}
		alloc.Release(p)
		n++
		asm.Barrier()
	}
	rec.Stop(n, err)

	if err != nil {
		w.log.Printf("%s: %v", w.desc, err)
	}
}

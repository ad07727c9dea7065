// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"os"
	"unsafe"
)

// Payload is the opaque object a benchmark moves between CPUs.
//
// A Payload is either a sentinel, a non-owning marker that exercises the
// queue without any memory behind it, or a page, which owns memory obtained
// from an [Allocator] and must be handed back to that allocator exactly once.
// The zero Payload is nil.
type Payload struct {
	mem []byte
	tag uintptr
}

// Sentinel returns a non-owning payload identified by tag.
// Panics if tag is 0, which would make it indistinguishable from nil.
func Sentinel(tag uintptr) Payload {
	if tag == 0 {
		panic("xcpu: sentinel tag must be non-zero")
	}
	return Payload{tag: tag}
}

// PagePayload wraps allocator-owned memory.
func PagePayload(mem []byte) Payload {
	return Payload{mem: mem}
}

// IsNil reports whether p is the zero Payload.
func (p Payload) IsNil() bool { return p.mem == nil && p.tag == 0 }

// IsSentinel reports whether p is a non-owning sentinel.
func (p Payload) IsSentinel() bool { return p.tag != 0 }

// Bytes returns the memory owned by a page payload, nil for sentinels.
func (p Payload) Bytes() []byte { return p.mem }

// ID returns the payload identity: the tag of a sentinel or the address of
// a page. Two payloads with the same ID are the same object.
func (p Payload) ID() uintptr {
	if p.tag != 0 {
		return p.tag
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(p.mem)))
}

// Allocator supplies and reclaims page payloads.
//
// Allocate returns an error when no page is available; the benchmark treats
// that as an [AllocationError]. Release is called exactly once for every
// payload Allocate returned. It is never called with a sentinel.
type Allocator interface {
	Allocate() (Payload, error)
	Release(p Payload)
}

// PageAllocator allocates runs of 2^Order pages.
//
// On unix platforms each allocation is an anonymous private mapping whose
// first byte is written so a physical page backs it before it is queued;
// Release unmaps it. Other platforms fall back to the Go heap.
type PageAllocator struct {
	Order int
}

// Size returns the allocation size in bytes.
func (a PageAllocator) Size() int {
	return os.Getpagesize() << a.Order
}

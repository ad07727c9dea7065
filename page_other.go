// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package xcpu

// Allocate returns Size bytes from the Go heap.
func (a PageAllocator) Allocate() (Payload, error) {
	mem := make([]byte, a.Size())
	mem[0] = 1
	return PagePayload(mem), nil
}

// Release drops the reference; the garbage collector reclaims the memory.
func (a PageAllocator) Release(p Payload) {}

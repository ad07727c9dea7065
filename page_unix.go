// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package xcpu

import "golang.org/x/sys/unix"

// Allocate maps Size bytes of anonymous memory and faults in the first page.
func (a PageAllocator) Allocate() (Payload, error) {
	mem, err := unix.Mmap(-1, 0, a.Size(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return Payload{}, err
	}
	mem[0] = 1
	return PagePayload(mem), nil
}

// Release unmaps a page payload. Sentinels are ignored.
// Panics if the kernel rejects the unmap, which only happens when p was not
// returned by Allocate or was released twice.
func (a PageAllocator) Release(p Payload) {
	if p.IsSentinel() || p.mem == nil {
		return
	}
	if err := unix.Munmap(p.mem); err != nil {
		panic("xcpu: munmap: " + err.Error())
	}
}

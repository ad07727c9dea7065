// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu_test

import (
	"errors"
	"runtime"
	"sync"

	"code.hybscloud.com/xcpu"
)

var errOutOfPages = errors.New("out of pages")

// countingAllocator hands out heap pages and tracks which are live, so
// tests can check every allocation is released exactly once.
type countingAllocator struct {
	mu       sync.Mutex
	limit    int // Allocations allowed before failing; <0 means unlimited
	allocs   int
	releases int
	doubles  int
	live     map[uintptr][]byte
}

func newCountingAllocator(limit int) *countingAllocator {
	return &countingAllocator{limit: limit, live: make(map[uintptr][]byte)}
}

func (a *countingAllocator) Allocate() (xcpu.Payload, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.limit >= 0 && a.allocs >= a.limit {
		return xcpu.Payload{}, errOutOfPages
	}
	a.allocs++
	mem := make([]byte, 64)
	p := xcpu.PagePayload(mem)
	a.live[p.ID()] = mem
	return p, nil
}

func (a *countingAllocator) Release(p xcpu.Payload) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p.IsSentinel() {
		a.doubles++ // sentinels must never reach an allocator
		return
	}
	if _, ok := a.live[p.ID()]; !ok {
		a.doubles++
		return
	}
	delete(a.live, p.ID())
	a.releases++
}

func (a *countingAllocator) stats() (allocs, releases, live, doubles int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs, a.releases, len(a.live), a.doubles
}

// recordingPlacement locks each worker to a thread without pinning and
// records the CPUs it placed. CPUs in fail are refused.
type recordingPlacement struct {
	mu     sync.Mutex
	fail   map[int]bool
	placed []int
}

func (p *recordingPlacement) Place(cpu int) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[cpu] {
		return nil, errors.New("placement refused")
	}
	p.placed = append(p.placed, cpu)
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}

func (p *recordingPlacement) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.placed)
}

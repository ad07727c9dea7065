// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"testing"
	"unsafe"
)

// TestRingLayout checks the producer and consumer cursors and their locks
// can never share a cache line with each other or with the slot header.
func TestRingLayout(t *testing.T) {
	var r Ring[Payload]
	line := uintptr(CacheLineSize)

	prodLock := unsafe.Offsetof(r.prodLock)
	tail := unsafe.Offsetof(r.tail)
	consLock := unsafe.Offsetof(r.consLock)
	head := unsafe.Offsetof(r.head)
	slots := unsafe.Offsetof(r.slots)

	if prodLock < line {
		t.Fatalf("prodLock at %d shares the leading line", prodLock)
	}
	if consLock-tail < line {
		t.Fatalf("producer side [%d..%d] within %d bytes of consLock at %d", prodLock, tail, line, consLock)
	}
	if slots-head < line {
		t.Fatalf("consumer side [%d..%d] within %d bytes of slots at %d", consLock, head, line, slots)
	}
	if CacheLineSize < 32 {
		t.Fatalf("CacheLineSize: got %d, want >= 32", CacheLineSize)
	}
}

func TestSPSCLayout(t *testing.T) {
	var q SPSC[Payload]
	line := uintptr(CacheLineSize)
	if d := unsafe.Offsetof(q.tail) - unsafe.Offsetof(q.head); d < line {
		t.Fatalf("SPSC head/tail separation: got %d, want >= %d", d, line)
	}
}

func TestRoundToPow2(t *testing.T) {
	for in, want := range map[int]int{1: 2, 2: 2, 3: 4, 100: 128, 1024: 1024, 32_000: 32_768} {
		if got := roundToPow2(in); got != want {
			t.Fatalf("roundToPow2(%d): got %d, want %d", in, got, want)
		}
	}
}

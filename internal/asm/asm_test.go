// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asm_test

import (
	"testing"

	"code.hybscloud.com/xcpu/internal/asm"
)

func TestBarrierReturns(t *testing.T) {
	n := 0
	for range 1000 {
		n++
		asm.Barrier()
	}
	if n != 1000 {
		t.Fatalf("loop count: got %d, want 1000", n)
	}
}

func BenchmarkEmptyLoop(b *testing.B) {
	for range b.N {
	}
}

func BenchmarkBarrierLoop(b *testing.B) {
	for range b.N {
		asm.Barrier()
	}
}

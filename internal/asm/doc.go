// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package asm provides architecture-specific helpers for hot paths.
//
// Barrier is an opaque call the compiler can neither inline nor remove.
// Benchmark loops call it once per iteration so that an iteration whose
// body looks empty to the optimizer still executes.
package asm

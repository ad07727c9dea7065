// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build amd64 || arm64

package asm

// Barrier is an empty assembly routine. Calls to it cannot be inlined, so
// they survive every optimization pass.
//
//go:noescape
func Barrier()

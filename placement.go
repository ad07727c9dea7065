// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import "runtime"

// Placement runs the calling goroutine on a chosen logical CPU.
//
// Place locks the goroutine to its OS thread and binds that thread to cpu.
// On success it returns a release function that undoes the placement; the
// caller must invoke it from the same goroutine once the work is done.
type Placement interface {
	Place(cpu int) (release func(), err error)
}

// Affinity pins the worker thread to its CPU with the platform's thread
// affinity primitive. On platforms without one, Place returns
// [ErrUnsupported].
type Affinity struct{}

// LockedThread gives each worker a dedicated OS thread without restricting
// which CPU the thread runs on. Use it where pinning is not permitted, e.g.
// in containers limited to fewer CPUs than the benchmark names.
type LockedThread struct{}

// Place locks the goroutine to its current OS thread.
func (LockedThread) Place(cpu int) (func(), error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}

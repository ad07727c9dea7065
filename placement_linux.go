// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package xcpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Place locks the goroutine to its OS thread and restricts the thread to
// cpu with sched_setaffinity(2).
//
// The returned release function restores the thread's previous mask before
// unlocking it. If the restore fails the thread stays locked, so the
// runtime discards it when the goroutine exits instead of reusing a thread
// that is still pinned.
func (Affinity) Place(cpu int) (func(), error) {
	if cpu < 0 {
		return nil, unix.EINVAL
	}
	runtime.LockOSThread()

	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	var set unix.CPUSet
	set.Set(cpu)
	if !set.IsSet(cpu) {
		runtime.UnlockOSThread()
		return nil, unix.EINVAL
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	release := func() {
		if unix.SchedSetaffinity(0, &prev) == nil {
			runtime.UnlockOSThread()
		}
	}
	return release, nil
}

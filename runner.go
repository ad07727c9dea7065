// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"errors"
	"sync"
)

// WorkerFunc is the per-CPU body of a concurrent run. It must call
// rec.Start before and rec.Stop after its timed loop.
type WorkerFunc[Q any] func(rec *Record, q Q)

// RunOption configures Run.
type RunOption func(*runOptions)

type runOptions struct {
	placement Placement
}

// WithPlacement selects how workers are bound to their CPUs.
// The default is [Affinity].
func WithPlacement(p Placement) RunOption {
	return func(o *runOptions) {
		if p != nil {
			o.placement = p
		}
	}
}

// Run executes fn once per CPU in cpus, concurrently, each on a dedicated
// OS thread placed on its CPU, and returns the records keyed by CPU id.
//
// Every worker is spawned and placed before any of them starts: workers
// wait at a start barrier that opens only after the last one has arrived.
// Run blocks until all workers return.
//
// Run is role-agnostic; fn decides what each CPU does. If a worker cannot
// be placed, no worker runs fn and Run returns a [ResourceError] and no
// records.
func Run[Q any](cpus []int, loops uint32, q Q, fn WorkerFunc[Q], opts ...RunOption) (map[int]*Record, error) {
	o := runOptions{placement: Affinity{}}
	for _, opt := range opts {
		opt(&o)
	}

	if len(cpus) == 0 {
		return nil, &ResourceError{Op: "spawn workers", CPU: -1, Err: errors.New("empty CPU set")}
	}
	records := make(map[int]*Record, len(cpus))
	for _, cpu := range cpus {
		if cpu < 0 {
			return nil, &ResourceError{Op: "spawn worker", CPU: cpu, Err: errors.New("negative CPU id")}
		}
		if _, dup := records[cpu]; dup {
			return nil, &ResourceError{Op: "spawn worker", CPU: cpu, Err: errors.New("CPU listed twice")}
		}
		records[cpu] = NewRecord(cpu, loops)
	}

	var ready, done sync.WaitGroup
	start := make(chan struct{})
	placeErrs := make([]error, len(cpus))
	aborted := false

	ready.Add(len(cpus))
	done.Add(len(cpus))
	for i, cpu := range cpus {
		rec := records[cpu]
		go func() {
			defer done.Done()
			release, err := o.placement.Place(cpu)
			if err != nil {
				placeErrs[i] = &ResourceError{Op: "place worker", CPU: cpu, Err: err}
				ready.Done()
				return
			}
			defer release()

			ready.Done()
			<-start
			if aborted {
				return
			}
			fn(rec, q)
		}()
	}

	ready.Wait()
	var err error
	for _, e := range placeErrs {
		if e != nil {
			err = e
			break
		}
	}
	aborted = err != nil
	close(start)
	done.Wait()

	if err != nil {
		return nil, err
	}
	return records, nil
}

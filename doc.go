// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xcpu measures the cost of moving an object from one CPU to
// another through a bounded queue.
//
// The benchmark pins a producer to an even CPU and a consumer to an odd
// CPU, lets both start at the same instant, and times how long each takes
// to push or pull a fixed number of payloads. Comparing a run that moves
// sentinels against one that moves real pages separates the cost of
// cache-line bouncing from the cost of the allocator itself.
//
// # Quick Start
//
//	cfg, err := xcpu.NewConfig().Loops(1_000_000).CPUs(0, 1).Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	suite := &xcpu.Suite{
//	    Config:   cfg,
//	    RunFlags: xcpu.RunAll,
//	    Reporter: xcpu.NewReporter(os.Stdout),
//	}
//	suite.Run()
//
// # Components
//
//	Ring[T]      - bounded queue with independently locked, cache-line
//	               separated producer and consumer cursors
//	Record       - per-worker requested/completed counts and timestamps
//	Run          - one pinned worker per CPU behind a start barrier
//	RunScenario  - config, prefill, run, teardown for one scenario
//	Suite        - runs the scenarios selected by a bitmask
//	Reporter     - per-worker lines, warnings and a summary
//
// # Ring
//
// Produce and Consume never wait for the other side. A full ring returns
// [ErrFull], an empty one [ErrEmpty]; both wrap [ErrWouldBlock]:
//
//	q := xcpu.NewRing[xcpu.Payload](1024)
//	if err := q.Produce(xcpu.Sentinel(42)); xcpu.IsWouldBlock(err) {
//	    // full
//	}
//	p, err := q.Consume()
//
// Whether a ring is full or empty is decided by the occupancy of the one
// slot under the caller's cursor. The producer never reads the consumer
// cursor and the consumer never reads the producer cursor; the two cursors
// and their locks sit on different cache lines. The only memory the two
// CPUs share is the payload slots themselves.
//
// Teardown goes through Drain, which calls a release function exactly once
// per payload still queued:
//
//	n := q.Drain(func(p xcpu.Payload) { alloc.Release(p) })
//
// # Scenarios
//
// Bits of the run-flags mask select scenarios:
//
//	bit 0  single_cpu_page_alloc_put   allocate+release on one CPU
//	bit 1  baseline_ring_cross_cpu     sentinels over Ring
//	bit 2  cross_cpu_page_alloc_put    pages over Ring, freed on the consumer
//	bit 3  baseline_spsc_cross_cpu     sentinels over the lock-free SPSC
//	bit 4  baseline_sharded_cross_cpu  sentinels over go-lock-free-ring
//	bit 5  baseline_seq_cross_cpu      sentinels over the sequence-slot queue
//
// A worker stops early when its queue fills up or runs dry. Its record
// keeps the iteration count it reached and the reporter prints a WARN line,
// so the numbers can be judged. Tune Capacity and Prefill until both
// workers complete.
//
// # Error Handling
//
//	ErrFull, ErrEmpty  control flow; truncate one worker's loop
//	*ConfigError       invalid Config; nothing runs
//	*AllocationError   no page available; aborts the scenario
//	*ResourceError     a worker could not be placed; aborts the run
//
// Suite isolates scenarios: one that fails is logged and the next one runs.
//
// # Placement
//
// [Affinity] pins each worker's OS thread with sched_setaffinity on Linux.
// [LockedThread] only dedicates a thread, for environments where pinning is
// not permitted.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, [code.hybscloud.com/spin] for CPU pause instructions and
// [golang.org/x/sys] for cache-line size, thread affinity and page mappings.
package xcpu

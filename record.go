// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import "time"

// Role is the behavior a worker plays against the shared transport.
type Role uint8

const (
	// RoleNone marks a record whose worker has not chosen a role.
	RoleNone Role = iota
	// RoleProducer workers run on even CPUs and produce.
	RoleProducer
	// RoleConsumer workers run on odd CPUs and consume.
	RoleConsumer
	// RoleLocal workers allocate and release on a single CPU.
	RoleLocal
)

func (r Role) String() string {
	switch r {
	case RoleProducer:
		return "producer"
	case RoleConsumer:
		return "consumer"
	case RoleLocal:
		return "local"
	default:
		return "none"
	}
}

// RoleOf returns the cross-CPU role for a CPU id: even ids produce, odd ids
// consume.
func RoleOf(cpu int) Role {
	if cpu%2 == 0 {
		return RoleProducer
	}
	return RoleConsumer
}

// Outcome tags how a worker loop ended.
type Outcome uint8

const (
	// OutcomePending means Stop has not been called.
	OutcomePending Outcome = iota
	// OutcomeComplete means every requested iteration ran.
	OutcomeComplete
	// OutcomeEarly means the loop ended before the requested count.
	OutcomeEarly
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomeEarly:
		return "early"
	default:
		return "pending"
	}
}

// epoch anchors monotonic timestamps. time.Since reads the monotonic clock.
var epoch = time.Now()

// monotime returns monotonic nanoseconds since process start.
func monotime() int64 {
	return int64(time.Since(epoch))
}

// Record is the timing record of one worker.
//
// The runner creates a Record per CPU before the start barrier. The worker
// calls Start immediately before its timed loop and Stop immediately after;
// the record is read-only from then on.
type Record struct {
	CPU       int
	Role      Role
	Loops     uint32 // Requested iterations
	Completed uint64 // Iterations that ran to completion
	Outcome   Outcome
	Err       error // Why the loop ended early, if it did
	StartNs   int64
	StopNs    int64
}

// NewRecord returns a pending record for a worker on cpu.
func NewRecord(cpu int, loops uint32) *Record {
	return &Record{CPU: cpu, Loops: loops}
}

// Start records the start timestamp.
func (r *Record) Start() {
	r.StartNs = monotime()
}

// Stop records the stop timestamp, the completed count and the cause of an
// early exit. The outcome is early iff completed is below the requested
// count.
func (r *Record) Stop(completed uint64, err error) {
	r.StopNs = monotime()
	r.Completed = completed
	r.Err = err
	if completed < uint64(r.Loops) {
		r.Outcome = OutcomeEarly
	} else {
		r.Outcome = OutcomeComplete
	}
}

// Early reports whether the worker stopped before its requested count.
func (r *Record) Early() bool { return r.Outcome == OutcomeEarly }

// Elapsed returns stop minus start.
func (r *Record) Elapsed() time.Duration {
	return time.Duration(r.StopNs - r.StartNs)
}

// NsPerOp returns the average cost of one completed iteration.
// Returns 0 if nothing completed.
func (r *Record) NsPerOp() float64 {
	if r.Completed == 0 {
		return 0
	}
	return float64(r.StopNs-r.StartNs) / float64(r.Completed)
}

// Throughput returns completed iterations per second.
// Returns 0 if no time elapsed.
func (r *Record) Throughput() float64 {
	ns := r.StopNs - r.StartNs
	if ns <= 0 {
		return 0
	}
	return float64(r.Completed) * 1e9 / float64(ns)
}

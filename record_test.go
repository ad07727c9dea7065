// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"code.hybscloud.com/xcpu"
)

// =============================================================================
// Record
// =============================================================================

func TestRecordOutcome(t *testing.T) {
	rec := xcpu.NewRecord(2, 100)
	if rec.Outcome != xcpu.OutcomePending || rec.Early() {
		t.Fatalf("new record: got outcome %v", rec.Outcome)
	}

	rec.Start()
	rec.Stop(100, nil)
	if rec.Outcome != xcpu.OutcomeComplete || rec.Early() {
		t.Fatalf("complete: got outcome %v", rec.Outcome)
	}
	if rec.StopNs < rec.StartNs {
		t.Fatalf("timestamps: stop %d before start %d", rec.StopNs, rec.StartNs)
	}

	rec = xcpu.NewRecord(3, 100)
	rec.Start()
	rec.Stop(42, xcpu.ErrEmpty)
	if !rec.Early() || rec.Outcome != xcpu.OutcomeEarly {
		t.Fatalf("early: got outcome %v", rec.Outcome)
	}
	if rec.Completed != 42 || !errors.Is(rec.Err, xcpu.ErrEmpty) {
		t.Fatalf("early: got completed=%d err=%v", rec.Completed, rec.Err)
	}
}

func TestRecordRates(t *testing.T) {
	rec := &xcpu.Record{Loops: 1000, Completed: 1000, StartNs: 1_000, StopNs: 11_000}
	if got := rec.Elapsed(); got != 10*time.Microsecond {
		t.Fatalf("Elapsed: got %v, want 10µs", got)
	}
	if got := rec.NsPerOp(); got != 10 {
		t.Fatalf("NsPerOp: got %v, want 10", got)
	}
	if got := rec.Throughput(); got != 1e8 {
		t.Fatalf("Throughput: got %v, want 1e8", got)
	}

	// Zero completed or zero elapsed never divide by zero
	zero := &xcpu.Record{Loops: 10, StartNs: 5, StopNs: 5}
	if zero.NsPerOp() != 0 || zero.Throughput() != 0 {
		t.Fatalf("zero record: got ns/op=%v ops/sec=%v", zero.NsPerOp(), zero.Throughput())
	}
}

func TestRoleOf(t *testing.T) {
	for cpu, want := range map[int]xcpu.Role{
		0: xcpu.RoleProducer,
		1: xcpu.RoleConsumer,
		2: xcpu.RoleProducer,
		7: xcpu.RoleConsumer,
	} {
		if got := xcpu.RoleOf(cpu); got != want {
			t.Fatalf("RoleOf(%d): got %v, want %v", cpu, got, want)
		}
	}
	if xcpu.RoleProducer.String() != "producer" || xcpu.RoleConsumer.String() != "consumer" {
		t.Fatal("Role.String mismatch")
	}
}

// =============================================================================
// Reporter
// =============================================================================

func TestReporterCompleteRun(t *testing.T) {
	var buf bytes.Buffer
	res := xcpu.ScenarioResult{
		Scenario: xcpu.Scenario{Name: "baseline_ring_cross_cpu"},
		Records: []*xcpu.Record{
			{CPU: 0, Role: xcpu.RoleProducer, Loops: 10, Completed: 10, Outcome: xcpu.OutcomeComplete, StartNs: 0, StopNs: 100},
			{CPU: 1, Role: xcpu.RoleConsumer, Loops: 10, Completed: 10, Outcome: xcpu.OutcomeComplete, StartNs: 10, StopNs: 210},
		},
	}
	if err := xcpu.NewReporter(&buf).Report(res); err != nil {
		t.Fatalf("Report: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "WARN") {
		t.Fatalf("complete run printed a warning:\n%s", out)
	}
	for _, want := range []string{
		"baseline_ring_cross_cpu: CPU(0) producer: 10.000 ns/op",
		"baseline_ring_cross_cpu: CPU(1) consumer: 20.000 ns/op",
		"(loops:10/completed:10)",
		"Sum: average 15.000 ns/op - (measurement period:210ns) - (completed:20)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

// TestReporterWarnsOnEarly checks that a truncated worker is flagged so a
// reader can tell the numbers are not a full run.
func TestReporterWarnsOnEarly(t *testing.T) {
	var buf bytes.Buffer
	res := xcpu.ScenarioResult{
		Scenario: xcpu.Scenario{Name: "x"},
		Records: []*xcpu.Record{
			{CPU: 0, Role: xcpu.RoleProducer, Loops: 200, Completed: 200, Outcome: xcpu.OutcomeComplete, StopNs: 200},
			{CPU: 1, Role: xcpu.RoleConsumer, Loops: 200, Completed: 50, Outcome: xcpu.OutcomeEarly, Err: xcpu.ErrEmpty, StopNs: 100},
		},
	}
	if err := xcpu.NewReporter(&buf).Report(res); err != nil {
		t.Fatalf("Report: %v", err)
	}
	out := buf.String()
	if n := strings.Count(out, "WARN"); n != 1 {
		t.Fatalf("WARN lines: got %d, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "x: WARN: CPU(1) consumer only completed 50 of 200 loops") {
		t.Fatalf("missing consumer warning:\n%s", out)
	}
}

func TestReporterNoRecords(t *testing.T) {
	var buf bytes.Buffer
	if err := xcpu.NewReporter(&buf).Report(xcpu.ScenarioResult{}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty result printed %q", buf.String())
	}
}

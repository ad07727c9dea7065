// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command xcpu runs the cross-CPU transfer benchmarks.
//
// Usage:
//
//	go run ./cmd/xcpu -loops 10000000 -run-flags 0b010
//
// -run-flags is a bitmask selecting scenarios (bit 0 single_cpu_page_alloc_put,
// bit 1 baseline_ring_cross_cpu, bit 2 cross_cpu_page_alloc_put, bit 3
// baseline_spsc_cross_cpu, bit 4 baseline_sharded_cross_cpu, bit 5
// baseline_seq_cross_cpu), handy for profiling one scenario at a time.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"code.hybscloud.com/xcpu"
)

func main() {
	loops := flag.Uint64("loops", xcpu.DefaultLoops, "iteration loops per worker")
	capacity := flag.Int("capacity", xcpu.DefaultCapacity, "queue capacity")
	prefill := flag.Int("prefill", xcpu.DefaultPrefill, "payloads queued before the run")
	order := flag.Int("order", 0, "page order of page payloads")
	runFlags := flag.Uint64("run-flags", 0xFFFFFFFF, "bitmask of scenarios to run")
	cpuList := flag.String("cpus", "0,1", "producer (even) and consumer (odd) CPU ids")
	pin := flag.Bool("pin", true, "pin workers with CPU affinity")
	verbose := flag.Bool("v", true, "log progress")
	flag.Parse()

	logger := log.New(os.Stderr, "xcpu: ", 0)

	cpus, err := parseCPUs(*cpuList)
	if err != nil {
		logger.Fatalf("-cpus: %v", err)
	}
	if *loops > 1<<32-1 {
		logger.Fatalf("-loops: %d does not fit 32 bits", *loops)
	}
	cfg, err := xcpu.NewConfig().
		Loops(uint32(*loops)).
		Capacity(*capacity).
		Prefill(*prefill).
		Order(*order).
		CPUs(cpus...).
		Build()
	if err != nil {
		logger.Fatal(err)
	}

	env := xcpu.Env{
		Allocator: xcpu.PageAllocator{Order: cfg.Order()},
		Placement: xcpu.Affinity{},
		Logger:    logger,
	}
	if !*pin {
		env.Placement = xcpu.LockedThread{}
	}
	if *verbose {
		logger.Printf("Loaded (using page_order:%d)", cfg.Order())
	}

	suite := &xcpu.Suite{
		Config:   cfg,
		RunFlags: *runFlags,
		Env:      env,
		Reporter: xcpu.NewReporter(os.Stdout),
	}
	results := suite.Run()

	if *verbose {
		logger.Printf("Unloaded")
	}
	if len(xcpu.Failed(results)) > 0 {
		os.Exit(1)
	}
}

// parseCPUs parses a comma-separated CPU list such as "0,1" or "2, 3".
func parseCPUs(s string) ([]int, error) {
	var cpus []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad CPU id %q: %w", f, err)
		}
		cpus = append(cpus, n)
	}
	if len(cpus) == 0 {
		return nil, fmt.Errorf("no CPU ids in %q", s)
	}
	return cpus, nil
}

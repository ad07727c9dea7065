// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"slices"

	"github.com/eapache/queue"
)

// Run-flag bits selecting the built-in scenarios.
const (
	BitLocalPageAllocPut = iota // single_cpu_page_alloc_put
	BitRingBaseline             // baseline_ring_cross_cpu
	BitRingPageAllocPut         // cross_cpu_page_alloc_put
	BitSPSCBaseline             // baseline_spsc_cross_cpu
	BitShardedBaseline          // baseline_sharded_cross_cpu
	BitSeqBaseline              // baseline_seq_cross_cpu
)

// RunAll selects every scenario.
const RunAll = ^uint64(0)

// Scenario describes one benchmark: what is moved, over which transport,
// and whether it spans two CPUs.
type Scenario struct {
	Name    string
	Bit     uint
	Mode    Mode
	Backend Backend
	Local   bool // Single-CPU allocate/release loop, no transport
}

// Selected reports whether flags enables s.
func (s Scenario) Selected(flags uint64) bool {
	return s.Bit < 64 && flags&(1<<s.Bit) != 0
}

// Scenarios returns the built-in scenarios in run order.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "single_cpu_page_alloc_put", Bit: BitLocalPageAllocPut, Mode: ModePage, Local: true},
		{Name: "baseline_ring_cross_cpu", Bit: BitRingBaseline, Mode: ModeSentinel, Backend: BackendRing},
		{Name: "cross_cpu_page_alloc_put", Bit: BitRingPageAllocPut, Mode: ModePage, Backend: BackendRing},
		{Name: "baseline_spsc_cross_cpu", Bit: BitSPSCBaseline, Mode: ModeSentinel, Backend: BackendSPSC},
		{Name: "baseline_sharded_cross_cpu", Bit: BitShardedBaseline, Mode: ModeSentinel, Backend: BackendSharded},
		{Name: "baseline_seq_cross_cpu", Bit: BitSeqBaseline, Mode: ModeSentinel, Backend: BackendSeq},
	}
}

// Env holds the collaborators a scenario runs against.
// Zero fields take defaults: a PageAllocator of the configured order,
// Affinity placement and a discarding logger.
type Env struct {
	Allocator Allocator
	Placement Placement
	Logger    *log.Logger
}

func (e Env) withDefaults(cfg Config) Env {
	if e.Allocator == nil {
		e.Allocator = PageAllocator{Order: cfg.order}
	}
	if e.Placement == nil {
		e.Placement = Affinity{}
	}
	if e.Logger == nil {
		e.Logger = log.New(io.Discard, "", 0)
	}
	return e
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Scenario Scenario
	Records  []*Record // Sorted by CPU; nil if the run never started
	Drained  int       // Entries left in the transport at teardown
	Err      error
}

// RunScenario validates cfg for s, builds and prefills the transport, runs
// one worker per CPU, and tears the transport down, releasing every page
// left in it.
//
// Errors are returned in the result, never panicked: a [ConfigError] before
// any worker exists, a [ResourceError] if a worker cannot be placed, or an
// [AllocationError] if prefill or a producer runs out of pages.
func RunScenario(s Scenario, base Config, env Env) ScenarioResult {
	res := ScenarioResult{Scenario: s}
	cfg := base.with(s.Mode, s.Backend)
	if err := cfg.Validate(); err != nil {
		res.Err = err
		return res
	}
	env = env.withDefaults(cfg)

	if s.Local {
		res.Records, res.Err = runLocal(s, cfg, env)
		return res
	}
	if err := cfg.validatePair(); err != nil {
		res.Err = err
		return res
	}

	t, err := newTransport(cfg)
	if err != nil {
		res.Err = &ResourceError{Op: "create queue", CPU: -1, Err: err}
		return res
	}
	release := func(p Payload) {
		if !p.IsSentinel() {
			env.Allocator.Release(p)
		}
	}

	if err := prefill(t, cfg, env.Allocator); err != nil {
		t.Drain(release)
		res.Err = err
		return res
	}

	w := &crossWorker{desc: s.Name, log: env.Logger}
	if cfg.mode == ModePage {
		w.alloc = env.Allocator
	}
	recs, err := Run(cfg.cpus, cfg.loops, t, w.run, WithPlacement(env.Placement))
	res.Drained = t.Drain(release)
	if err != nil {
		res.Err = err
		return res
	}

	res.Records = sortRecords(recs)
	for _, rec := range res.Records {
		if errors.Is(rec.Err, ErrAllocation) {
			res.Err = rec.Err
			break
		}
	}
	return res
}

func newTransport(cfg Config) (Transport[Payload], error) {
	switch cfg.backend {
	case BackendSPSC:
		return NewSPSC[Payload](cfg.capacity), nil
	case BackendSeq:
		return NewSeq[Payload](cfg.capacity), nil
	case BackendSharded:
		s, err := NewSharded[Payload](cfg.capacity)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return NewRing[Payload](cfg.capacity), nil
	}
}

// prefill queues cfg.prefill payloads to keep producer and consumer apart
// so the consumer does not run dry at the start.
func prefill(t Transport[Payload], cfg Config, alloc Allocator) error {
	p := Sentinel(prefillTag)
	for i := range cfg.prefill {
		if cfg.mode == ModePage {
			var err error
			if p, err = alloc.Allocate(); err != nil {
				return &AllocationError{Op: fmt.Sprintf("prefill %d/%d", i, cfg.prefill), CPU: -1, Err: err}
			}
		}
		if err := t.Produce(p); err != nil {
			if cfg.mode == ModePage {
				alloc.Release(p)
			}
			return fmt.Errorf("xcpu: queue cannot prefill %d (size %d): %w", cfg.prefill, t.Cap(), err)
		}
	}
	return nil
}

func runLocal(s Scenario, cfg Config, env Env) ([]*Record, error) {
	w := &localWorker{desc: s.Name, log: env.Logger}
	recs, err := Run(cfg.cpus[:1], cfg.loops, env.Allocator, w.run, WithPlacement(env.Placement))
	if err != nil {
		return nil, err
	}
	out := sortRecords(recs)
	for _, rec := range out {
		if rec.Err != nil {
			return out, rec.Err
		}
	}
	return out, nil
}

func sortRecords(recs map[int]*Record) []*Record {
	out := make([]*Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b *Record) int { return a.CPU - b.CPU })
	return out
}

// Suite runs the scenarios selected by RunFlags one after another.
//
// Scenarios are isolated: a scenario that fails is logged and skipped, and
// the remaining ones still run.
type Suite struct {
	Config    Config
	RunFlags  uint64
	Env       Env
	Reporter  *Reporter  // Nil disables reporting
	Scenarios []Scenario // Nil means Scenarios()
}

// Run executes every selected scenario and returns their results in run
// order.
func (s *Suite) Run() []ScenarioResult {
	list := s.Scenarios
	if list == nil {
		list = Scenarios()
	}
	logger := s.Env.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	pending := queue.New()
	for _, sc := range list {
		if sc.Selected(s.RunFlags) {
			pending.Add(sc)
		}
	}

	results := make([]ScenarioResult, 0, pending.Length())
	for pending.Length() > 0 {
		sc := pending.Remove().(Scenario)
		res := RunScenario(sc, s.Config, s.Env)
		if res.Err != nil {
			logger.Printf("%s: aborted: %v", sc.Name, res.Err)
		}
		if s.Reporter != nil && res.Records != nil {
			if err := s.Reporter.Report(res); err != nil {
				logger.Printf("%s: report: %v", sc.Name, err)
			}
		}
		results = append(results, res)
	}
	return results
}

// Failed returns the results that ended with an error.
func Failed(results []ScenarioResult) []ScenarioResult {
	var out []ScenarioResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"fmt"
	"slices"
)

// Defaults match the kernel page_bench05 module parameters.
const (
	DefaultLoops    = 1_000_000
	DefaultCapacity = 32_000
	DefaultPrefill  = 8_000

	// MaxOrder bounds the payload size class: 2^MaxOrder pages.
	MaxOrder = 10
)

// Mode selects what a benchmark moves through the transport.
type Mode uint8

const (
	// ModeSentinel moves non-owning sentinels; no memory is allocated.
	ModeSentinel Mode = iota
	// ModePage moves pages obtained from the scenario's Allocator.
	ModePage
)

func (m Mode) String() string {
	if m == ModePage {
		return "page"
	}
	return "sentinel"
}

// Backend selects the transport implementation.
type Backend uint8

const (
	// BackendRing is the two-lock [Ring].
	BackendRing Backend = iota
	// BackendSPSC is the lock-free [SPSC].
	BackendSPSC
	// BackendSharded is the go-lock-free-ring adapter [Sharded].
	BackendSharded
	// BackendSeq is the sequence-slot CAS queue [Seq].
	BackendSeq
)

func (b Backend) String() string {
	switch b {
	case BackendSPSC:
		return "spsc"
	case BackendSharded:
		return "sharded"
	case BackendSeq:
		return "seq"
	default:
		return "ring"
	}
}

// Config is an immutable benchmark configuration.
//
// Obtain one from a [Builder]. The zero Config is not valid.
type Config struct {
	loops    uint32
	capacity int
	prefill  int
	order    int
	mode     Mode
	backend  Backend
	cpus     []int
}

// Loops returns the requested iterations per worker.
func (c Config) Loops() uint32 { return c.loops }

// Capacity returns the transport capacity.
func (c Config) Capacity() int { return c.capacity }

// Prefill returns the number of payloads queued before the run.
func (c Config) Prefill() int { return c.prefill }

// Order returns the payload size class.
func (c Config) Order() int { return c.order }

// Mode returns the payload mode.
func (c Config) Mode() Mode { return c.mode }

// Backend returns the transport implementation.
func (c Config) Backend() Backend { return c.backend }

// CPUs returns a copy of the CPU set.
func (c Config) CPUs() []int { return slices.Clone(c.cpus) }

// with returns a copy of c using mode and backend.
func (c Config) with(mode Mode, backend Backend) Config {
	c.mode = mode
	c.backend = backend
	return c
}

// Validate checks c before any worker is spawned.
// Returns a [ConfigError] describing the first violation.
func (c Config) Validate() error {
	switch {
	case c.loops == 0:
		return &ConfigError{Field: "loops", Reason: "must be positive"}
	case uint64(c.loops)*2 >= 1<<32-1:
		return &ConfigError{Field: "loops", Reason: fmt.Sprintf("%d too big, will overflow 32-bit counter", c.loops)}
	case c.capacity < 1:
		return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("%d must be positive", c.capacity)}
	case c.backend != BackendRing && c.capacity < 2:
		return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("%d below minimum 2 for %s backend", c.capacity, c.backend)}
	case c.prefill < 0:
		return &ConfigError{Field: "prefill", Reason: fmt.Sprintf("%d must not be negative", c.prefill)}
	case c.prefill >= c.capacity:
		return &ConfigError{Field: "prefill", Reason: fmt.Sprintf("%d must be below capacity %d", c.prefill, c.capacity)}
	case c.order < 0 || c.order > MaxOrder:
		return &ConfigError{Field: "order", Reason: fmt.Sprintf("%d outside [0, %d]", c.order, MaxOrder)}
	case len(c.cpus) == 0:
		return &ConfigError{Field: "cpus", Reason: "empty CPU set"}
	}
	for i, cpu := range c.cpus {
		if cpu < 0 {
			return &ConfigError{Field: "cpus", Reason: fmt.Sprintf("negative CPU id %d", cpu)}
		}
		if slices.Contains(c.cpus[:i], cpu) {
			return &ConfigError{Field: "cpus", Reason: fmt.Sprintf("CPU %d listed twice", cpu)}
		}
	}
	return nil
}

// validatePair checks that c names exactly one producer and one consumer
// CPU, as cross-CPU scenarios require.
func (c Config) validatePair() error {
	if len(c.cpus) != 2 || RoleOf(c.cpus[0]) == RoleOf(c.cpus[1]) {
		return &ConfigError{Field: "cpus", Reason: fmt.Sprintf("%v must be one even and one odd CPU", c.cpus)}
	}
	return nil
}

// Builder creates configurations with a fluent API.
//
// Example:
//
//	cfg, err := xcpu.NewConfig().
//	    Loops(10_000_000).
//	    Capacity(32_000).
//	    Prefill(8_000).
//	    CPUs(2, 3).
//	    Build()
type Builder struct {
	cfg Config
}

// NewConfig creates a builder holding the default configuration:
// DefaultLoops, DefaultCapacity, DefaultPrefill, order 0, sentinel
// payloads over a Ring on CPUs 0 and 1.
func NewConfig() *Builder {
	return &Builder{cfg: Config{
		loops:    DefaultLoops,
		capacity: DefaultCapacity,
		prefill:  DefaultPrefill,
		cpus:     []int{0, 1},
	}}
}

// Loops sets the requested iterations per worker.
func (b *Builder) Loops(n uint32) *Builder {
	b.cfg.loops = n
	return b
}

// Capacity sets the transport capacity.
func (b *Builder) Capacity(n int) *Builder {
	b.cfg.capacity = n
	return b
}

// Prefill sets how many payloads are queued before workers start.
// Prefill must stay below capacity.
func (b *Builder) Prefill(n int) *Builder {
	b.cfg.prefill = n
	return b
}

// Order sets the payload size class for page payloads.
func (b *Builder) Order(n int) *Builder {
	b.cfg.order = n
	return b
}

// Mode sets the payload mode.
func (b *Builder) Mode(m Mode) *Builder {
	b.cfg.mode = m
	return b
}

// Backend sets the transport implementation.
func (b *Builder) Backend(k Backend) *Builder {
	b.cfg.backend = k
	return b
}

// CPUs sets the CPU set. Even ids produce, odd ids consume.
func (b *Builder) CPUs(cpus ...int) *Builder {
	b.cfg.cpus = slices.Clone(cpus)
	return b
}

// Config returns the configuration without validating it.
func (b *Builder) Config() Config {
	c := b.cfg
	c.cpus = slices.Clone(b.cfg.cpus)
	return c
}

// Build validates and returns the configuration.
func (b *Builder) Build() (Config, error) {
	c := b.Config()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

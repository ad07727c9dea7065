// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/xcpu"
)

// =============================================================================
// Test Helpers
// =============================================================================

type transportCase struct {
	name string
	make func(capacity int) xcpu.Transport[int]
}

func transportCases(t *testing.T) []transportCase {
	return []transportCase{
		{"Ring", func(n int) xcpu.Transport[int] { return xcpu.NewRing[int](n) }},
		{"SPSC", func(n int) xcpu.Transport[int] { return xcpu.NewSPSC[int](n) }},
		{"Seq", func(n int) xcpu.Transport[int] { return xcpu.NewSeq[int](n) }},
		{"Sharded", func(n int) xcpu.Transport[int] {
			q, err := xcpu.NewSharded[int](n)
			if err != nil {
				t.Fatalf("NewSharded: %v", err)
			}
			return q
		}},
	}
}

// =============================================================================
// Concurrent FIFO
// =============================================================================

// TestConcurrentFIFO moves a numbered sequence from one goroutine to another
// through a small queue, retrying on ErrFull/ErrEmpty, and checks every
// value arrives exactly once and in order.
func TestConcurrentFIFO(t *testing.T) {
	if xcpu.RaceEnabled {
		t.Skip("skip: atomix ordering is invisible to the race detector")
	}

	const total = 100_000
	for _, tc := range transportCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.make(64)
			var timedOut atomix.Bool
			var wg sync.WaitGroup

			wg.Add(1)
			go func() {
				defer wg.Done()
				backoff := iox.Backoff{}
				deadline := time.Now().Add(10 * time.Second)
				for i := 0; i < total; {
					if err := q.Produce(i); err != nil {
						if !xcpu.IsWouldBlock(err) {
							t.Errorf("Produce(%d): %v", i, err)
							return
						}
						if time.Now().After(deadline) {
							timedOut.StoreRelease(true)
							return
						}
						backoff.Wait()
						continue
					}
					backoff.Reset()
					i++
				}
			}()

			backoff := iox.Backoff{}
			deadline := time.Now().Add(10 * time.Second)
			for want := 0; want < total; {
				v, err := q.Consume()
				if err != nil {
					if !xcpu.IsWouldBlock(err) {
						t.Fatalf("Consume: %v", err)
					}
					if timedOut.LoadAcquire() || time.Now().After(deadline) {
						t.Fatalf("timeout waiting for %d (producer timed out: %v)", want, timedOut.LoadAcquire())
					}
					backoff.Wait()
					continue
				}
				backoff.Reset()
				if v != want {
					t.Fatalf("Consume: got %d, want %d", v, want)
				}
				want++
			}
			wg.Wait()

			if n := q.Drain(nil); n != 0 {
				t.Fatalf("Drain after full transfer: got %d, want 0", n)
			}
		})
	}
}

// TestConcurrentConservation runs producer and consumer without retry, the
// way benchmark workers do, and checks nothing is lost or duplicated:
// every produced value is either consumed or left for Drain.
func TestConcurrentConservation(t *testing.T) {
	if xcpu.RaceEnabled {
		t.Skip("skip: atomix ordering is invisible to the race detector")
	}

	const capacity, rounds = 128, 50
	for _, tc := range transportCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			for round := range rounds {
				q := tc.make(capacity)
				var produced, consumed atomix.Int64
				var got []int
				var wg sync.WaitGroup

				wg.Add(2)
				go func() {
					defer wg.Done()
					for i := range 10 * capacity {
						if q.Produce(i) != nil {
							return
						}
						produced.Add(1)
					}
				}()
				go func() {
					defer wg.Done()
					for range 10 * capacity {
						v, err := q.Consume()
						if err != nil {
							return
						}
						got = append(got, v)
						consumed.Add(1)
					}
				}()
				wg.Wait()

				for i, v := range got {
					if v != i {
						t.Fatalf("round %d: consumed[%d] = %d, want %d", round, i, v, i)
					}
				}
				next := len(got)
				drained := q.Drain(func(v int) {
					if v != next {
						t.Fatalf("round %d: drained %d, want %d", round, v, next)
					}
					next++
				})
				if int64(drained) != produced.Load()-consumed.Load() {
					t.Fatalf("round %d: drained %d, want produced %d - consumed %d",
						round, drained, produced.Load(), consumed.Load())
				}
			}
		})
	}
}

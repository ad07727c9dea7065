// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"fmt"
	"io"
	"time"
)

// Reporter prints scenario results, one line per worker plus a summary.
//
// Output format:
//
//	<name>: CPU(<id>) <role>: <ns> ns/op <n> ops/sec - (loops:<req>/completed:<n>) elapsed:<d>
//	<name>: WARN: CPU(<id>) <role> only completed <n> of <req> loops (<cause>)
//	<name>: Sum: average <ns> ns/op - (measurement period:<d>) - (completed:<n>)
//
// The WARN line appears only for workers that stopped early, so readers can
// judge whether the numbers are valid.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report writes res. Returns the first write error.
func (r *Reporter) Report(res ScenarioResult) error {
	name := res.Scenario.Name
	var (
		sumNs    float64
		measured int
		total    uint64
		first    int64
		last     int64
	)
	for i, rec := range res.Records {
		if _, err := fmt.Fprintf(r.w, "%s: CPU(%d) %s: %.3f ns/op %.0f ops/sec - (loops:%d/completed:%d) elapsed:%v\n",
			name, rec.CPU, rec.Role, rec.NsPerOp(), rec.Throughput(), rec.Loops, rec.Completed, rec.Elapsed()); err != nil {
			return err
		}
		if rec.Early() {
			if _, err := fmt.Fprintf(r.w, "%s: WARN: CPU(%d) %s only completed %d of %d loops (%v)\n",
				name, rec.CPU, rec.Role, rec.Completed, rec.Loops, rec.Err); err != nil {
				return err
			}
		}
		if rec.Completed > 0 {
			sumNs += rec.NsPerOp()
			measured++
		}
		total += rec.Completed
		if i == 0 || rec.StartNs < first {
			first = rec.StartNs
		}
		if i == 0 || rec.StopNs > last {
			last = rec.StopNs
		}
	}
	if len(res.Records) == 0 {
		return nil
	}

	var avg float64
	if measured > 0 {
		avg = sumNs / float64(measured)
	}
	_, err := fmt.Fprintf(r.w, "%s: Sum: average %.3f ns/op - (measurement period:%v) - (completed:%d)\n",
		name, avg, time.Duration(last-first), total)
	return err
}

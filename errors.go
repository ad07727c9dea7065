// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a transport operation cannot proceed immediately.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
// [ErrFull] and [ErrEmpty] both wrap it.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrFull is returned by Produce when the slot at the producer cursor is
// still occupied.
//
// ErrFull is a control flow signal, not a failure: a benchmark worker that
// sees it ends its loop early and reports the count reached so far.
var ErrFull = fmt.Errorf("xcpu: queue full: %w", iox.ErrWouldBlock)

// ErrEmpty is returned by Consume when the slot at the consumer cursor holds
// no payload.
var ErrEmpty = fmt.Errorf("xcpu: queue empty: %w", iox.ErrWouldBlock)

// Sentinels for errors.Is classification of the typed errors below.
var (
	ErrConfig      = errors.New("xcpu: invalid configuration")
	ErrAllocation  = errors.New("xcpu: allocation failed")
	ErrResource    = errors.New("xcpu: worker resource unavailable")
	ErrUnsupported = errors.New("xcpu: not supported on this platform")
)

// IsWouldBlock reports whether err indicates a full or empty transport.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// ConfigError reports a configuration rejected before any worker starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "xcpu: config " + e.Field + ": " + e.Reason
}

// Is matches [ErrConfig].
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// AllocationError reports a failed payload allocation during prefill or
// inside a producer loop. It aborts the scenario that hit it.
type AllocationError struct {
	Op   string
	Role Role
	CPU  int
	Err  error
}

func (e *AllocationError) Error() string {
	if e.CPU < 0 {
		return fmt.Sprintf("xcpu: %s: allocation failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("xcpu: %s: allocation failed (%s CPU:%d): %v", e.Op, e.Role, e.CPU, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// Is matches [ErrAllocation].
func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// ResourceError reports that a worker could not be spawned or placed on its
// CPU. It aborts the whole run; no records are produced.
type ResourceError struct {
	Op  string
	CPU int
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("xcpu: %s (CPU:%d): %v", e.Op, e.CPU, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Is matches [ErrResource].
func (e *ResourceError) Is(target error) bool { return target == ErrResource }

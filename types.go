// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcpu

// Transport is the bounded FIFO a cross-CPU benchmark moves payloads
// through.
//
// Both operations are non-blocking: a full or empty transport is reported
// immediately so the measured loop never stalls on the other side.
//
// Example:
//
//	var t xcpu.Transport[xcpu.Payload] = xcpu.NewRing[xcpu.Payload](1024)
//	if err := t.Produce(xcpu.Sentinel(42)); err != nil {
//	    // ErrFull
//	}
//	p, err := t.Consume()
type Transport[T any] interface {
	Producer[T]
	Consumer[T]

	// Drain releases every entry still queued and resets the transport.
	// Teardown only: no Produce or Consume may run concurrently.
	Drain(release func(T)) int

	Cap() int
}

// Producer is the producing side of a Transport.
type Producer[T any] interface {
	// Produce adds an element (non-blocking).
	// Returns nil on success, ErrFull if the transport is full.
	Produce(elem T) error
}

// Consumer is the consuming side of a Transport.
type Consumer[T any] interface {
	// Consume removes and returns the oldest element (non-blocking).
	// Returns (zero-value, ErrEmpty) if the transport is empty.
	Consume() (T, error)
}

var (
	_ Transport[Payload] = (*Ring[Payload])(nil)
	_ Transport[Payload] = (*SPSC[Payload])(nil)
	_ Transport[Payload] = (*Sharded[Payload])(nil)
	_ Transport[Payload] = (*Seq[Payload])(nil)
)

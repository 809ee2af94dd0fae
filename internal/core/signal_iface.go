package core

import "errors"

var (
	ErrBackpressure     = errors.New("backpressure")
	ErrConnectionClosed = errors.New("connection closed")
)

// Frame is a raw text payload.
type Frame []byte

// ConnID identifies one live transport connection.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the core only references it.
type SignalConnection interface {
	ID() ConnID
	// TrySend queues f without blocking. It returns ErrConnectionClosed once
	// the connection is closed and ErrBackpressure when the send buffer is full.
	TrySend(f Frame) error
	// Close flushes queued frames and closes the transport. Idempotent.
	Close()
	IsClosed() bool
}

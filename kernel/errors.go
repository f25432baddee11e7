package kernel

import "errors"

var (
	// ErrResourceExhausted reports that a task could not be created because
	// the task table or the stack budget pool has run out.
	ErrResourceExhausted = errors.New("kernel: resource exhausted")

	// ErrTimedOut reports that a queue wait expired before the operation
	// could complete. It is an expected result, not a fault; callers are
	// expected to branch on it.
	ErrTimedOut = errors.New("kernel: timed out")

	// ErrInvalidHandle reports an operation on a deleted or never-created
	// task handle.
	ErrInvalidHandle = errors.New("kernel: invalid handle")

	// ErrInvalidCore reports a pin to a core index the kernel does not have.
	ErrInvalidCore = errors.New("kernel: core index out of range")

	// ErrItemTooLarge reports a queue item that does not fit the queue's
	// fixed slot size, or a receive buffer too small to hold a slot.
	ErrItemTooLarge = errors.New("kernel: item does not fit queue slot")
)

package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrFull   = errors.New("fetch queue is full")
	ErrClosed = errors.New("fetch queue is closed")
)

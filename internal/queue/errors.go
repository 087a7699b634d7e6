package queue

import "errors"

var (
	// ErrNotFound reports that no queued item carries the requested id.
	ErrNotFound = errors.New("video not found in queue")
	// ErrEmpty reports that the queue holds no items to take.
	ErrEmpty = errors.New("queue is empty")
)

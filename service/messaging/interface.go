// Package messaging defines the bounded FIFO handoff between pipeline
// stages.  The range engine uses it to decouple enumeration speed from sink
// I/O backpressure.
package messaging

import "context"

// Queue is a bounded FIFO of T.  Publish blocks once the buffer is full,
// which is exactly the backpressure the producing stage relies on.
type Queue[T any] interface {
	// Publish enqueues an item, honouring context cancellation while the
	// buffer is full.
	Publish(ctx context.Context, t *T) error

	// Consume dequeues the next item.  It returns ErrClosed once the queue
	// was closed and fully drained.
	Consume(ctx context.Context) (*T, error)

	// Close marks the producing side done; queued items remain consumable.
	Close()

	// Size returns the number of buffered items.
	Size() int
}

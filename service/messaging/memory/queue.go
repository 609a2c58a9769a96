// Package memory implements messaging.Queue on a buffered channel.
package memory

import (
	"context"
	"sync"

	"github.com/uuidlab/uuidrange/service/messaging"
)

// Queue is a channel-backed bounded FIFO.
type Queue[T any] struct {
	items     chan *T
	closeOnce sync.Once
	closed    chan struct{}
}

// NewQueue creates a queue buffering up to size items; size below one is
// raised to one so that Publish can always make progress eventually.
func NewQueue[T any](size int) *Queue[T] {
	if size < 1 {
		size = 1
	}
	return &Queue[T]{
		items:  make(chan *T, size),
		closed: make(chan struct{}),
	}
}

func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closed:
		return messaging.ErrClosed
	case q.items <- t:
		return nil
	}
}

func (q *Queue[T]) Consume(ctx context.Context) (*T, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case t := <-q.items:
		return t, nil
	case <-q.closed:
		// Drain whatever was buffered before the close.
		select {
		case t := <-q.items:
			return t, nil
		default:
			return nil, messaging.ErrClosed
		}
	}
}

func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() { close(q.closed) })
}

func (q *Queue[T]) Size() int {
	return len(q.items)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

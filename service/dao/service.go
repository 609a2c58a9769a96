package dao

import (
	"context"
)

// Service is the generic keyed-store contract shared by the task registry
// implementations.  Load returns an independent snapshot of the stored
// entity; Save stores (or overwrites) the canonical copy.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}

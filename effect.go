package kernz

import (
	"context"
)

// Effect creates a Processor that performs a side effect and passes its input through.
// A returned error fails the run. Use Effect for auditing, notifications and similar
// work that must not change the data.
func Effect[T any](identity Identity, fn func(context.Context, *T) error) Processor[T, T] {
	return Processor[T, T]{
		identity: identity,
		kind:     "effect",
		fn: func(ctx context.Context, in *T) (*T, error) {
			if err := fn(ctx, in); err != nil {
				return nil, err
			}
			return in, nil
		},
	}
}

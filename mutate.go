package kernz

import (
	"context"
)

// Mutate creates a Processor that modifies its input in place and passes the same
// reference on to the next stage. No new value is allocated.
//
// Because the caller's value is changed, Mutate is the adapter to reach for when the
// caller expects to observe the result through its own variable.
//
// Example:
//
//	decrement := kernz.Mutate(DecrementID, func(_ context.Context, xs *[]int) {
//	    for i := range *xs {
//	        (*xs)[i] -= 2
//	    }
//	})
func Mutate[T any](identity Identity, fn func(context.Context, *T)) Processor[T, T] {
	return Processor[T, T]{
		identity: identity,
		kind:     "mutate",
		fn: func(ctx context.Context, in *T) (*T, error) {
			fn(ctx, in)
			return in, nil
		},
	}
}

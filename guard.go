package kernz

import (
	"context"
)

// Guard creates a Processor that passes its input through unchanged when predicate
// holds and fails the run with ErrRejected otherwise.
//
// Example:
//
//	nonNegative := kernz.Guard(NonNegativeID, func(_ context.Context, xs *[]int) bool {
//	    for _, x := range *xs {
//	        if x < 0 {
//	            return false
//	        }
//	    }
//	    return true
//	})
func Guard[T any](identity Identity, predicate func(context.Context, *T) bool) Processor[T, T] {
	return Processor[T, T]{
		identity: identity,
		kind:     "guard",
		fn: func(ctx context.Context, in *T) (*T, error) {
			if !predicate(ctx, in) {
				return nil, ErrRejected
			}
			return in, nil
		},
	}
}

package kernz

import (
	"context"
)

// Transform creates a Processor that produces a new output value from its input.
// Transform is the simplest processor - use it when the operation always succeeds.
// The input is left untouched unless fn chooses to modify it; the output is a
// freshly allocated value.
//
// If the operation might fail, use Apply instead. If it only modifies the input,
// use Mutate to avoid the allocation.
//
// Example:
//
//	var SumID = kernz.NewIdentity("sum", "Adds all elements together")
//	sum := kernz.Transform(SumID, func(_ context.Context, xs *[]int) int {
//	    total := 0
//	    for _, x := range *xs {
//	        total += x
//	    }
//	    return total
//	})
func Transform[In, Out any](identity Identity, fn func(context.Context, *In) Out) Processor[In, Out] {
	return Processor[In, Out]{
		identity: identity,
		kind:     "transform",
		fn: func(ctx context.Context, in *In) (*Out, error) {
			out := fn(ctx, in)
			return &out, nil
		},
	}
}

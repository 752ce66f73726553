package kernz

import (
	"context"
)

// Then composes two kernels into one. The shared type parameter B makes the Go
// compiler reject any pair whose first output differs from the second input, so
// no instance of a mismatched composition can ever exist.
//
// Longer chains nest:
//
//	full := kernz.Then(OuterID, kernz.Then(InnerID, decrement, nonNegative), sum)
//
// The second kernel is only invoked when the first succeeds. A nil kernel on either side
// yields the zero Processor, which composition rejects with ErrNotKernel.
func Then[A, B, C any](identity Identity, first Kernel[A, B], second Kernel[B, C]) Processor[A, C] {
	if first == nil || second == nil || isNil(first) || isNil(second) {
		return Processor[A, C]{}
	}
	return Processor[A, C]{
		identity: identity,
		kind:     "then",
		steps:    []Node{kernelSchema(first), kernelSchema(second)},
		fn: func(ctx context.Context, in *A) (*C, error) {
			mid, err := first.Process(ctx, in)
			if err != nil {
				return nil, err
			}
			if mid == nil {
				return nil, ErrNoResult
			}
			return second.Process(ctx, mid)
		},
	}
}

// kernelSchema describes a kernel, using its own Schema when it has one.
func kernelSchema[In, Out any](kernel Kernel[In, Out]) Node {
	if s, ok := kernel.(interface{ Schema() Node }); ok {
		return s.Schema()
	}
	return newNode(kernel.Identity(), "kernel", SignatureOf[In, Out]())
}

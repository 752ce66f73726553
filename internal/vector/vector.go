// Package vector holds the integer-slice kernels used by the kernz command and the
// end-to-end tests: subtract a constant, require non-negative elements, and sum.
package vector

import (
	"context"
	"errors"

	"github.com/zoobzio/kernz"
)

// Identities.
var (
	PipelineID    = kernz.NewIdentity("vector", "Decrements, validates and sums a vector of integers")
	DecrementID   = kernz.NewIdentity("decrement", "Subtracts a constant from every element in place")
	NonNegativeID = kernz.NewIdentity("non-negative", "Fails unless every element is non-negative")
	SumID         = kernz.NewIdentity("sum", "Adds all elements together")
)

// ErrNegative is returned by NonNegative when an element is below zero.
var ErrNegative = errors.New("vector contains a negative element")

// Decrement subtracts By from every element, in place.
type Decrement struct {
	By int
}

// Identity implements kernz.Kernel.
func (*Decrement) Identity() kernz.Identity { return DecrementID }

// Process implements kernz.Kernel.
func (d *Decrement) Process(_ context.Context, xs *[]int) (*[]int, error) {
	for i := range *xs {
		(*xs)[i] -= d.By
	}
	return xs, nil
}

// NonNegative passes its input through when every element is >= 0.
type NonNegative struct{}

// Identity implements kernz.Kernel.
func (NonNegative) Identity() kernz.Identity { return NonNegativeID }

// Process implements kernz.Kernel.
func (NonNegative) Process(_ context.Context, xs *[]int) (*[]int, error) {
	for _, x := range *xs {
		if x < 0 {
			return nil, ErrNegative
		}
	}
	return xs, nil
}

// Sum adds all elements. The result lives in the kernel, so the returned pointer stays
// valid until the next call.
type Sum struct {
	total int
}

// Identity implements kernz.Kernel.
func (*Sum) Identity() kernz.Identity { return SumID }

// Process implements kernz.Kernel.
func (s *Sum) Process(_ context.Context, xs *[]int) (*int, error) {
	s.total = 0
	for _, x := range *xs {
		s.total += x
	}
	return &s.total, nil
}

// Pipeline builds decrement(by) -> non-negative -> sum.
func Pipeline(by int) (*kernz.Typed[[]int, int], error) {
	return kernz.Build[[]int, int](PipelineID,
		kernz.Bind[[]int, []int](&Decrement{By: by}),
		kernz.Bind[[]int, []int](NonNegative{}),
		kernz.Bind[[]int, int](&Sum{}),
	)
}

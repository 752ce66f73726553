package kernz

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
)

// Shared stages for tests in this package.
var (
	double = Mutate(NewIdentity("double", "Doubles in place"), func(_ context.Context, n *int) {
		*n *= 2
	})
	stringify = Transform(NewIdentity("stringify", "Formats an int"), func(_ context.Context, n *int) string {
		return strconv.Itoa(*n)
	})
	length = Transform(NewIdentity("length", "Length of a string"), func(_ context.Context, s *string) int {
		return len(*s)
	})
)

var errBoom = errors.New("boom")

// counting wraps fn with an invocation counter.
type counting[In, Out any] struct {
	calls atomic.Int64
	fn    func(*In) (*Out, error)
	id    Identity
}

func newCounting[In, Out any](name string, fn func(*In) (*Out, error)) *counting[In, Out] {
	return &counting[In, Out]{id: NewIdentity(name, ""), fn: fn}
}

func (c *counting[In, Out]) Identity() Identity { return c.id }

func (c *counting[In, Out]) Process(_ context.Context, in *In) (*Out, error) {
	c.calls.Add(1)
	return c.fn(in)
}

func (c *counting[In, Out]) Calls() int { return int(c.calls.Load()) }

// plainStage implements Stage directly, without a Schema method.
type plainStage struct {
	id Identity
}

func (s plainStage) Identity() Identity { return s.id }

func (s plainStage) Signature() Signature { return SignatureOf[int, int]() }

func (s plainStage) Run(_ context.Context, in any) (any, error) { return in, nil }

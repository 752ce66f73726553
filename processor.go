package kernz

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/zoobzio/clockz"
)

// Processor is a named kernel built from a function. It is the basic building block
// created by the adapter functions (Transform, Apply, Mutate, Guard, Effect, Bind, Then)
// and implements both Kernel[In, Out] and Stage.
//
// The function field is private so that every Processor goes through an adapter, which
// guarantees consistent failure handling: errors are wrapped in *Error, a nil output is
// reported as ErrNoResult, and panics are recovered as ErrPanic.
//
// The zero Processor is not a kernel; Inspect and NewPipeline reject it.
type Processor[In, Out any] struct {
	fn       func(context.Context, *In) (*Out, error)
	identity Identity
	kind     string
	steps    []Node
}

// Process implements Kernel.
func (p Processor[In, Out]) Process(ctx context.Context, in *In) (out *Out, err error) {
	clock := clockFrom(ctx)
	defer recoverFromPanic(&out, &err, p.identity, clock)

	start := clock.Now()
	out, err = p.fn(ctx, in)
	if err != nil {
		return nil, wrapError(p.identity, err, start, clock)
	}
	if out == nil {
		return nil, newError(p.identity, ErrNoResult, start, clock.Now())
	}
	return out, nil
}

// Run implements Stage.
func (p Processor[In, Out]) Run(ctx context.Context, in any) (any, error) {
	typed, ok := in.(*In)
	if !ok || typed == nil {
		now := clockFrom(ctx).Now()
		return nil, newError(p.identity, inputTypeError(in, reflect.TypeFor[In]()), now, now)
	}
	out, err := p.Process(ctx, typed)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Identity returns the processor's identity.
func (p Processor[In, Out]) Identity() Identity {
	return p.identity
}

// Signature implements Stage.
func (p Processor[In, Out]) Signature() Signature {
	if p.fn == nil {
		return Signature{}
	}
	return SignatureOf[In, Out]()
}

// Schema returns a Node describing this processor. Composite processors built by
// Then list their kernels in Steps.
func (p Processor[In, Out]) Schema() Node {
	node := newNode(p.identity, p.kind, p.Signature())
	node.Steps = slices.Clone(p.steps)
	return node
}

// wrapError attaches identity to err. Errors that already carry a path, such as those
// from a nested pipeline, keep their path with this identity prepended.
func wrapError(id Identity, err error, start time.Time, clock clockz.Clock) *Error {
	var runErr *Error
	if errors.As(err, &runErr) {
		if len(runErr.Path) > 0 && runErr.Path[0].ID() == id.ID() {
			return extend(runErr, err)
		}
		return extend(runErr, err, id)
	}
	return newError(id, err, start, clock.Now())
}

func inputTypeError(in any, want reflect.Type) error {
	return fmt.Errorf("%w: got %T, want *%s", ErrInputType, in, typeName(want))
}

func recoverFromPanic[Out any](out **Out, err *error, id Identity, clock clockz.Clock) {
	if r := recover(); r != nil {
		now := clock.Now()
		*out = nil
		*err = newError(id, fmt.Errorf("%w: %v", ErrPanic, r), now, now)
	}
}

type clockKey struct{}

// withClock makes clock the time source for processors running under ctx.
func withClock(ctx context.Context, clock clockz.Clock) context.Context {
	return context.WithValue(ctx, clockKey{}, clock)
}

// clockFrom returns the clock installed by the running pipeline, or the real clock.
func clockFrom(ctx context.Context) clockz.Clock {
	if ctx != nil {
		if clock, ok := ctx.Value(clockKey{}).(clockz.Clock); ok {
			return clock
		}
	}
	return clockz.RealClock
}

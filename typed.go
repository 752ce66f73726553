package kernz

import (
	"context"
	"fmt"
)

// Typed is a Pipeline viewed as a Kernel[In, Out]. The overall signature is checked
// once, when the Typed is created, so Process needs no type assertions at the boundary.
type Typed[In, Out any] struct {
	pipeline *Pipeline
}

// Build composes stages into a pipeline and checks that the result is a Kernel[In, Out].
//
//	sumPositive, err := kernz.Build[[]int, int](SumPositiveID, decrement, nonNegative, sum)
func Build[In, Out any](identity Identity, stages ...Stage) (*Typed[In, Out], error) {
	pipeline, err := NewPipeline(identity, stages...)
	if err != nil {
		return nil, err
	}
	typed, err := As[In, Out](pipeline)
	if err != nil {
		pipeline.Close() //nolint:errcheck
		return nil, err
	}
	return typed, nil
}

// As returns a typed view of pipeline. It fails with ErrTypeMismatch when the pipeline's
// signature is not (In, Out).
func As[In, Out any](pipeline *Pipeline) (*Typed[In, Out], error) {
	if pipeline == nil {
		return nil, &CompositionError{Index: -1, Err: ErrNotKernel}
	}
	want := SignatureOf[In, Out]()
	got := pipeline.Signature()
	if got != want {
		return nil, &CompositionError{
			Pipeline: pipeline.Identity(),
			Index:    -1,
			Left:     got,
			Right:    want,
			Err:      fmt.Errorf("%w: pipeline is %s, requested %s", ErrTypeMismatch, got, want),
		}
	}
	return &Typed[In, Out]{pipeline: pipeline}, nil
}

// Process implements Kernel. It runs the underlying pipeline on in.
func (t *Typed[In, Out]) Process(ctx context.Context, in *In) (*Out, error) {
	out, err := t.pipeline.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	typed, ok := out.(*Out)
	if !ok {
		now := t.pipeline.getClock(ctx).Now()
		return nil, newError(t.pipeline.Identity(), fmt.Errorf("%w: last stage returned %T", ErrNoResult, out), now, now)
	}
	return typed, nil
}

// Run implements Stage.
func (t *Typed[In, Out]) Run(ctx context.Context, in any) (any, error) {
	return t.pipeline.Run(ctx, in)
}

// Identity returns the pipeline's identity.
func (t *Typed[In, Out]) Identity() Identity {
	return t.pipeline.Identity()
}

// Signature implements Stage.
func (t *Typed[In, Out]) Signature() Signature {
	return t.pipeline.Signature()
}

// Schema returns the pipeline schema.
func (t *Typed[In, Out]) Schema() Node {
	return t.pipeline.Schema()
}

// Pipeline returns the untyped pipeline, for metrics, tracing and hooks.
func (t *Typed[In, Out]) Pipeline() *Pipeline {
	return t.pipeline
}

// Close closes the underlying pipeline.
func (t *Typed[In, Out]) Close() error {
	return t.pipeline.Close()
}

// Package kernz provides typed processing kernels and pipelines whose stage types are
// verified before any data flows.
//
// # Overview
//
// A kernel consumes one value and produces another, or fails. A pipeline is an ordered,
// fixed sequence of kernels where each stage receives the previous stage's output. kernz
// checks that adjacent stages line up (stage i's output type is stage i+1's input type)
// exactly once, when the pipeline is constructed, and refuses to build a pipeline that
// does not. Execution then threads one input through every stage in order and stops at
// the first failure.
//
// # Core Concepts
//
// Two interfaces carry the whole model:
//
//	type Kernel[In, Out any] interface {
//	    Process(ctx context.Context, in *In) (*Out, error)
//	    Identity() Identity
//	}
//
//	type Stage interface {
//	    Identity() Identity
//	    Signature() Signature
//	    Run(ctx context.Context, in any) (any, error)
//	}
//
// Kernel is the typed contract users implement. Stage is the type-erased form the pipeline
// composes; its Signature reports the declared input and output types. Processor implements
// both, so anything built with the adapter functions can be used directly as a stage.
//
// A kernel receives a pointer to its input. It may mutate the value in place and return the
// same pointer, or return a pointer to a new value. Callers must not assume either. A nil
// output means "no result" and fails the run, exactly like a returned error.
//
// # Adapter Functions
//
//   - Transform: produce a new value from the input; cannot fail
//   - Apply: full kernel function returning (*Out, error)
//   - Mutate: modify the input in place
//   - Guard: pass the input through or reject it
//   - Effect: side effects that may fail but never change the data
//   - Bind: adapt any user-defined Kernel[In, Out] type
//
// # Composition
//
// Two styles are available. Then composes two kernels and lets the Go compiler enforce
// continuity:
//
//	decThenSum := kernz.Then(PipelineID, decrement, sum) // Kernel[[]int, int]
//
// NewPipeline composes any number of stages and performs the same check at construction:
//
//	pipeline, err := kernz.NewPipeline(PipelineID, decrement, nonNegative, sum)
//	if err != nil {
//	    // *CompositionError: ErrEmptyPipeline, ErrNotKernel or ErrTypeMismatch
//	}
//
// Build and As wrap a pipeline as a typed Kernel so the caller keeps static types at the
// boundary:
//
//	typed, err := kernz.Build[[]int, int](PipelineID, decrement, nonNegative, sum)
//	out, err := typed.Process(ctx, &[]int{2, 3, 4}) // *out == 3
//
// Pipelines implement Stage, so they nest inside other pipelines.
//
// # Error Handling
//
// Every execution failure satisfies errors.Is(err, ErrFailed). Callers that only care
// whether a run succeeded check that. For diagnostics, *Error carries the identity path to
// the failing stage, its index, the cause, and timing:
//
//	var runErr *kernz.Error
//	if errors.As(err, &runErr) {
//	    log.Printf("failed at %v (stage %d): %v", runErr.Path, runErr.Stage, runErr.Err)
//	}
//
// # Observability
//
// Each Pipeline records metrics (metricz), spans (tracez) and stage/run events (hookz).
// The logging subpackage turns those events into zap log entries. The pipeline itself never
// logs.
//
// # Concurrency
//
// A run is synchronous: stages execute one at a time, in order. A Pipeline keeps no per-run
// state, so concurrent runs are safe when every contained kernel is.
package kernz

package kernz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for Pipeline.
const (
	// Metrics.
	PipelineRunsTotal       = metricz.Key("pipeline.runs.total")
	PipelineSuccessesTotal  = metricz.Key("pipeline.successes.total")
	PipelineFailuresTotal   = metricz.Key("pipeline.failures.total")
	PipelineStagesTotal     = metricz.Key("pipeline.stages.total")
	PipelineStagesCompleted = metricz.Key("pipeline.stages.completed")
	PipelineDurationMs      = metricz.Key("pipeline.duration.ms")

	// Spans.
	PipelineRunSpan   = tracez.Key("pipeline.run")
	PipelineStageSpan = tracez.Key("pipeline.stage")

	// Tags.
	PipelineTagStageCount  = tracez.Tag("pipeline.stage_count")
	PipelineTagStageNumber = tracez.Tag("pipeline.stage_number")
	PipelineTagStageName   = tracez.Tag("pipeline.stage_name")
	PipelineTagSuccess     = tracez.Tag("pipeline.success")
	PipelineTagError       = tracez.Tag("pipeline.error")

	// Hook event keys.
	PipelineEventStageComplete = hookz.Key("pipeline.stage_complete")
	PipelineEventRunComplete   = hookz.Key("pipeline.run_complete")
)

// PipelineEvent is emitted via hookz after each invoked stage and after each run.
// Stage events carry StageName, StageNumber and Duration; run events carry
// CompletedStages and TotalDuration.
type PipelineEvent struct {
	Timestamp       time.Time
	Error           error
	Name            string
	StageName       string
	StageNumber     int // 1-based
	TotalStages     int
	CompletedStages int
	Duration        time.Duration
	TotalDuration   time.Duration
	Success         bool
}

// Pipeline is an ordered, fixed sequence of stages whose adjacent types have been
// verified to line up. It is created with NewPipeline and cannot be modified
// afterwards: there is no way to insert, remove or reorder stages.
//
// Pipeline implements Stage with the signature (first stage input, last stage output),
// so pipelines can be nested inside other pipelines. Use Build or As for a typed view.
//
// # Observability
//
// Metrics:
//   - pipeline.runs.total: Counter of runs
//   - pipeline.successes.total: Counter of successful runs
//   - pipeline.failures.total: Counter of failed runs
//   - pipeline.stages.total: Gauge of the stage count
//   - pipeline.stages.completed: Gauge of stages completed in the latest run
//   - pipeline.duration.ms: Gauge of the latest run duration
//
// Traces:
//   - pipeline.run: Parent span for a run
//   - pipeline.stage: Child span for each invoked stage
//
// Events (via hooks):
//   - pipeline.stage_complete: Fired after each invoked stage, success or failure
//   - pipeline.run_complete: Fired once per run
type Pipeline struct {
	clock     clockz.Clock
	metrics   *metricz.Registry
	tracer    *tracez.Tracer
	hooks     *hookz.Hooks[PipelineEvent]
	closeErr  error
	stages    []Stage
	signature Signature
	identity  Identity
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewPipeline composes stages, in the given order, into a Pipeline.
//
// Construction fails with a *CompositionError, and no pipeline is returned, when:
//   - no stages are given (ErrEmptyPipeline)
//   - a stage is nil or declares an incomplete signature (ErrNotKernel)
//   - a stage's output type differs from the next stage's input type (ErrTypeMismatch)
//
// The pipeline takes ownership of its stages; Close closes those implementing io.Closer.
func NewPipeline(identity Identity, stages ...Stage) (*Pipeline, error) {
	signature, err := verify(identity, stages)
	if err != nil {
		return nil, err
	}

	metrics := metricz.New()
	metrics.Counter(PipelineRunsTotal)
	metrics.Counter(PipelineSuccessesTotal)
	metrics.Counter(PipelineFailuresTotal)
	metrics.Gauge(PipelineStagesCompleted)
	metrics.Gauge(PipelineDurationMs)
	metrics.Gauge(PipelineStagesTotal).Set(float64(len(stages)))

	return &Pipeline{
		identity:  identity,
		stages:    slices.Clone(stages),
		signature: signature,
		metrics:   metrics,
		tracer:    tracez.New(),
		hooks:     hookz.New[PipelineEvent](),
	}, nil
}

// verify checks the stage list and returns the composite signature.
func verify(identity Identity, stages []Stage) (Signature, error) {
	if len(stages) == 0 {
		return Signature{}, &CompositionError{Pipeline: identity, Index: -1, Err: ErrEmptyPipeline}
	}

	sigs := make([]Signature, len(stages))
	for i, stage := range stages {
		sig, err := Inspect(stage)
		if err != nil {
			return Signature{}, &CompositionError{Pipeline: identity, Index: i, Err: err}
		}
		sigs[i] = sig
	}

	for i := 1; i < len(sigs); i++ {
		if !sigs[i-1].Accepts(sigs[i]) {
			return Signature{}, &CompositionError{
				Pipeline: identity,
				Index:    i,
				Left:     sigs[i-1],
				Right:    sigs[i],
				Err:      ErrTypeMismatch,
			}
		}
	}

	return Signature{Input: sigs[0].Input, Output: sigs[len(sigs)-1].Output}, nil
}

// Run threads in through every stage in order. in must hold a pointer to a value of
// the pipeline's input type; the pipeline borrows it for the duration of the call and
// never copies it.
//
// The first failing stage ends the run: no later stage is invoked and nil is returned
// with an *Error. On success the last stage's output is returned, which may alias in.
// The context is checked before each stage.
func (p *Pipeline) Run(ctx context.Context, in any) (out any, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	clock := p.getClock(ctx)
	ctx = withClock(ctx, clock)
	start := clock.Now()
	stageCount := len(p.stages)

	p.metrics.Counter(PipelineRunsTotal).Inc()

	ctx, span := p.tracer.StartSpan(ctx, PipelineRunSpan)
	span.SetTag(PipelineTagStageCount, fmt.Sprintf("%d", stageCount))

	completed := 0
	defer func() {
		elapsed := clock.Since(start)
		p.metrics.Gauge(PipelineStagesCompleted).Set(float64(completed))
		p.metrics.Gauge(PipelineDurationMs).Set(float64(elapsed.Milliseconds()))

		if err == nil {
			span.SetTag(PipelineTagSuccess, "true")
			p.metrics.Counter(PipelineSuccessesTotal).Inc()
		} else {
			span.SetTag(PipelineTagSuccess, "false")
			span.SetTag(PipelineTagError, err.Error())
			p.metrics.Counter(PipelineFailuresTotal).Inc()
		}
		span.Finish()

		_ = p.hooks.Emit(ctx, PipelineEventRunComplete, PipelineEvent{ //nolint:errcheck
			Name:            p.identity.Name(),
			TotalStages:     stageCount,
			CompletedStages: completed,
			TotalDuration:   elapsed,
			Success:         err == nil,
			Error:           err,
			Timestamp:       clock.Now(),
		})
	}()

	if !p.accepts(in) {
		return nil, p.fail(inputTypeError(in, p.signature.Input), -1, start, clock)
	}

	current := in
	for i, stage := range p.stages {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, p.fail(ctxErr, i, start, clock)
		}

		stageCtx, stageSpan := p.tracer.StartSpan(ctx, PipelineStageSpan)
		stageSpan.SetTag(PipelineTagStageNumber, fmt.Sprintf("%d", i+1))
		stageSpan.SetTag(PipelineTagStageName, stage.Identity().Name())

		stageStart := clock.Now()
		next, stageErr := stage.Run(stageCtx, current)
		stageDuration := clock.Since(stageStart)
		if stageErr == nil && isNil(next) {
			stageErr = newError(stage.Identity(), ErrNoResult, stageStart, clock.Now())
		}
		stageSpan.Finish()

		_ = p.hooks.Emit(ctx, PipelineEventStageComplete, PipelineEvent{ //nolint:errcheck
			Name:        p.identity.Name(),
			StageName:   stage.Identity().Name(),
			StageNumber: i + 1,
			TotalStages: stageCount,
			Success:     stageErr == nil,
			Error:       stageErr,
			Duration:    stageDuration,
			Timestamp:   clock.Now(),
		})

		if stageErr != nil {
			return nil, p.fail(stageErr, i, start, clock)
		}

		completed++
		current = next
	}

	return current, nil
}

// fail wraps cause into an *Error rooted at this pipeline. Errors from nested
// pipelines keep their innermost stage index and gain this identity as a prefix.
func (p *Pipeline) fail(cause error, stage int, start time.Time, clock clockz.Clock) *Error {
	var runErr *Error
	if errors.As(cause, &runErr) {
		e := extend(runErr, cause, p.identity)
		if e.Stage < 0 {
			e.Stage = stage
		}
		return e
	}
	now := clock.Now()
	return &Error{
		Path:      []Identity{p.identity},
		Stage:     stage,
		Err:       cause,
		Timestamp: now,
		Duration:  now.Sub(start),
		Timeout:   errors.Is(cause, context.DeadlineExceeded),
		Canceled:  errors.Is(cause, context.Canceled),
	}
}

func (p *Pipeline) accepts(in any) bool {
	if isNil(in) {
		return false
	}
	return reflect.TypeOf(in) == reflect.PointerTo(p.signature.Input)
}

// Identity returns the pipeline's identity.
func (p *Pipeline) Identity() Identity {
	return p.identity
}

// Signature returns (first stage input, last stage output).
func (p *Pipeline) Signature() Signature {
	return p.signature
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Identity().Name()
	}
	return names
}

// Schema returns a Node describing the pipeline and its stages.
func (p *Pipeline) Schema() Node {
	node := newNode(p.identity, "pipeline", p.signature)
	node.Steps = make([]Node, len(p.stages))
	for i, stage := range p.stages {
		node.Steps[i] = schemaOf(stage)
	}
	return node
}

// WithClock sets the clock used for timestamps and durations. Processors and nested
// pipelines without a clock of their own use it too. Intended for tests.
func (p *Pipeline) WithClock(clock clockz.Clock) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = clock
	return p
}

// getClock prefers the pipeline's own clock over one inherited through ctx.
func (p *Pipeline) getClock(ctx context.Context) clockz.Clock {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.clock == nil {
		return clockFrom(ctx)
	}
	return p.clock
}

// Metrics returns the metrics registry for this pipeline.
func (p *Pipeline) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer for this pipeline.
func (p *Pipeline) Tracer() *tracez.Tracer {
	return p.tracer
}

// OnStageComplete registers a handler called after each invoked stage.
// Handlers run asynchronously.
func (p *Pipeline) OnStageComplete(handler func(context.Context, PipelineEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventStageComplete, handler)
	return err
}

// OnRunComplete registers a handler called once per run, whether it succeeded or not.
// Handlers run asynchronously.
func (p *Pipeline) OnRunComplete(handler func(context.Context, PipelineEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventRunComplete, handler)
	return err
}

// Close releases the stages the pipeline owns and shuts down observability.
// Close is idempotent - multiple calls return the same result.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		var errs []error
		for i := len(p.stages) - 1; i >= 0; i-- {
			if closer, ok := p.stages[i].(io.Closer); ok {
				if err := closer.Close(); err != nil {
					errs = append(errs, err)
				}
			}
		}
		p.tracer.Close()
		p.hooks.Close()
		p.closeErr = errors.Join(errs...)
	})
	return p.closeErr
}

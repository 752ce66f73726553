// Package testing provides test utilities for kernz-based code.
//
// MockKernel is an instrumented kernel: it records every call, returns configurable
// results, and implements both kernz.Kernel and kernz.Stage so it can be dropped into a
// pipeline wherever a real kernel would go.
//
// Example usage:
//
//	func TestMyPipeline(t *testing.T) {
//		first := ktest.NewPassthrough[int](t, "first")
//		last := ktest.NewMockKernel[int, string](t, "last").WithFunc(format)
//
//		pipeline, err := kernz.NewPipeline(PipelineID, first, last)
//		...
//		ktest.AssertProcessed(t, first, 1)
//	}
package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/zoobzio/kernz"
)

// ErrMock is returned by a MockKernel configured with WithFailure.
var ErrMock = errors.New("mock kernel failure")

// MockKernel is a configurable, call-counting Kernel[In, Out].
type MockKernel[In, Out any] struct { //nolint:govet // fieldalignment: test helper
	t         *testing.T
	identity  kernz.Identity
	fn        func(context.Context, *In) (*Out, error)
	lastInput *In
	panicMsg  string
	callCount int64
	closed    int64
	mu        sync.RWMutex
}

// NewMockKernel creates a mock kernel that fails with ErrMock until configured.
func NewMockKernel[In, Out any](t *testing.T, name string) *MockKernel[In, Out] {
	return &MockKernel[In, Out]{
		t:        t,
		identity: kernz.NewIdentity(name, "mock kernel"),
		fn: func(context.Context, *In) (*Out, error) {
			return nil, ErrMock
		},
	}
}

// NewPassthrough creates a mock kernel that returns its input reference unchanged.
func NewPassthrough[T any](t *testing.T, name string) *MockKernel[T, T] {
	return NewMockKernel[T, T](t, name).WithFunc(func(_ context.Context, in *T) (*T, error) {
		return in, nil
	})
}

// WithFunc sets the behavior of subsequent calls.
func (m *MockKernel[In, Out]) WithFunc(fn func(context.Context, *In) (*Out, error)) *MockKernel[In, Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	return m
}

// WithReturn makes subsequent calls return out and err.
func (m *MockKernel[In, Out]) WithReturn(out *Out, err error) *MockKernel[In, Out] {
	return m.WithFunc(func(context.Context, *In) (*Out, error) {
		return out, err
	})
}

// WithFailure makes subsequent calls fail with ErrMock.
func (m *MockKernel[In, Out]) WithFailure() *MockKernel[In, Out] {
	return m.WithReturn(nil, ErrMock)
}

// WithPanic makes subsequent calls panic with msg.
func (m *MockKernel[In, Out]) WithPanic(msg string) *MockKernel[In, Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// Identity implements kernz.Kernel.
func (m *MockKernel[In, Out]) Identity() kernz.Identity {
	return m.identity
}

// Signature implements kernz.Stage.
func (*MockKernel[In, Out]) Signature() kernz.Signature {
	return kernz.SignatureOf[In, Out]()
}

// Process implements kernz.Kernel. It records the call and applies the configured behavior.
func (m *MockKernel[In, Out]) Process(ctx context.Context, in *In) (*Out, error) {
	atomic.AddInt64(&m.callCount, 1)

	m.mu.Lock()
	m.lastInput = in
	fn := m.fn
	panicMsg := m.panicMsg
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	return fn(ctx, in)
}

// Run implements kernz.Stage by delegating to a bound processor, which supplies the
// standard failure handling.
func (m *MockKernel[In, Out]) Run(ctx context.Context, in any) (any, error) {
	return kernz.Bind[In, Out](m).Run(ctx, in)
}

// Close records that the owning pipeline released this kernel.
func (m *MockKernel[In, Out]) Close() error {
	atomic.AddInt64(&m.closed, 1)
	return nil
}

// CallCount returns the number of times Process has been called.
func (m *MockKernel[In, Out]) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// Closed reports whether Close has been called.
func (m *MockKernel[In, Out]) Closed() bool {
	return atomic.LoadInt64(&m.closed) > 0
}

// LastInput returns the input reference from the most recent call.
func (m *MockKernel[In, Out]) LastInput() *In {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInput
}

// Reset clears call tracking.
func (m *MockKernel[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreInt64(&m.callCount, 0)
	m.lastInput = nil
}

// String implements fmt.Stringer.
func (m *MockKernel[In, Out]) String() string {
	return fmt.Sprintf("mock %s [%s]", m.identity.Name(), m.Signature())
}

// Assertion Helpers

// AssertProcessed verifies that a mock kernel was called exactly n times.
func AssertProcessed[In, Out any](t *testing.T, mock *MockKernel[In, Out], expectedCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls != expectedCalls {
		t.Errorf("expected mock kernel %s to be called %d times, but was called %d times",
			mock.identity.Name(), expectedCalls, actualCalls)
	}
}

// AssertNotProcessed verifies that a mock kernel was never called.
func AssertNotProcessed[In, Out any](t *testing.T, mock *MockKernel[In, Out]) {
	t.Helper()
	AssertProcessed(t, mock, 0)
}

// AssertFailed verifies that err is a run failure wrapping target.
func AssertFailed(t *testing.T, err, target error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected run to fail, got nil error")
	}
	if !errors.Is(err, kernz.ErrFailed) {
		t.Errorf("expected error to match kernz.ErrFailed, got %v", err)
	}
	if target != nil && !errors.Is(err, target) {
		t.Errorf("expected error to match %v, got %v", target, err)
	}
}

package kernz

import (
	"context"
	"fmt"
	"reflect"
)

// Kernel is the typed capability every processing unit satisfies.
//
// Process consumes a mutable reference to its input and returns a reference to its
// output. The output may be the input itself, modified in place, or a newly produced
// value. Failure is signaled by a non-nil error or by a nil output; kernels never
// panic to report failure.
type Kernel[In, Out any] interface {
	Process(ctx context.Context, in *In) (*Out, error)
	Identity() Identity
}

// Stage is the type-erased form of a kernel that a Pipeline composes.
//
// Run receives an *In boxed in an interface and returns an *Out boxed the same way.
// Signature reports In and Out so that composition can be checked before any Run call.
type Stage interface {
	Identity() Identity
	Signature() Signature
	Run(ctx context.Context, in any) (any, error)
}

// Signature is the declared (input, output) type pair of a stage.
type Signature struct {
	Input  reflect.Type
	Output reflect.Type
}

// SignatureOf returns the signature of a Kernel[In, Out].
func SignatureOf[In, Out any]() Signature {
	return Signature{
		Input:  reflect.TypeFor[In](),
		Output: reflect.TypeFor[Out](),
	}
}

// Complete reports whether both types are declared.
func (s Signature) Complete() bool {
	return s.Input != nil && s.Output != nil
}

// Accepts reports whether a stage with signature next may follow a stage with signature s.
func (s Signature) Accepts(next Signature) bool {
	return s.Output == next.Input
}

// String renders the signature as "In -> Out".
func (s Signature) String() string {
	return fmt.Sprintf("%s -> %s", typeName(s.Input), typeName(s.Output))
}

// Inspect reports whether v satisfies the kernel capability and, if so, its declared types.
// It returns ErrNotKernel for values that do not implement Stage or whose signature is
// incomplete. Inspect never affects how a kernel runs.
func Inspect(v any) (Signature, error) {
	stage, ok := v.(Stage)
	if !ok || isNil(stage) {
		return Signature{}, fmt.Errorf("%w: %T", ErrNotKernel, v)
	}
	sig := stage.Signature()
	if !sig.Complete() {
		return Signature{}, fmt.Errorf("%w: %T declares an incomplete signature", ErrNotKernel, v)
	}
	return sig, nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// isNil catches typed nil pointers stored in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

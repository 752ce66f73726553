package kernz

import (
	"context"
	"errors"
	"testing"
)

func TestBuild(t *testing.T) {
	t.Run("Typed Process", func(t *testing.T) {
		decrement, nonNegative, sum := vectorStages(2)
		typed, err := Build[[]int, int](NewIdentity("vector", ""),
			Bind[[]int, []int](decrement),
			Bind[[]int, []int](nonNegative),
			Bind[[]int, int](sum),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer typed.Close()

		in := []int{2, 3, 4}
		out, err := typed.Process(context.Background(), &in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *out != 3 {
			t.Errorf("expected 3, got %d", *out)
		}
		if typed.Pipeline().Len() != 3 {
			t.Errorf("expected 3 stages, got %d", typed.Pipeline().Len())
		}
		if typed.Identity().Name() != "vector" {
			t.Errorf("unexpected identity %v", typed.Identity())
		}
	})

	t.Run("Typed Failure", func(t *testing.T) {
		decrement, nonNegative, sum := vectorStages(2)
		typed, err := Build[[]int, int](NewIdentity("vector", ""),
			Bind[[]int, []int](decrement),
			Bind[[]int, []int](nonNegative),
			Bind[[]int, int](sum),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer typed.Close()

		in := []int{2, 1, 4}
		out, err := typed.Process(context.Background(), &in)
		if out != nil || !errors.Is(err, ErrFailed) {
			t.Errorf("expected failure, got %v, %v", out, err)
		}
		if sum.Calls() != 0 {
			t.Error("expected sum never to run")
		}
	})

	t.Run("Requested Signature Differs", func(t *testing.T) {
		typed, err := Build[int, string](NewIdentity("format", ""), double, stringify, length)
		if typed != nil {
			t.Error("expected no typed pipeline")
		}
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("expected ErrTypeMismatch, got %v", err)
		}
	})

	t.Run("Composition Error Passes Through", func(t *testing.T) {
		_, err := Build[int, int](NewIdentity("empty", ""))
		if !errors.Is(err, ErrEmptyPipeline) {
			t.Errorf("expected ErrEmptyPipeline, got %v", err)
		}
	})
}

func TestAs(t *testing.T) {
	p, err := NewPipeline(NewIdentity("format", ""), double, stringify)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()

	typed, err := As[int, string](p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typed.Pipeline() != p {
		t.Error("expected As to wrap the same pipeline")
	}

	n := 21
	out, err := typed.Process(context.Background(), &n)
	if err != nil || *out != "42" {
		t.Errorf("expected 42, got %v, %v", out, err)
	}

	if _, err := As[string, int](p); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := As[int, string](nil); !errors.Is(err, ErrNotKernel) {
		t.Errorf("expected ErrNotKernel, got %v", err)
	}
}

func TestTypedAsStage(t *testing.T) {
	inner, err := Build[int, string](NewIdentity("inner", ""), double, stringify)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, err := Build[int, int](NewIdentity("outer", ""), inner, length)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer outer.Close()

	n := 500
	out, err := outer.Process(context.Background(), &n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *out != 4 {
		t.Errorf("expected len(\"1000\") = 4, got %d", *out)
	}
	if outer.Schema().Steps[0].Type != "pipeline" {
		t.Errorf("expected nested pipeline step, got %q", outer.Schema().Steps[0].Type)
	}
}

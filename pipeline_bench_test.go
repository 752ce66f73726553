package kernz_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/zoobzio/kernz"
	"github.com/zoobzio/kernz/internal/vector"
)

var increment = kernz.Mutate(kernz.NewIdentity("increment", ""), func(_ context.Context, n *int) {
	*n++
})

// BenchmarkPipeline_SingleStage measures a pipeline with one stage.
func BenchmarkPipeline_SingleStage(b *testing.B) {
	ctx := context.Background()
	pipeline, err := kernz.NewPipeline(kernz.NewIdentity("single", ""), increment)
	if err != nil {
		b.Fatal(err)
	}
	defer pipeline.Close()

	n := 0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = pipeline.Run(ctx, &n) //nolint:errcheck // benchmark ignores errors
	}
}

// BenchmarkPipeline_Length measures how run cost grows with the number of stages.
func BenchmarkPipeline_Length(b *testing.B) {
	ctx := context.Background()

	for _, length := range []int{1, 5, 10, 50} {
		b.Run(fmt.Sprintf("Stages_%d", length), func(b *testing.B) {
			stages := make([]kernz.Stage, length)
			for i := range stages {
				stages[i] = increment
			}
			pipeline, err := kernz.NewPipeline(kernz.NewIdentity("chain", ""), stages...)
			if err != nil {
				b.Fatal(err)
			}
			defer pipeline.Close()

			n := 0
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = pipeline.Run(ctx, &n) //nolint:errcheck // benchmark ignores errors
			}
		})
	}
}

// BenchmarkPipeline_Vector compares the typed and untyped entry points.
func BenchmarkPipeline_Vector(b *testing.B) {
	ctx := context.Background()
	sumPositive, err := vector.Pipeline(0)
	if err != nil {
		b.Fatal(err)
	}
	defer sumPositive.Close()
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}

	b.Run("Typed", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = sumPositive.Process(ctx, &in) //nolint:errcheck // benchmark ignores errors
		}
	})

	b.Run("Untyped", func(b *testing.B) {
		pipeline := sumPositive.Pipeline()
		for i := 0; i < b.N; i++ {
			_, _ = pipeline.Run(ctx, &in) //nolint:errcheck // benchmark ignores errors
		}
	})
}

// BenchmarkNewPipeline measures construction, including type verification.
func BenchmarkNewPipeline(b *testing.B) {
	stages := []kernz.Stage{
		kernz.Bind[[]int, []int](&vector.Decrement{By: 1}),
		kernz.Bind[[]int, []int](vector.NonNegative{}),
		kernz.Bind[[]int, int](&vector.Sum{}),
	}
	for i := 0; i < b.N; i++ {
		pipeline, err := kernz.NewPipeline(vector.PipelineID, stages...)
		if err != nil {
			b.Fatal(err)
		}
		pipeline.Close()
	}
}

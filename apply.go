package kernz

import (
	"context"
)

// Apply creates a Processor from a complete kernel function. Apply is the workhorse
// adapter: fn decides whether to mutate the input and return it, return a new value,
// or fail.
//
// Returning a non-nil error or a nil output fails the run. Errors are wrapped in
// *Error with this processor's identity so the failing position is visible.
//
// Example:
//
//	parse := kernz.Apply(ParseID, func(_ context.Context, raw *string) (*Config, error) {
//	    var cfg Config
//	    if err := json.Unmarshal([]byte(*raw), &cfg); err != nil {
//	        return nil, fmt.Errorf("invalid config: %w", err)
//	    }
//	    return &cfg, nil
//	})
func Apply[In, Out any](identity Identity, fn func(context.Context, *In) (*Out, error)) Processor[In, Out] {
	return Processor[In, Out]{
		identity: identity,
		kind:     "apply",
		fn:       fn,
	}
}

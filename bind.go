package kernz

// Bind adapts any Kernel implementation into a Processor so it can be used as a
// pipeline stage. The kernel's own identity is kept.
//
// Example:
//
//	type Sum struct{ total int }
//
//	func (s *Sum) Identity() kernz.Identity { return SumID }
//	func (s *Sum) Process(_ context.Context, xs *[]int) (*int, error) {
//	    s.total = 0
//	    for _, x := range *xs {
//	        s.total += x
//	    }
//	    return &s.total, nil
//	}
//
//	stage := kernz.Bind[[]int, int](&Sum{})
func Bind[In, Out any](kernel Kernel[In, Out]) Processor[In, Out] {
	if kernel == nil || isNil(kernel) {
		return Processor[In, Out]{}
	}
	if p, ok := kernel.(Processor[In, Out]); ok {
		return p
	}
	return Processor[In, Out]{
		identity: kernel.Identity(),
		kind:     "kernel",
		fn:       kernel.Process,
	}
}

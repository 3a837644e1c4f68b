package solver

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// Flaky wraps a Solver and fails a fraction of calls with ErrCrashed.
// It exists to exercise crash accounting end to end.
type Flaky struct {
	next Solver
	rate float64
	roll func() float64
}

func NewFlaky(next Solver, rate float64) *Flaky {
	return &Flaky{next: next, rate: rate, roll: rand.Float64}
}

func (f *Flaky) Solve(ctx context.Context, input []byte) ([]byte, error) {
	if f.rate > 0 && f.roll() < f.rate {
		return nil, fmt.Errorf("%w: injected failure (rate %.2f)", ErrCrashed, f.rate)
	}
	return f.next.Solve(ctx, input)
}

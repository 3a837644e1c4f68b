// Package solver defines the opaque compute contract behind the public and
// protected routes.
package solver

import (
	"context"
	"errors"
)

var (
	// ErrInvalidInput means the caller sent something the solver cannot
	// parse. It maps to 400.
	ErrInvalidInput = errors.New("invalid solver input")

	// ErrCrashed means the solver failed on input it accepted. It maps to
	// 500 and is recorded as a crash.
	ErrCrashed = errors.New("solver crashed")
)

// Solver turns a JSON input document into a response body. Callers pass
// input and result through unmodified.
type Solver interface {
	Solve(ctx context.Context, input []byte) ([]byte, error)
}

// Func adapts a plain function to Solver.
type Func func(ctx context.Context, input []byte) ([]byte, error)

func (f Func) Solve(ctx context.Context, input []byte) ([]byte, error) {
	return f(ctx, input)
}

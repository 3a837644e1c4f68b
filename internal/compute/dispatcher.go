// Package compute exposes the solver over HTTP: a public route fed from the
// query string and a protected route fed from the request body.
package compute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josephfleury/technical-challenge/internal/logger"
	"github.com/josephfleury/technical-challenge/internal/solver"
)

const (
	RoutePublic    = "public"
	RouteProtected = "protected"

	maxBodyBytes = 1 << 20

	loginPrompt = `<a class="button" href="/login">Login</a>`
)

// DispatchCounter receives one call per solver invocation.
type DispatchCounter interface {
	SolverDispatch(route, result string)
}

type Dispatcher struct {
	solver  solver.Solver
	counter DispatchCounter
}

// NewDispatcher wires s behind both routes. counter may be nil.
func NewDispatcher(s solver.Solver, counter DispatchCounter) *Dispatcher {
	return &Dispatcher{solver: s, counter: counter}
}

// Public solves the JSON document in the input query parameter.
func (d *Dispatcher) Public(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		c.String(http.StatusBadRequest, "missing input parameter")
		return
	}
	d.dispatch(c, RoutePublic, []byte(input))
}

// Protected solves the request body. It must sit behind RequireAuth.
func (d *Dispatcher) Protected(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		c.String(http.StatusBadRequest, "unreadable request body")
		return
	}
	d.dispatch(c, RouteProtected, body)
}

// LoginPrompt is served instead of Protected to anonymous callers.
func (d *Dispatcher) LoginPrompt() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, loginPrompt)
	})
}

func (d *Dispatcher) dispatch(c *gin.Context, route string, input []byte) {
	out, err := d.solver.Solve(c.Request.Context(), input)

	switch {
	case err == nil:
		d.count(route, "ok")
		c.Data(http.StatusOK, "text/plain; charset=utf-8", out)

	case errors.Is(err, solver.ErrInvalidInput):
		d.count(route, "invalid")
		c.String(http.StatusBadRequest, err.Error())

	case errors.Is(err, solver.ErrCrashed):
		d.count(route, "crashed")
		_ = c.Error(fmt.Errorf("%s solver: %w", route, err))
		logger.Error("solver crashed", map[string]any{
			"route": route,
			"error": err.Error(),
		})
		c.String(http.StatusInternalServerError, "solver crashed")

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		d.count(route, "canceled")
		c.Status(http.StatusServiceUnavailable)

	default:
		d.count(route, "error")
		_ = c.Error(err)
		logger.Error("solver failed", map[string]any{
			"route": route,
			"error": err.Error(),
		})
		c.String(http.StatusInternalServerError, "internal server error")
	}
}

func (d *Dispatcher) count(route, result string) {
	if d.counter != nil {
		d.counter.SolverDispatch(route, result)
	}
}

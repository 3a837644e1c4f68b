// Package outcome records how each handled request ended. The process exit
// status is derived from the ledger instead of a shared crash flag.
package outcome

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/josephfleury/technical-challenge/internal/solver"
)

type Kind int

const (
	Succeeded Kind = iota
	Rejected
	Failed
	Crashed
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	case Crashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Classify maps a finished request to its outcome. A panic or a solver
// crash anywhere in errs is a crash regardless of status.
func Classify(status int, errs []error, panicked bool) Kind {
	if panicked {
		return Crashed
	}
	for _, err := range errs {
		if errors.Is(err, solver.ErrCrashed) {
			return Crashed
		}
	}

	switch {
	case status >= http.StatusInternalServerError:
		return Failed
	case status >= http.StatusBadRequest:
		return Rejected
	default:
		return Succeeded
	}
}

type Summary struct {
	Succeeded int64
	Rejected  int64
	Failed    int64
	Crashed   int64
}

func (s Summary) Total() int64 {
	return s.Succeeded + s.Rejected + s.Failed + s.Crashed
}

// ExitCode is 1 when at least one request crashed, 0 otherwise.
func (s Summary) ExitCode() int {
	if s.Crashed > 0 {
		return 1
	}
	return 0
}

// Ledger counts outcomes. It is safe for concurrent use.
type Ledger struct {
	counts [Crashed + 1]atomic.Int64

	crashOnce sync.Once
	crashed   chan struct{}
}

func NewLedger() *Ledger {
	return &Ledger{crashed: make(chan struct{})}
}

func (l *Ledger) Record(k Kind) {
	if k < Succeeded || k > Crashed {
		return
	}
	l.counts[k].Add(1)
	if k == Crashed {
		l.crashOnce.Do(func() { close(l.crashed) })
	}
}

// Crashed is closed when the first crash is recorded.
func (l *Ledger) Crashed() <-chan struct{} {
	return l.crashed
}

func (l *Ledger) Snapshot() Summary {
	return Summary{
		Succeeded: l.counts[Succeeded].Load(),
		Rejected:  l.counts[Rejected].Load(),
		Failed:    l.counts[Failed].Load(),
		Crashed:   l.counts[Crashed].Load(),
	}
}

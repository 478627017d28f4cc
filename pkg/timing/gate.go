package timing

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-editor/internal/logging"
	"github.com/goliatone/go-editor/pkg/interfaces"
)

// Gate is a one-shot completion signal with any number of waiters. Closing
// the done channel releases every current waiter and every later Wait call.
type Gate struct {
	stage       Stage
	once        sync.Once
	done        chan struct{}
	completions atomic.Int32
	logger      interfaces.Logger
}

// NewGate returns an unresolved gate for stage.
func NewGate(stage Stage, logger interfaces.Logger) *Gate {
	return &Gate{
		stage:  stage,
		done:   make(chan struct{}),
		logger: logging.Or(logger),
	}
}

func resolvedGate(stage Stage, logger interfaces.Logger) *Gate {
	g := NewGate(stage, logger)
	g.once.Do(func() { close(g.done) })
	g.completions.Store(1)
	return g
}

// Stage returns the stage the gate signals.
func (g *Gate) Stage() Stage { return g.stage }

// Complete resolves the gate. It returns false, and logs a warning, when the
// gate was already resolved; the gate stays resolved either way.
func (g *Gate) Complete() bool {
	first := false
	g.once.Do(func() {
		close(g.done)
		first = true
	})
	n := g.completions.Add(1)
	if !first {
		g.logger.Warn("timing.gate.double_completion", "stage", g.stage.String(), "completions", n)
		return false
	}
	g.logger.Debug("timing.gate.completed", "stage", g.stage.String())
	return true
}

// Wait blocks until the gate resolves or ctx ends. A resolved gate wins over
// a cancelled context.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	default:
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done exposes the channel closed on resolution, for use in select.
func (g *Gate) Done() <-chan struct{} { return g.done }

// Resolved reports whether Complete has been called.
func (g *Gate) Resolved() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// Completions counts every Complete call, including redundant ones.
func (g *Gate) Completions() int {
	return int(g.completions.Load())
}

package timing

import (
	"context"

	"github.com/goliatone/go-editor/pkg/interfaces"
)

// Gates holds one gate per stage for a single editor session.
type Gates struct {
	gates [stageCount]*Gate
}

// NewGates creates the gate set. StageNone starts resolved.
func NewGates(logger interfaces.Logger) *Gates {
	gs := &Gates{}
	gs.gates[StageNone] = resolvedGate(StageNone, logger)
	for _, s := range Stages() {
		gs.gates[s] = NewGate(s, logger)
	}
	return gs
}

// Gate returns the gate for s, or nil for an invalid stage.
func (gs *Gates) Gate(s Stage) *Gate {
	if !s.Valid() {
		return nil
	}
	return gs.gates[s]
}

// Wait blocks until s is reached or ctx ends.
func (gs *Gates) Wait(ctx context.Context, s Stage) error {
	g := gs.Gate(s)
	if g == nil {
		return ErrUnknownStage
	}
	return g.Wait(ctx)
}

// Complete resolves s. See Gate.Complete.
func (gs *Gates) Complete(s Stage) bool {
	g := gs.Gate(s)
	if g == nil {
		return false
	}
	return g.Complete()
}

// Reached lists the resolved stages in bootstrap order, excluding StageNone.
func (gs *Gates) Reached() []Stage {
	out := []Stage{}
	for _, s := range Stages() {
		if gs.gates[s].Resolved() {
			out = append(out, s)
		}
	}
	return out
}

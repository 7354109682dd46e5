package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// SubmitActionCommand queues an external action for the next tick
type SubmitActionCommand struct {
	Party        string
	EntityID     string
	Kind         string
	Target       string
	Quantity     float64
	Price        float64
	Counterparty string
}

// SubmitActionResponse reports the queue length after submission
type SubmitActionResponse struct {
	Queued int
}

// SubmitActionHandler handles SubmitActionCommand. Only the shape of the
// action is checked here; the engine validates it against state on the next tick.
type SubmitActionHandler struct {
	runner *appSim.Runner
}

// NewSubmitActionHandler creates a new SubmitActionHandler
func NewSubmitActionHandler(runner *appSim.Runner) *SubmitActionHandler {
	return &SubmitActionHandler{runner: runner}
}

// Handle validates and queues the action
func (h *SubmitActionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SubmitActionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SubmitActionCommand")
	}

	kind, err := simulation.ParseActionKind(cmd.Kind)
	if err != nil {
		return nil, err
	}
	if cmd.EntityID == "" {
		return nil, fmt.Errorf("entity ID is required")
	}
	if cmd.Target == "" {
		return nil, fmt.Errorf("target is required for %s", kind)
	}
	if cmd.Quantity < 0 || cmd.Price < 0 {
		return nil, fmt.Errorf("quantity and price cannot be negative")
	}

	queued := h.runner.Submit(simulation.Action{
		Party:        cmd.Party,
		EntityID:     cmd.EntityID,
		Kind:         kind,
		Target:       cmd.Target,
		Quantity:     cmd.Quantity,
		Price:        cmd.Price,
		Counterparty: cmd.Counterparty,
	})
	return &SubmitActionResponse{Queued: queued}, nil
}

package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// GetEntityActivityQuery asks for everything in flight for one entity
type GetEntityActivityQuery struct {
	EntityID string
}

// GetEntityActivityResponse wraps the activity at the current tick
type GetEntityActivityResponse struct {
	Tick     int
	Activity simulation.Activity
}

// GetEntityActivityHandler handles GetEntityActivityQuery
type GetEntityActivityHandler struct {
	runner *appSim.Runner
}

// NewGetEntityActivityHandler creates a new GetEntityActivityHandler
func NewGetEntityActivityHandler(runner *appSim.Runner) *GetEntityActivityHandler {
	return &GetEntityActivityHandler{runner: runner}
}

// Handle collects lines, orders, deliveries and contracts of the entity
func (h *GetEntityActivityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetEntityActivityQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetEntityActivityQuery")
	}

	state := h.runner.State()
	activity, err := h.runner.Engine().EntityActivity(state, query.EntityID)
	if err != nil {
		return nil, err
	}
	return &GetEntityActivityResponse{Tick: state.Tick, Activity: activity}, nil
}

package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/demand"
)

// GetDemandPhasesQuery asks for the demand phase of every location
type GetDemandPhasesQuery struct{}

// GetDemandPhasesResponse lists phases in location order
type GetDemandPhasesResponse struct {
	Tick   int
	Phases []demand.PhaseInfo
}

// GetDemandPhasesHandler handles GetDemandPhasesQuery
type GetDemandPhasesHandler struct {
	runner *appSim.Runner
}

// NewGetDemandPhasesHandler creates a new GetDemandPhasesHandler
func NewGetDemandPhasesHandler(runner *appSim.Runner) *GetDemandPhasesHandler {
	return &GetDemandPhasesHandler{runner: runner}
}

// Handle reports the phases
func (h *GetDemandPhasesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetDemandPhasesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetDemandPhasesQuery")
	}
	state := h.runner.State()
	return &GetDemandPhasesResponse{
		Tick:   state.Tick,
		Phases: h.runner.Engine().DemandPhases(state),
	}, nil
}

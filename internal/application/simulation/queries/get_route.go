package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/routing"
)

// GetRouteQuery asks for the transport route between two places.
// From and To may name locations or entities; entities resolve to their location.
type GetRouteQuery struct {
	From string
	To   string
}

// GetRouteResponse is the resolved route
type GetRouteResponse struct {
	Route routing.Route
}

// GetRouteHandler handles GetRouteQuery
type GetRouteHandler struct {
	runner *appSim.Runner
}

// NewGetRouteHandler creates a new GetRouteHandler
func NewGetRouteHandler(runner *appSim.Runner) *GetRouteHandler {
	return &GetRouteHandler{runner: runner}
}

// Handle resolves the route
func (h *GetRouteHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetRouteQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRouteQuery")
	}

	state := h.runner.State()
	resolve := func(id string) string {
		if e, ok := state.Entities[id]; ok {
			return e.LocationID
		}
		return id
	}

	route, err := h.runner.Engine().Route(resolve(query.From), resolve(query.To))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve route: %w", err)
	}
	return &GetRouteResponse{Route: route}, nil
}

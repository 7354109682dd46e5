package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
)

// DefaultOrderBookHorizon is used when a query names no horizon
const DefaultOrderBookHorizon = 20

// GetOrderBookQuery projects scheduled contract deliveries.
// An empty EntityID covers every entity.
type GetOrderBookQuery struct {
	EntityID string
	Horizon  int
}

// GetOrderBookResponse lists deliveries ordered by tick
type GetOrderBookResponse struct {
	Tick       int
	Horizon    int
	Deliveries []contract.ScheduledDelivery
}

// GetOrderBookHandler handles GetOrderBookQuery
type GetOrderBookHandler struct {
	runner *appSim.Runner
}

// NewGetOrderBookHandler creates a new GetOrderBookHandler
func NewGetOrderBookHandler(runner *appSim.Runner) *GetOrderBookHandler {
	return &GetOrderBookHandler{runner: runner}
}

// Handle builds the projection
func (h *GetOrderBookHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetOrderBookQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetOrderBookQuery")
	}

	horizon := query.Horizon
	if horizon <= 0 {
		horizon = DefaultOrderBookHorizon
	}

	state := h.runner.State()
	if query.EntityID != "" {
		if _, ok := state.Entities[query.EntityID]; !ok {
			return nil, fmt.Errorf("entity not found: %s", query.EntityID)
		}
	}

	return &GetOrderBookResponse{
		Tick:       state.Tick,
		Horizon:    horizon,
		Deliveries: h.runner.Engine().OrderBook(state, query.EntityID, horizon),
	}, nil
}

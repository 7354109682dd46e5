package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
)

// ListEntitiesQuery asks for a balance sheet of every entity
type ListEntitiesQuery struct{}

// EntityDTO is one row of the balance sheet
type EntityDTO struct {
	ID         string
	Type       string
	Location   string
	Controller string
	Money      float64
	Inventory  map[string]float64
	Committed  map[string]float64
	Lines      int
}

// ListEntitiesResponse lists entities by id
type ListEntitiesResponse struct {
	Tick     int
	Entities []EntityDTO
}

// ListEntitiesHandler handles ListEntitiesQuery
type ListEntitiesHandler struct {
	runner *appSim.Runner
}

// NewListEntitiesHandler creates a new ListEntitiesHandler
func NewListEntitiesHandler(runner *appSim.Runner) *ListEntitiesHandler {
	return &ListEntitiesHandler{runner: runner}
}

// Handle builds the balance sheet
func (h *ListEntitiesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListEntitiesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListEntitiesQuery")
	}

	state := h.runner.State()
	resp := &ListEntitiesResponse{Tick: state.Tick}
	for _, id := range state.EntityIDs() {
		e := state.Entities[id]
		resp.Entities = append(resp.Entities, EntityDTO{
			ID:         e.ID,
			Type:       e.TypeID,
			Location:   e.LocationID,
			Controller: e.Controller,
			Money:      e.Money,
			Inventory:  copyStock(e.Inventory),
			Committed:  copyStock(e.Committed),
			Lines:      len(state.LinesOf(id)),
		})
	}
	return resp, nil
}

func copyStock(s map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

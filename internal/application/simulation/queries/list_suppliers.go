package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// ListSuppliersQuery lists the sellers a buyer may order a resource from
type ListSuppliersQuery struct {
	BuyerID  string
	Resource string
}

// ListSuppliersResponse lists suppliers best first
type ListSuppliersResponse struct {
	Suppliers []simulation.SupplierInfo
}

// ListSuppliersHandler handles ListSuppliersQuery
type ListSuppliersHandler struct {
	runner *appSim.Runner
}

// NewListSuppliersHandler creates a new ListSuppliersHandler
func NewListSuppliersHandler(runner *appSim.Runner) *ListSuppliersHandler {
	return &ListSuppliersHandler{runner: runner}
}

// Handle lists suppliers with live available stock
func (h *ListSuppliersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListSuppliersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListSuppliersQuery")
	}
	if _, ok := h.runner.Config().Resource(query.Resource); !ok {
		return nil, fmt.Errorf("unknown resource: %s", query.Resource)
	}

	suppliers, err := h.runner.Engine().Suppliers(h.runner.State(), query.BuyerID, query.Resource)
	if err != nil {
		return nil, err
	}
	return &ListSuppliersResponse{Suppliers: suppliers}, nil
}

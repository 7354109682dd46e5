package simulation

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/order"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
)

// stateView exposes live tick state to the decision modules
type stateView struct {
	engine *Engine
	state  *State
}

func (e *Engine) view(s *State) *stateView {
	return &stateView{engine: e, state: s}
}

func (v *stateView) Tick() int {
	return v.state.Tick
}

func (v *stateView) Config() *catalog.Config {
	return v.engine.cfg
}

func (v *stateView) Entity(id string) (*entity.Entity, bool) {
	e, ok := v.state.Entities[id]
	return e, ok
}

func (v *stateView) LinesFor(entityID string) []production.Line {
	var out []production.Line
	for _, l := range v.state.LinesOf(entityID) {
		out = append(out, *l)
	}
	return out
}

func (v *stateView) Inbound(buyerID, resource string) float64 {
	return inbound(v.state, buyerID, resource)
}

func (v *stateView) TransportTime(fromEntity, toEntity string) (int, bool) {
	return v.engine.transportBetween(v.state, fromEntity, toEntity)
}

func (v *stateView) ActiveContractFor(buyerID, resource string) bool {
	for _, c := range v.state.Contracts {
		if c.Status() == contract.StatusActive && c.BuyerID() == buyerID && c.Resource() == resource {
			return true
		}
	}
	return false
}

func (v *stateView) OpenContractFor(buyerID, resource string) bool {
	for _, c := range v.state.Contracts {
		if c.IsOpen() && c.BuyerID() == buyerID && c.Resource() == resource {
			return true
		}
	}
	return false
}

func (v *stateView) ProposalsFor(sellerID string) []*contract.Contract {
	var out []*contract.Contract
	for _, c := range v.state.Contracts {
		if c.Status() == contract.StatusProposed && c.SellerID() == sellerID {
			out = append(out, c)
		}
	}
	return out
}

// inbound sums open order quantities headed to the buyer
func inbound(s *State, buyerID, resource string) float64 {
	total := 0.0
	for _, o := range s.Orders {
		if o.BuyerID != buyerID || o.Resource != resource {
			continue
		}
		switch o.Status {
		case order.StatusPending:
			total += o.Requested
		case order.StatusAccepted, order.StatusInTransit:
			total += o.Fulfilled
		}
	}
	return total
}

// transportBetween is the transport time between two entities' locations
func (e *Engine) transportBetween(s *State, fromEntity, toEntity string) (int, bool) {
	from, ok := s.Entities[fromEntity]
	if !ok {
		return 0, false
	}
	to, ok := s.Entities[toEntity]
	if !ok {
		return 0, false
	}
	ticks, err := e.router.TransportTime(from.LocationID, to.LocationID)
	if err != nil {
		return 0, false
	}
	return ticks, true
}

package simulation

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/demand"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/order"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
	"github.com/andrescamacho/supplychain-go/internal/domain/routing"
)

// ErrEntityNotFound is returned by queries naming an unknown entity
var ErrEntityNotFound = errors.New("entity not found")

// Route resolves the transport route between two locations
func (e *Engine) Route(from, to string) (routing.Route, error) {
	return e.router.Route(from, to)
}

// DemandPhases reports the current demand phase of every location
func (e *Engine) DemandPhases(s *State) []demand.PhaseInfo {
	out := make([]demand.PhaseInfo, 0, len(e.cfg.Locations))
	for _, loc := range e.cfg.Locations {
		out = append(out, demand.Phase(loc, s.Demand[loc.ID]))
	}
	return out
}

// Activity is everything in flight that involves one entity
type Activity struct {
	Entity     *entity.Entity
	Lines      []production.Line
	Orders     []*order.Order
	Deliveries []*order.Delivery
	Contracts  []*contract.Contract
}

// EntityActivity filters lines, orders, deliveries and contracts by entity
func (e *Engine) EntityActivity(s *State, entityID string) (Activity, error) {
	ent, ok := s.Entities[entityID]
	if !ok {
		return Activity{}, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}
	a := Activity{Entity: ent.Clone()}
	for _, l := range s.LinesOf(entityID) {
		a.Lines = append(a.Lines, *l)
	}
	for _, o := range s.Orders {
		if o.Involves(entityID) {
			a.Orders = append(a.Orders, o.Clone())
		}
	}
	for _, d := range s.Deliveries {
		if d.FromEntity == entityID || d.ToEntity == entityID {
			a.Deliveries = append(a.Deliveries, d.Clone())
		}
	}
	for _, c := range s.Contracts {
		if c.Involves(entityID) {
			a.Contracts = append(a.Contracts, c.Clone())
		}
	}
	return a, nil
}

// SupplierInfo is one eligible seller with live stock and distance
type SupplierInfo struct {
	EntityID       string
	LocationID     string
	Available      float64
	TransportTicks int
}

// Suppliers lists the buyer's eligible sellers of a resource, best first:
// sellers with stock, then shortest transport, then id
func (e *Engine) Suppliers(s *State, buyerID, resource string) ([]SupplierInfo, error) {
	buyer, ok := s.Entities[buyerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, buyerID)
	}
	var out []SupplierInfo
	for _, id := range buyer.SuppliersFor(resource) {
		seller, ok := s.Entities[id]
		if !ok {
			continue
		}
		ticks, ok := e.transportBetween(s, id, buyerID)
		if !ok {
			continue
		}
		out = append(out, SupplierInfo{
			EntityID:       id,
			LocationID:     seller.LocationID,
			Available:      seller.Available(resource),
			TransportTicks: ticks,
		})
	}
	slices.SortFunc(out, func(a, b SupplierInfo) int {
		if (a.Available > 0) != (b.Available > 0) {
			if a.Available > 0 {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.TransportTicks, b.TransportTicks); c != 0 {
			return c
		}
		return cmp.Compare(a.EntityID, b.EntityID)
	})
	return out, nil
}

// OrderBook projects the deliveries active contracts expect within the
// horizon, for one entity or for everyone when entityID is empty. The
// projection is computed on demand and never stored.
func (e *Engine) OrderBook(s *State, entityID string, horizon int) []contract.ScheduledDelivery {
	var book []contract.ScheduledDelivery
	for _, c := range s.Contracts {
		if entityID != "" && !c.Involves(entityID) {
			continue
		}
		book = append(book, c.Schedule(s.Tick, horizon)...)
	}
	slices.SortStableFunc(book, func(a, b contract.ScheduledDelivery) int {
		if c := cmp.Compare(a.Tick, b.Tick); c != 0 {
			return c
		}
		return cmp.Compare(a.ContractID, b.ContractID)
	})
	return book
}

// CheckInvariants verifies the properties that must hold between ticks
func (e *Engine) CheckInvariants(s *State) error {
	var errs []error
	for _, id := range s.EntityIDs() {
		ent := s.Entities[id]
		if err := ent.CheckCommitment(); err != nil {
			errs = append(errs, err)
		}
		for r, q := range ent.Inventory {
			if q < 0 {
				errs = append(errs, fmt.Errorf("entity %s: negative inventory %g %s", id, q, r))
			}
		}
		if t, ok := e.cfg.EntityType(ent.TypeID); ok && len(s.LinesOf(id)) > t.LineCapacity {
			errs = append(errs, fmt.Errorf("entity %s: %d lines exceed capacity %d", id, len(s.LinesOf(id)), t.LineCapacity))
		}
	}
	for _, l := range s.Lines {
		if def, ok := e.cfg.Process(l.ProcessID); ok && (l.Progress < 0 || l.Progress >= def.CycleTicks) {
			errs = append(errs, fmt.Errorf("line %s: progress %d outside [0, %d)", l.ID, l.Progress, def.CycleTicks))
		}
	}
	for _, d := range s.Deliveries {
		o, ok := s.Order(d.OrderID)
		if !ok || o.Status != order.StatusInTransit {
			errs = append(errs, fmt.Errorf("delivery for %s has no in-transit order", d.OrderID))
		}
	}
	for _, o := range s.Orders {
		if err := order.Transitions.ValidSequence(o.History); err != nil {
			errs = append(errs, fmt.Errorf("order %s: %w", o.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Inbound is the quantity of a resource already on order for the buyer
func (e *Engine) Inbound(s *State, buyerID, resource string) float64 {
	return inbound(s, buyerID, resource)
}

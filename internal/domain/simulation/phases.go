package simulation

import (
	"fmt"
	"slices"

	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/demand"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
	"github.com/andrescamacho/supplychain-go/internal/domain/order"
	"github.com/andrescamacho/supplychain-go/internal/domain/policy"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// settleArrivals counts down deliveries placed in earlier ticks and hands
// arrived goods to the buyer, who pays the seller the agreed price
func (e *Engine) settleArrivals(s *State, r *Report) error {
	kept := s.Deliveries[:0]
	for _, d := range s.Deliveries {
		if !d.Tick() {
			kept = append(kept, d)
			continue
		}
		buyer, ok := s.Entities[d.ToEntity]
		if !ok {
			return fmt.Errorf("delivery for order %s: unknown buyer %s", d.OrderID, d.ToEntity)
		}
		seller, ok := s.Entities[d.FromEntity]
		if !ok {
			return fmt.Errorf("delivery for order %s: unknown seller %s", d.OrderID, d.FromEntity)
		}
		buyer.Receive(d.Resource, d.Quantity)
		if value := d.Value(); value != 0 {
			desc := fmt.Sprintf("%g %s from %s", d.Quantity, d.Resource, seller.ID)
			r.post(ledger.Apply(&buyer.Money, buyer.ID, s.Tick, ledger.TransactionTypeOrderPayment, -value, desc, "order", d.OrderID))
			desc = fmt.Sprintf("%g %s to %s", d.Quantity, d.Resource, buyer.ID)
			r.post(ledger.Apply(&seller.Money, seller.ID, s.Tick, ledger.TransactionTypeOrderReceipt, value, desc, "order", d.OrderID))
		}
		if o, ok := s.Order(d.OrderID); ok {
			if err := o.Deliver(s.Tick); err != nil {
				return err
			}
		}
		r.Orders.Delivered++
	}
	s.Deliveries = kept
	return nil
}

func (e *Engine) advanceDemand(s *State, _ *Report) error {
	for _, loc := range e.cfg.Locations {
		s.Demand[loc.ID] = demand.Advance(loc, s.Demand[loc.ID])
	}
	return nil
}

// meteredStore records the mass a line creates and destroys
type meteredStore struct {
	owner  *entity.Entity
	report *Report
}

func (m meteredStore) Covers(items []shared.Amount, factor float64) bool {
	return m.owner.Covers(items, factor)
}

func (m meteredStore) Consume(items []shared.Amount, factor float64) {
	m.owner.Consume(items, factor)
	for _, it := range items {
		m.report.Consumed.Add(it.Resource, it.Quantity*factor)
	}
}

func (m meteredStore) Produce(items []shared.Amount, factor float64) {
	m.owner.Produce(items, factor)
	for _, it := range items {
		m.report.Produced.Add(it.Resource, it.Quantity*factor)
	}
}

func (e *Engine) advanceProduction(s *State, r *Report) error {
	for _, l := range s.Lines {
		def, ok := e.cfg.Process(l.ProcessID)
		if !ok {
			return fmt.Errorf("line %s: unknown process %s", l.ID, l.ProcessID)
		}
		owner, ok := s.Entities[l.EntityID]
		if !ok {
			return fmt.Errorf("line %s: unknown owner %s", l.ID, l.EntityID)
		}
		outcome := production.Advance(l, def, meteredStore{owner: owner, report: r})
		r.LineOutcomes[outcome]++
	}
	return nil
}

// sellRetail serves each location's demand from the stock of local retailers,
// in entity id order, until the demand is exhausted
func (e *Engine) sellRetail(s *State, r *Report) error {
	remaining := make(map[string]float64)
	for _, id := range s.EntityIDs() {
		ent := s.Entities[id]
		t, ok := e.cfg.EntityType(ent.TypeID)
		if !ok {
			continue
		}
		for _, res := range e.cfg.RetailedResources(t) {
			key := ent.LocationID + "/" + res
			left, seen := remaining[key]
			if !seen {
				loc, ok := e.cfg.Location(ent.LocationID)
				if !ok {
					continue
				}
				left = demand.Demand(loc, s.Demand[loc.ID], res, e.cfg.Scenario.Seed, s.Tick)
			}
			sold := ent.Sell(res, left)
			remaining[key] = left - sold
			if sold <= 0 {
				continue
			}
			revenue := sold * e.cfg.RetailPrice(res)
			r.Sold.Add(res, sold)
			r.Sales = append(r.Sales, Sale{
				EntityID:   ent.ID,
				LocationID: ent.LocationID,
				Resource:   res,
				Quantity:   sold,
				Revenue:    revenue,
			})
			if revenue != 0 {
				desc := fmt.Sprintf("sold %g %s", sold, res)
				r.post(ledger.Apply(&ent.Money, ent.ID, s.Tick, ledger.TransactionTypeRetailSale, revenue, desc, "location", ent.LocationID))
			}
		}
	}
	return nil
}

func (e *Engine) chargeStorage(s *State, r *Report) error {
	rate := e.cfg.Pricing.StorageCostPerUnit
	if rate <= 0 {
		return nil
	}
	for _, id := range s.EntityIDs() {
		ent := s.Entities[id]
		held := ent.Inventory.Total()
		if cost := rate * held; cost > 0 {
			desc := fmt.Sprintf("storage for %g units", held)
			r.post(ledger.Apply(&ent.Money, ent.ID, s.Tick, ledger.TransactionTypeStorageCost, -cost, desc, "", ""))
		}
	}
	return nil
}

// runDecisions lets the production and procurement policies act for every
// autonomous entity. Intents the engine cannot honour are dropped.
func (e *Engine) runDecisions(s *State, r *Report) error {
	view := e.view(s)
	for _, id := range s.EntityIDs() {
		ent := s.Entities[id]
		if ent.IsPlayerControlled() {
			continue
		}
		t, ok := e.cfg.EntityType(ent.TypeID)
		if !ok {
			continue
		}
		for _, in := range e.policies.Production.Decide(ent, t, view) {
			if in.Start {
				e.startLine(s, ent, in.ProcessID, in.Volume)
				continue
			}
			s.removeLines(func(l *production.Line) bool {
				return l.EntityID == ent.ID && l.ProcessID == in.ProcessID
			})
		}
		for _, in := range e.policies.Procurement.Decide(ent, t, view) {
			e.placeOrder(s, r, ent.ID, in.SellerID, in.Resource, in.Quantity, in.Price)
		}
	}
	return nil
}

// manageContracts records new proposals, lets sellers evaluate mature ones and
// runs every due delivery of active contracts
func (e *Engine) manageContracts(s *State, r *Report) error {
	view := e.view(s)
	autonomous := make([]*entity.Entity, 0, len(s.Entities))
	for _, id := range s.EntityIDs() {
		if ent := s.Entities[id]; !ent.IsPlayerControlled() {
			autonomous = append(autonomous, ent)
		}
	}

	for _, ent := range autonomous {
		t, ok := e.cfg.EntityType(ent.TypeID)
		if !ok {
			continue
		}
		for _, in := range e.policies.Contract.Propose(ent, t, view) {
			e.propose(s, r, in.BuyerID, in.SellerID, in.Resource, in.Terms)
		}
	}

	for _, ent := range autonomous {
		t, ok := e.cfg.EntityType(ent.TypeID)
		if !ok {
			continue
		}
		for _, d := range e.policies.Contract.Evaluate(ent, t, view) {
			c, ok := s.Contract(d.ContractID)
			if !ok || c.SellerID() != ent.ID || c.Status() != contract.StatusProposed {
				continue
			}
			if !c.IsMature(s.Tick, e.cfg.Contracts.WaitTicks) {
				continue
			}
			if !d.Accept {
				if err := e.declineContract(s, r, c, d.Reason); err != nil {
					return err
				}
				continue
			}
			if err := e.activateContract(s, r, c); err != nil {
				return err
			}
		}
	}

	for _, c := range s.Contracts {
		for c.IsDue(s.Tick) {
			if err := e.deliverContract(s, r, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// deliverContract injects an auto-accepted order when the seller can cover the
// scheduled units, and otherwise charges the penalty for the missed units
func (e *Engine) deliverContract(s *State, r *Report, c *contract.Contract) error {
	seller, ok := s.Entities[c.SellerID()]
	if !ok {
		return fmt.Errorf("contract %s: unknown seller %s", c.ID(), c.SellerID())
	}
	buyer, ok := s.Entities[c.BuyerID()]
	if !ok {
		return fmt.Errorf("contract %s: unknown buyer %s", c.ID(), c.BuyerID())
	}
	r.touch(c.ID())
	units := c.NextDeliveryUnits()

	if seller.Available(c.Resource())+shared.Epsilon >= units {
		o := order.New(s.nextOrderID(), buyer.ID, seller.ID, c.Resource(), units, c.Price(), s.Tick)
		o.ContractID = c.ID()
		if err := o.Accept(seller.Commit(c.Resource(), units), s.Tick); err != nil {
			return err
		}
		s.Orders = append(s.Orders, o)
		r.Orders.Placed++
		r.Orders.Accepted++
		r.Contracts.Deliveries++
		return c.RecordShipment(o.Fulfilled)
	}

	penalty, err := c.RecordMiss(units)
	if err != nil {
		return err
	}
	r.Contracts.Misses++
	r.Contracts.MissedUnits += units
	r.Contracts.Penalties += penalty
	if penalty > 0 {
		desc := fmt.Sprintf("missed %g %s", units, c.Resource())
		r.post(ledger.Apply(&seller.Money, seller.ID, s.Tick, ledger.TransactionTypeContractPenalty, -penalty, desc, "contract", c.ID()))
		r.post(ledger.Apply(&buyer.Money, buyer.ID, s.Tick, ledger.TransactionTypePenaltyReceipt, penalty, desc, "contract", c.ID()))
	}
	return nil
}

// acceptOrders processes pending orders grouped by seller, in the order the
// fulfillment policy ranks them, against the seller's available stock
func (e *Engine) acceptOrders(s *State, r *Report) error {
	bySeller := make(map[string][]policy.OrderCandidate)
	for _, o := range s.Orders {
		if o.Status != order.StatusPending {
			continue
		}
		ticks, _ := e.transportBetween(s, o.SellerID, o.BuyerID)
		bySeller[o.SellerID] = append(bySeller[o.SellerID], policy.OrderCandidate{Order: o, TransportTicks: ticks})
	}

	sellers := make([]string, 0, len(bySeller))
	for id := range bySeller {
		sellers = append(sellers, id)
	}
	slices.Sort(sellers)

	for _, sellerID := range sellers {
		seller, known := s.Entities[sellerID]
		for _, cand := range e.policies.Fulfillment.Rank(bySeller[sellerID]) {
			o := cand.Order
			var reason string
			switch {
			case !known:
				reason = order.ReasonUnknownSeller
			case o.Price+shared.Epsilon < e.cfg.CostFloor(seller.TypeID, o.Resource):
				reason = order.ReasonBelowCostFloor
			case seller.Available(o.Resource) <= shared.Epsilon:
				reason = order.ReasonNoStock
			}
			if reason != "" {
				if err := o.Decline(reason, s.Tick); err != nil {
					return err
				}
				r.Orders.Declined++
				continue
			}
			if err := o.Accept(seller.Commit(o.Resource, o.Requested), s.Tick); err != nil {
				return err
			}
			r.Orders.Accepted++
			if o.Partial {
				r.Orders.Partial++
			}
		}
	}
	return nil
}

// dispatchOrders turns every order accepted in an earlier tick into an
// in-flight delivery. Orders accepted this tick stay committed until the next.
func (e *Engine) dispatchOrders(s *State, r *Report) error {
	for _, o := range s.Orders {
		if !o.ReadyToDepart(s.Tick) {
			continue
		}
		seller, ok := s.Entities[o.SellerID]
		if !ok {
			return fmt.Errorf("order %s: unknown seller %s", o.ID, o.SellerID)
		}
		buyer, ok := s.Entities[o.BuyerID]
		if !ok {
			return fmt.Errorf("order %s: unknown buyer %s", o.ID, o.BuyerID)
		}
		route, err := e.router.Route(seller.LocationID, buyer.LocationID)
		if err != nil {
			return fmt.Errorf("order %s: %w", o.ID, err)
		}
		if err := seller.Ship(o.Resource, o.Fulfilled); err != nil {
			return err
		}
		if err := o.Dispatch(); err != nil {
			return err
		}
		s.Deliveries = append(s.Deliveries, order.NewDelivery(o, seller.LocationID, buyer.LocationID, route.Ticks, route.Path, s.Tick))
		r.Orders.Departed++
	}
	return nil
}

// settleContracts runs after departures so status reflects the settled tick
func (e *Engine) settleContracts(s *State, r *Report) error {
	for _, c := range s.Contracts {
		changed, err := c.Settle(s.Tick)
		if err != nil {
			return err
		}
		if !changed {
			continue
		}
		r.touch(c.ID())
		switch c.Status() {
		case contract.StatusCompleted:
			r.Contracts.Completed++
		case contract.StatusCancelled:
			r.Contracts.Cancelled++
		}
	}
	return nil
}

func (e *Engine) flagInsolvency(s *State, r *Report) {
	for _, id := range s.EntityIDs() {
		if ent := s.Entities[id]; ent.Money < 0 {
			r.Warnings = append(r.Warnings, Warning{EntityID: id, Message: "negative balance", Balance: ent.Money})
		}
	}
}

func (e *Engine) prune(s *State) {
	if e.retention <= 0 {
		return
	}
	cutoff := s.Tick - e.retention
	s.Orders = slices.DeleteFunc(s.Orders, func(o *order.Order) bool {
		return o.IsTerminal() && o.ClosedTick <= cutoff
	})
	s.Contracts = slices.DeleteFunc(s.Contracts, func(c *contract.Contract) bool {
		return !c.IsOpen() && c.ClosedTick() <= cutoff
	})
}

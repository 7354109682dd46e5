package simulation

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/order"
	"github.com/andrescamacho/supplychain-go/internal/domain/policy"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// applyActions folds queued external actions into the tick. An invalid action
// changes nothing and is listed in the report.
func (e *Engine) applyActions(s *State, r *Report, actions []Action) error {
	for _, a := range actions {
		if reason := e.applyAction(s, r, a); reason != "" {
			r.reject(a, reason)
		}
	}
	return nil
}

func (e *Engine) applyAction(s *State, r *Report, a Action) string {
	ent, ok := s.Entities[a.EntityID]
	if !ok {
		return RejectUnknownEntity
	}
	if a.Party == "" || ent.Controller != a.Party {
		return RejectNotController
	}

	switch a.Kind {
	case ActionStartLine:
		def, ok := e.cfg.Process(a.Target)
		if !ok {
			return RejectUnknownTarget
		}
		volume := a.Quantity
		if volume == 0 {
			volume = def.MinVolume
		}
		if !production.VolumeInBounds(def, volume) {
			return RejectOutOfBounds
		}
		return e.startLine(s, ent, def.ID, volume)

	case ActionStopLine:
		l, ok := s.Line(a.Target)
		if !ok || l.EntityID != ent.ID {
			return RejectUnknownTarget
		}
		s.removeLines(func(x *production.Line) bool { return x.ID == l.ID })
		return ""

	case ActionSetVolume:
		l, ok := s.Line(a.Target)
		if !ok || l.EntityID != ent.ID {
			return RejectUnknownTarget
		}
		def, ok := e.cfg.Process(l.ProcessID)
		if !ok {
			return RejectUnknownTarget
		}
		if !production.VolumeInBounds(def, a.Quantity) {
			return RejectOutOfBounds
		}
		l.Volume = production.ClampVolume(def, a.Quantity)
		return ""

	case ActionPlaceOrder:
		if _, ok := e.cfg.Resource(a.Target); !ok {
			return RejectUnknownTarget
		}
		if a.Quantity <= 0 || a.Price < 0 {
			return RejectOutOfBounds
		}
		seller := a.Counterparty
		if seller == "" {
			if seller = policy.SelectSupplier(ent, a.Target, e.view(s)); seller == "" {
				return RejectNoSupplier
			}
		}
		price := a.Price
		if price == 0 {
			price = e.cfg.BasePrice(a.Target)
		}
		_, reason := e.placeOrder(s, r, ent.ID, seller, a.Target, a.Quantity, price)
		return reason

	case ActionProposeContract:
		if _, ok := e.cfg.Resource(a.Target); !ok {
			return RejectUnknownTarget
		}
		units := a.Quantity
		if units == 0 {
			units = e.cfg.AI.ContractUnits
		}
		if units <= 0 || a.Price < 0 {
			return RejectOutOfBounds
		}
		seller := a.Counterparty
		if seller == "" {
			if seller = policy.SelectSupplier(ent, a.Target, e.view(s)); seller == "" {
				return RejectNoSupplier
			}
		}
		for _, c := range s.Contracts {
			if c.IsOpen() && c.BuyerID() == ent.ID && c.SellerID() == seller && c.Resource() == a.Target {
				return RejectDuplicate
			}
		}
		price := a.Price
		if price == 0 {
			price = e.cfg.BasePrice(a.Target) * (1 + e.cfg.AI.ContractPremium)
		}
		return e.propose(s, r, ent.ID, seller, a.Target, e.contractTerms(price, units))

	case ActionAcceptContract, ActionDeclineContract:
		c, ok := s.Contract(a.Target)
		if !ok {
			return RejectUnknownTarget
		}
		if c.SellerID() != ent.ID {
			return RejectNotSeller
		}
		if c.Status() != contract.StatusProposed {
			return RejectNotProposed
		}
		if !c.IsMature(s.Tick, e.cfg.Contracts.WaitTicks) {
			return RejectProposalTooYoung
		}
		if a.Kind == ActionDeclineContract {
			if err := e.declineContract(s, r, c, contract.ReasonDeclinedByOwner); err != nil {
				return err.Error()
			}
			return ""
		}
		if c.Price()+shared.Epsilon < e.cfg.CostFloor(ent.TypeID, c.Resource()) {
			return RejectBelowCostFloor
		}
		if acceptedThisTick(s, ent.ID, c.Resource()) {
			return RejectAlreadyAccepted
		}
		if err := e.activateContract(s, r, c); err != nil {
			return err.Error()
		}
		return ""
	}
	return RejectUnknownTarget
}

// contractTerms fills a schedule from the configured contract defaults
func (e *Engine) contractTerms(price, units float64) contract.Terms {
	return contract.Terms{
		Price:                 price,
		UnitsPerDelivery:      units,
		DeliveryInterval:      e.cfg.Contracts.DeliveryInterval,
		TotalUnits:            units * float64(e.cfg.Contracts.Deliveries),
		PenaltyRate:           e.cfg.Contracts.PenaltyRate,
		CancellationThreshold: e.cfg.Contracts.CancellationThreshold,
	}
}

// startLine adds a line when the entity's type may run the process and a
// slot is free
func (e *Engine) startLine(s *State, ent *entity.Entity, processID string, volume float64) string {
	t, ok := e.cfg.EntityType(ent.TypeID)
	if !ok || !t.CanRun(processID) {
		return RejectNotEligible
	}
	def, ok := e.cfg.Process(processID)
	if !ok {
		return RejectUnknownTarget
	}
	if len(s.LinesOf(ent.ID)) >= t.LineCapacity {
		return RejectCapacity
	}
	l := production.NewLine(s.nextLineID(), ent.ID, def, volume)
	s.Lines = append(s.Lines, &l)
	return ""
}

// placeOrder records a pending order for the acceptance phase
func (e *Engine) placeOrder(s *State, r *Report, buyerID, sellerID, resource string, quantity, price float64) (*order.Order, string) {
	buyer, ok := s.Entities[buyerID]
	if !ok {
		return nil, RejectUnknownEntity
	}
	if _, ok := s.Entities[sellerID]; !ok || sellerID == buyerID {
		return nil, RejectUnknownTarget
	}
	if quantity <= 0 || price < 0 {
		return nil, RejectOutOfBounds
	}
	t, ok := e.cfg.EntityType(buyer.TypeID)
	if !ok || !t.CanStore(resource) {
		return nil, RejectNotEligible
	}
	o := order.New(s.nextOrderID(), buyerID, sellerID, resource, quantity, price, s.Tick)
	s.Orders = append(s.Orders, o)
	r.Orders.Placed++
	return o, ""
}

// propose records a buyer-initiated contract proposal
func (e *Engine) propose(s *State, r *Report, buyerID, sellerID, resource string, terms contract.Terms) string {
	buyer, ok := s.Entities[buyerID]
	if !ok {
		return RejectUnknownEntity
	}
	if _, ok := s.Entities[sellerID]; !ok || sellerID == buyerID {
		return RejectUnknownTarget
	}
	t, ok := e.cfg.EntityType(buyer.TypeID)
	if !ok || !t.CanStore(resource) {
		return RejectNotEligible
	}
	if err := terms.Validate(); err != nil {
		return RejectOutOfBounds
	}
	c, err := contract.NewProposal(s.nextContractID(), buyerID, sellerID, resource, terms, s.Tick)
	if err != nil {
		return err.Error()
	}
	s.Contracts = append(s.Contracts, c)
	r.Contracts.Proposed++
	r.touch(c.ID())
	return ""
}

// acceptedThisTick reports whether the seller already took on a contract for
// the resource during the current tick
func acceptedThisTick(s *State, sellerID, resource string) bool {
	for _, c := range s.Contracts {
		if c.SellerID() == sellerID && c.Resource() == resource &&
			c.Status() == contract.StatusActive && c.ActivatedTick() == s.Tick {
			return true
		}
	}
	return false
}

func (e *Engine) activateContract(s *State, r *Report, c *contract.Contract) error {
	if err := c.Activate(s.Tick); err != nil {
		return err
	}
	r.Contracts.Activated++
	r.touch(c.ID())
	return nil
}

func (e *Engine) declineContract(s *State, r *Report, c *contract.Contract, reason string) error {
	if err := c.Decline(reason, s.Tick); err != nil {
		return err
	}
	r.Contracts.Declined++
	r.touch(c.ID())
	return nil
}

// Package contract models scheduled, recurring supply agreements.
//
// State Machine:
//
//	PROPOSED -> ACTIVE -> COMPLETED
//	    |          |
//	    |          +----> CANCELLED (missed fraction above threshold)
//	    +---------------> CANCELLED (declined by the seller)
package contract

import (
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Status represents the lifecycle status of a contract
type Status string

const (
	StatusProposed  Status = "proposed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Transitions is the forward-only status table for contracts
var Transitions = shared.NewTransitionTable("contract", map[Status][]Status{
	StatusProposed: {StatusActive, StatusCancelled},
	StatusActive:   {StatusCompleted, StatusCancelled},
})

// ReasonMissedThreshold is recorded when too many units were missed
const ReasonMissedThreshold = "missed delivery threshold exceeded"

// Terms are fixed when the buyer proposes and never change afterwards
type Terms struct {
	Price                 float64
	UnitsPerDelivery      float64
	DeliveryInterval      int
	TotalUnits            float64
	PenaltyRate           float64
	CancellationThreshold float64
}

// Validate checks the terms describe a schedule that can run
func (t Terms) Validate() error {
	switch {
	case t.Price < 0:
		return shared.NewValidationError("price", "cannot be negative")
	case t.UnitsPerDelivery <= 0:
		return shared.NewValidationError("units_per_delivery", "must be positive")
	case t.DeliveryInterval < 1:
		return shared.NewValidationError("delivery_interval", "must be at least 1")
	case t.TotalUnits < t.UnitsPerDelivery:
		return shared.NewValidationError("total_units", "must cover at least one delivery")
	case t.PenaltyRate < 0:
		return shared.NewValidationError("penalty_rate", "cannot be negative")
	case t.CancellationThreshold < 0 || t.CancellationThreshold > 1:
		return shared.NewValidationError("cancellation_threshold", "must be within [0, 1]")
	}
	return nil
}

// PenaltyPerUnit is charged to the seller for every missed unit
func (t Terms) PenaltyPerUnit() float64 {
	return t.Price * t.PenaltyRate
}

// Contract is a recurring supply agreement between a buyer and a seller
type Contract struct {
	id               string
	buyerID          string
	sellerID         string
	resource         string
	terms            Terms
	status           Status
	proposedTick     int
	activatedTick    int
	closedTick       int
	nextDeliveryTick int
	unitsShipped     float64
	unitsMissed      float64
	penaltiesCharged float64
	reason           string
}

// NewProposal creates a buyer-initiated proposal
func NewProposal(id, buyerID, sellerID, resource string, terms Terms, tick int) (*Contract, error) {
	if id == "" {
		return nil, fmt.Errorf("contract ID cannot be empty")
	}
	if buyerID == "" || sellerID == "" {
		return nil, fmt.Errorf("contract needs both buyer and seller")
	}
	if buyerID == sellerID {
		return nil, fmt.Errorf("buyer and seller must differ")
	}
	if resource == "" {
		return nil, fmt.Errorf("resource cannot be empty")
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return &Contract{
		id:           id,
		buyerID:      buyerID,
		sellerID:     sellerID,
		resource:     resource,
		terms:        terms,
		status:       StatusProposed,
		proposedTick: tick,
	}, nil
}

func (c *Contract) ID() string                { return c.id }
func (c *Contract) BuyerID() string           { return c.buyerID }
func (c *Contract) SellerID() string          { return c.sellerID }
func (c *Contract) Resource() string          { return c.resource }
func (c *Contract) Terms() Terms              { return c.terms }
func (c *Contract) Price() float64            { return c.terms.Price }
func (c *Contract) Status() Status            { return c.status }
func (c *Contract) ProposedTick() int         { return c.proposedTick }
func (c *Contract) ActivatedTick() int        { return c.activatedTick }
func (c *Contract) ClosedTick() int           { return c.closedTick }
func (c *Contract) NextDeliveryTick() int     { return c.nextDeliveryTick }
func (c *Contract) UnitsShipped() float64     { return c.unitsShipped }
func (c *Contract) UnitsMissed() float64      { return c.unitsMissed }
func (c *Contract) PenaltiesCharged() float64 { return c.penaltiesCharged }
func (c *Contract) Reason() string            { return c.reason }

// Involves reports whether the entity is buyer or seller
func (c *Contract) Involves(entityID string) bool {
	return c.buyerID == entityID || c.sellerID == entityID
}

// IsOpen reports whether the contract is proposed or active
func (c *Contract) IsOpen() bool {
	return c.status == StatusProposed || c.status == StatusActive
}

// IsMature reports whether the proposal has waited long enough to be evaluated
func (c *Contract) IsMature(tick, waitTicks int) bool {
	return c.status == StatusProposed && tick-c.proposedTick >= waitTicks
}

func (c *Contract) transition(to Status, tick int) error {
	next, err := Transitions.Transition(c.id, c.status, to)
	if err != nil {
		return err
	}
	c.status = next
	if Transitions.IsTerminal(next) {
		c.closedTick = tick
	}
	return nil
}

// Activate accepts the proposal (MUTABLE). The first delivery falls due one
// interval after activation.
func (c *Contract) Activate(tick int) error {
	if err := c.transition(StatusActive, tick); err != nil {
		return err
	}
	c.activatedTick = tick
	c.nextDeliveryTick = tick + c.terms.DeliveryInterval
	return nil
}

// Decline rejects a proposal (MUTABLE)
func (c *Contract) Decline(reason string, tick int) error {
	if c.status != StatusProposed {
		return &shared.InvalidTransitionError{Kind: "contract", ID: c.id, From: string(c.status), To: "declined"}
	}
	if err := c.transition(StatusCancelled, tick); err != nil {
		return err
	}
	c.reason = reason
	return nil
}

// RemainingUnits is what is left to ship or miss
func (c *Contract) RemainingUnits() float64 {
	r := c.terms.TotalUnits - c.unitsShipped - c.unitsMissed
	if r < shared.Epsilon {
		return 0
	}
	return r
}

// IsDue reports whether a scheduled delivery falls on or before the tick
func (c *Contract) IsDue(tick int) bool {
	return c.status == StatusActive && tick >= c.nextDeliveryTick && c.RemainingUnits() > 0
}

// NextDeliveryUnits is the size of the next scheduled delivery
func (c *Contract) NextDeliveryUnits() float64 {
	return min(c.terms.UnitsPerDelivery, c.RemainingUnits())
}

// RecordShipment counts an auto-accepted delivery order (MUTABLE)
func (c *Contract) RecordShipment(units float64) error {
	if c.status != StatusActive {
		return fmt.Errorf("contract %s is %s, not active", c.id, c.status)
	}
	c.unitsShipped += units
	c.nextDeliveryTick += c.terms.DeliveryInterval
	return nil
}

// RecordMiss counts a missed delivery and returns the penalty owed (MUTABLE).
// The schedule advances regardless.
func (c *Contract) RecordMiss(units float64) (float64, error) {
	if c.status != StatusActive {
		return 0, fmt.Errorf("contract %s is %s, not active", c.id, c.status)
	}
	penalty := units * c.terms.PenaltyPerUnit()
	c.unitsMissed += units
	c.penaltiesCharged += penalty
	c.nextDeliveryTick += c.terms.DeliveryInterval
	return penalty, nil
}

// MissedFraction is missed units over total committed units
func (c *Contract) MissedFraction() float64 {
	if c.terms.TotalUnits <= 0 {
		return 0
	}
	return c.unitsMissed / c.terms.TotalUnits
}

// Settle moves an active contract to its terminal status when due (MUTABLE).
// Cancellation is checked first so a contract whose last delivery pushes the
// missed fraction over the threshold ends cancelled, not completed.
func (c *Contract) Settle(tick int) (bool, error) {
	if c.status != StatusActive {
		return false, nil
	}
	if c.MissedFraction() > c.terms.CancellationThreshold+shared.Epsilon {
		if err := c.transition(StatusCancelled, tick); err != nil {
			return false, err
		}
		c.reason = ReasonMissedThreshold
		return true, nil
	}
	if c.RemainingUnits() <= 0 {
		if err := c.transition(StatusCompleted, tick); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Clone returns an independent copy
func (c *Contract) Clone() *Contract {
	cp := *c
	return &cp
}

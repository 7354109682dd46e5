// Package order holds spot orders and the in-flight deliveries they become.
//
// State Machine:
//
//	PENDING -> ACCEPTED -> IN_TRANSIT -> DELIVERED
//	    |
//	    +----> DECLINED
//
// Delivered and declined are terminal.
package order

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Status represents the lifecycle status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusDeclined  Status = "declined"
)

// Transitions is the forward-only status table for orders
var Transitions = shared.NewTransitionTable("order", map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusDeclined},
	StatusAccepted:  {StatusInTransit},
	StatusInTransit: {StatusDelivered},
})

// Decline reasons
const (
	ReasonNoStock        = "no available stock"
	ReasonBelowCostFloor = "price below seller cost floor"
	ReasonUnknownSeller  = "unknown seller"
	ReasonCannotStore    = "buyer cannot store resource"
)

// Order is a one-off purchase of a resource from a specific seller
type Order struct {
	ID         string
	BuyerID    string
	SellerID   string
	Resource   string
	Requested  float64
	Fulfilled  float64
	Price      float64
	Status     Status
	PlacedTick int
	// AcceptedTick is the tick stock was committed; departure happens on a later tick
	AcceptedTick int
	// ClosedTick is the tick the order reached a terminal status
	ClosedTick int
	// ContractID is set for orders injected by a contract schedule
	ContractID    string
	Partial       bool
	DeclineReason string
	// History records every status the order has held, in order
	History []Status
}

// New creates a pending order
func New(id, buyerID, sellerID, resource string, quantity, price float64, tick int) *Order {
	return &Order{
		ID:         id,
		BuyerID:    buyerID,
		SellerID:   sellerID,
		Resource:   resource,
		Requested:  quantity,
		Price:      price,
		Status:     StatusPending,
		PlacedTick: tick,
		History:    []Status{StatusPending},
	}
}

func (o *Order) transition(to Status) error {
	next, err := Transitions.Transition(o.ID, o.Status, to)
	if err != nil {
		return err
	}
	o.Status = next
	o.History = append(o.History, next)
	return nil
}

// Accept fulfils the order with the committed quantity, flagging a partial fill
func (o *Order) Accept(fulfilled float64, tick int) error {
	if err := o.transition(StatusAccepted); err != nil {
		return err
	}
	o.Fulfilled = fulfilled
	o.AcceptedTick = tick
	o.Partial = fulfilled+shared.Epsilon < o.Requested
	return nil
}

// Decline closes the order with nothing fulfilled
func (o *Order) Decline(reason string, tick int) error {
	if err := o.transition(StatusDeclined); err != nil {
		return err
	}
	o.Fulfilled = 0
	o.DeclineReason = reason
	o.ClosedTick = tick
	return nil
}

// ReadyToDepart reports whether an accepted order may leave at the tick
func (o *Order) ReadyToDepart(tick int) bool {
	return o.Status == StatusAccepted && o.AcceptedTick < tick
}

// Dispatch marks the order as shipped
func (o *Order) Dispatch() error {
	return o.transition(StatusInTransit)
}

// Deliver marks the order as received by the buyer
func (o *Order) Deliver(tick int) error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	o.ClosedTick = tick
	return nil
}

// IsTerminal reports whether the order can no longer change
func (o *Order) IsTerminal() bool {
	return Transitions.IsTerminal(o.Status)
}

// Value is the money owed on delivery
func (o *Order) Value() float64 {
	return o.Fulfilled * o.Price
}

// Involves reports whether the entity is buyer or seller
func (o *Order) Involves(entityID string) bool {
	return o.BuyerID == entityID || o.SellerID == entityID
}

// Clone returns a deep copy
func (o *Order) Clone() *Order {
	c := *o
	c.History = append([]Status(nil), o.History...)
	return &c
}

// Package entity models a supply chain participant: its stock, the part of
// that stock promised to accepted orders, and its money.
package entity

import (
	"fmt"
	"maps"
	"slices"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Entity is a participant created from scenario data and never destroyed
// during a run. Committed never exceeds Inventory for any resource.
type Entity struct {
	ID         string
	TypeID     string
	LocationID string
	Controller string
	Inventory  shared.Stock
	Committed  shared.Stock
	Money      float64
	// Suppliers lists eligible seller ids per resource, in preference order
	Suppliers map[string][]string
}

// FromSeed builds the initial entity state
func FromSeed(seed catalog.EntitySeed) *Entity {
	e := &Entity{
		ID:         seed.ID,
		TypeID:     seed.Type,
		LocationID: seed.Location,
		Controller: seed.Controller,
		Inventory:  shared.Stock{},
		Committed:  shared.Stock{},
		Money:      seed.Money,
		Suppliers:  make(map[string][]string, len(seed.Suppliers)),
	}
	for r, q := range seed.Inventory {
		e.Inventory.Add(r, q)
	}
	for r, list := range seed.Suppliers {
		e.Suppliers[r] = slices.Clone(list)
	}
	return e
}

// IsPlayerControlled reports whether decision modules must leave the entity alone
func (e *Entity) IsPlayerControlled() bool {
	return e.Controller != ""
}

// Available is inventory not promised to accepted orders
func (e *Entity) Available(resource string) float64 {
	a := e.Inventory.Get(resource) - e.Committed.Get(resource)
	if a < 0 {
		return 0
	}
	return a
}

// Commit reserves up to quantity of available stock and returns the amount reserved
func (e *Entity) Commit(resource string, quantity float64) float64 {
	q := min(quantity, e.Available(resource))
	if q <= 0 {
		return 0
	}
	e.Committed.Add(resource, q)
	return q
}

// Ship removes committed stock leaving on a delivery
func (e *Entity) Ship(resource string, quantity float64) error {
	if e.Committed.Get(resource)+shared.Epsilon < quantity {
		return fmt.Errorf("entity %s: shipping %g %s exceeds committed %g",
			e.ID, quantity, resource, e.Committed.Get(resource))
	}
	e.Committed.Take(resource, quantity)
	e.Inventory.Take(resource, quantity)
	return nil
}

// Receive adds arriving stock
func (e *Entity) Receive(resource string, quantity float64) {
	e.Inventory.Add(resource, quantity)
}

// Sell removes available stock destroyed by a retail sale and returns the amount sold
func (e *Entity) Sell(resource string, quantity float64) float64 {
	q := min(quantity, e.Available(resource))
	if q <= 0 {
		return 0
	}
	e.Inventory.Take(resource, q)
	return q
}

// Covers implements production.Store against available stock
func (e *Entity) Covers(items []shared.Amount, factor float64) bool {
	for _, it := range items {
		if e.Available(it.Resource)+shared.Epsilon < it.Quantity*factor {
			return false
		}
	}
	return true
}

// Consume implements production.Store
func (e *Entity) Consume(items []shared.Amount, factor float64) {
	for _, it := range items {
		e.Inventory.Take(it.Resource, it.Quantity*factor)
	}
}

// Produce implements production.Store
func (e *Entity) Produce(items []shared.Amount, factor float64) {
	for _, it := range items {
		e.Inventory.Add(it.Resource, it.Quantity*factor)
	}
}

// SuppliersFor returns the eligible sellers of a resource
func (e *Entity) SuppliersFor(resource string) []string {
	return e.Suppliers[resource]
}

// Clone returns a deep copy
func (e *Entity) Clone() *Entity {
	c := *e
	c.Inventory = e.Inventory.Clone()
	c.Committed = e.Committed.Clone()
	c.Suppliers = make(map[string][]string, len(e.Suppliers))
	for r, list := range e.Suppliers {
		c.Suppliers[r] = slices.Clone(list)
	}
	return &c
}

// CheckCommitment returns an error for the first resource whose committed
// quantity exceeds inventory
func (e *Entity) CheckCommitment() error {
	for _, r := range slices.Sorted(maps.Keys(e.Committed)) {
		if e.Committed[r] > e.Inventory.Get(r)+shared.Epsilon {
			return fmt.Errorf("entity %s: committed %g %s exceeds inventory %g",
				e.ID, e.Committed[r], r, e.Inventory.Get(r))
		}
	}
	return nil
}

// Package simulation is the tick orchestrator. It owns no mutable state of
// its own: Step takes the previous State and returns a new one, leaving the
// input untouched, so rollback and replay are just a matter of keeping states.
package simulation

import (
	"fmt"
	"maps"
	"slices"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/demand"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/order"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
)

// State is the complete simulation state at the end of a tick
type State struct {
	Tick       int
	Entities   map[string]*entity.Entity
	Lines      []*production.Line
	Orders     []*order.Order
	Deliveries []*order.Delivery
	Contracts  []*contract.Contract
	Demand     map[string]demand.Cycle

	NextOrderSeq    int
	NextContractSeq int
	NextLineSeq     int
}

// NewState builds tick 0 from the scenario. The scenario's default entity is
// handed to the player unless it already names a controller.
func NewState(cfg *catalog.Config) *State {
	s := &State{
		Entities: make(map[string]*entity.Entity, len(cfg.Scenario.Entities)),
		Demand:   make(map[string]demand.Cycle, len(cfg.Locations)),
	}
	for _, seed := range cfg.Scenario.Entities {
		e := entity.FromSeed(seed)
		if e.ID == cfg.Scenario.DefaultEntity && e.Controller == "" {
			e.Controller = catalog.PlayerController
		}
		s.Entities[e.ID] = e
	}
	for _, loc := range cfg.Locations {
		s.Demand[loc.ID] = demand.Cycle{}
	}
	return s
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	c := &State{
		Tick:            s.Tick,
		Entities:        make(map[string]*entity.Entity, len(s.Entities)),
		Lines:           make([]*production.Line, len(s.Lines)),
		Orders:          make([]*order.Order, len(s.Orders)),
		Deliveries:      make([]*order.Delivery, len(s.Deliveries)),
		Contracts:       make([]*contract.Contract, len(s.Contracts)),
		Demand:          maps.Clone(s.Demand),
		NextOrderSeq:    s.NextOrderSeq,
		NextContractSeq: s.NextContractSeq,
		NextLineSeq:     s.NextLineSeq,
	}
	for id, e := range s.Entities {
		c.Entities[id] = e.Clone()
	}
	for i, l := range s.Lines {
		cp := *l
		c.Lines[i] = &cp
	}
	for i, o := range s.Orders {
		c.Orders[i] = o.Clone()
	}
	for i, d := range s.Deliveries {
		c.Deliveries[i] = d.Clone()
	}
	for i, ct := range s.Contracts {
		c.Contracts[i] = ct.Clone()
	}
	if c.Demand == nil {
		c.Demand = map[string]demand.Cycle{}
	}
	return c
}

// EntityIDs returns every entity id in sorted order
func (s *State) EntityIDs() []string {
	return slices.Sorted(maps.Keys(s.Entities))
}

// Order looks up an order by id
func (s *State) Order(id string) (*order.Order, bool) {
	for _, o := range s.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// Contract looks up a contract by id
func (s *State) Contract(id string) (*contract.Contract, bool) {
	for _, c := range s.Contracts {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Line looks up a process line by id
func (s *State) Line(id string) (*production.Line, bool) {
	for _, l := range s.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// LinesOf returns the lines owned by an entity
func (s *State) LinesOf(entityID string) []*production.Line {
	var out []*production.Line
	for _, l := range s.Lines {
		if l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out
}

func (s *State) removeLines(match func(*production.Line) bool) int {
	before := len(s.Lines)
	s.Lines = slices.DeleteFunc(s.Lines, match)
	return before - len(s.Lines)
}

func (s *State) nextOrderID() string {
	s.NextOrderSeq++
	return fmt.Sprintf("O%06d", s.NextOrderSeq)
}

func (s *State) nextContractID() string {
	s.NextContractSeq++
	return fmt.Sprintf("C%06d", s.NextContractSeq)
}

func (s *State) nextLineID() string {
	s.NextLineSeq++
	return fmt.Sprintf("L%06d", s.NextLineSeq)
}

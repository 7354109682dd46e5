package simulation

import (
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/policy"
	"github.com/andrescamacho/supplychain-go/internal/domain/routing"
)

// DefaultRetentionTicks is how long terminal orders and contracts stay in state
const DefaultRetentionTicks = 100

// Engine advances simulation state one tick at a time. It is safe to share
// between goroutines because it holds only read-only collaborators, but a
// caller must never step two ticks of the same run concurrently.
type Engine struct {
	cfg       *catalog.Config
	router    routing.Router
	policies  policy.Set
	retention int
}

// Option configures an Engine
type Option func(*Engine)

// WithPolicies replaces the decision modules. Nil members keep their default.
func WithPolicies(set policy.Set) Option {
	return func(e *Engine) {
		if set.Production != nil {
			e.policies.Production = set.Production
		}
		if set.Procurement != nil {
			e.policies.Procurement = set.Procurement
		}
		if set.Contract != nil {
			e.policies.Contract = set.Contract
		}
		if set.Fulfillment != nil {
			e.policies.Fulfillment = set.Fulfillment
		}
	}
}

// WithRetention sets how many ticks terminal orders and contracts are kept.
// Zero keeps them forever.
func WithRetention(ticks int) Option {
	return func(e *Engine) {
		e.retention = ticks
	}
}

// NewEngine creates an engine over a validated configuration
func NewEngine(cfg *catalog.Config, router routing.Router, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		router:    router,
		policies:  policy.Defaults(),
		retention: DefaultRetentionTicks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the configuration the engine runs on
func (e *Engine) Config() *catalog.Config {
	return e.cfg
}

// Step computes the next tick. prev is not modified. The phase order is fixed:
// arrivals first so fresh stock is visible to the same tick's decisions, and
// departures last so an order accepted this tick leaves next tick at the earliest.
//
// An error means the engine itself is inconsistent; scarcity and invalid
// actions are never errors.
func (e *Engine) Step(prev *State, actions []Action) (*State, *Report, error) {
	s := prev.Clone()
	s.Tick++
	r := newReport(s.Tick)

	phases := []struct {
		name string
		run  func(*State, *Report) error
	}{
		{"arrivals", e.settleArrivals},
		{"demand", e.advanceDemand},
		{"production", e.advanceProduction},
		{"retail", e.sellRetail},
		{"storage", e.chargeStorage},
		{"actions", func(s *State, r *Report) error { return e.applyActions(s, r, actions) }},
		{"decisions", e.runDecisions},
		{"contracts", e.manageContracts},
		{"acceptance", e.acceptOrders},
		{"departures", e.dispatchOrders},
		{"contract status", e.settleContracts},
	}
	for _, phase := range phases {
		if err := phase.run(s, r); err != nil {
			return nil, nil, fmt.Errorf("tick %d %s: %w", s.Tick, phase.name, err)
		}
	}
	e.flagInsolvency(s, r)
	e.prune(s)
	return s, r, nil
}

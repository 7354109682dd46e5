// Package simtest builds engines over the catalogtest fixtures.
package simtest

import (
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/catalog/catalogtest"
	"github.com/andrescamacho/supplychain-go/internal/domain/routing"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// Chain builds an engine and initial state over the Chain fixture after
// applying mutate to the definitions
func Chain(mutate func(cfg *catalog.Config), opts ...simulation.Option) (*simulation.Engine, *simulation.State, error) {
	cfg := catalogtest.ChainUnvalidated()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("chain fixture: %w", err)
	}
	network, err := routing.NewNetwork(cfg.Locations, cfg.Corridors)
	if err != nil {
		return nil, nil, fmt.Errorf("chain fixture: %w", err)
	}
	return simulation.NewEngine(cfg, network, opts...), simulation.NewState(cfg), nil
}

// PlayerControlled hands every entity to the player so that only actions move
// the world
func PlayerControlled(cfg *catalog.Config) {
	for i := range cfg.Scenario.Entities {
		cfg.Scenario.Entities[i].Controller = catalog.PlayerController
	}
}

// Quiet removes storage cost and demand so balances only move with trades
func Quiet(cfg *catalog.Config) {
	cfg.Pricing.StorageCostPerUnit = 0
	for i := range cfg.Locations {
		cfg.Locations[i].BaseDemand = nil
	}
}

// Combine applies several mutations in order
func Combine(mutations ...func(*catalog.Config)) func(*catalog.Config) {
	return func(cfg *catalog.Config) {
		for _, m := range mutations {
			m(cfg)
		}
	}
}

// Run steps the engine n times without actions, checking invariants after each tick
func Run(engine *simulation.Engine, s *simulation.State, n int) (*simulation.State, []*simulation.Report, error) {
	reports := make([]*simulation.Report, 0, n)
	for i := 0; i < n; i++ {
		next, report, err := engine.Step(s, nil)
		if err != nil {
			return nil, nil, err
		}
		if err := engine.CheckInvariants(next); err != nil {
			return nil, nil, fmt.Errorf("tick %d: %w", next.Tick, err)
		}
		s = next
		reports = append(reports, report)
	}
	return s, reports, nil
}

// Act builds a player action
func Act(entityID string, kind simulation.ActionKind, target string, quantity float64) simulation.Action {
	return simulation.Action{
		Party:    catalog.PlayerController,
		EntityID: entityID,
		Kind:     kind,
		Target:   target,
		Quantity: quantity,
	}
}

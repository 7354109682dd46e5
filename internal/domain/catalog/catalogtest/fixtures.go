// Package catalogtest provides validated configurations for tests.
package catalogtest

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Chain returns a three-tier chain on the line graph A -(2)- B -(3)- C:
// a farm at A grows grain, a mill at B grinds it into flour, and a shop
// at C sells flour to local demand.
func Chain() *catalog.Config {
	cfg := ChainUnvalidated()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// ChainUnvalidated returns the Chain definitions before indexing so tests can
// mutate them first
func ChainUnvalidated() *catalog.Config {
	return &catalog.Config{
		Resources: []catalog.Resource{
			{ID: "grain", Name: "Grain", Tier: "raw"},
			{ID: "flour", Name: "Flour", Tier: "processed"},
		},
		Processes: []catalog.ProcessDefinition{
			{
				ID:         "grow",
				CycleTicks: 1,
				Outputs:    []shared.Amount{{Resource: "grain", Quantity: 2}},
				MinVolume:  1,
				MaxVolume:  4,
			},
			{
				ID:          "grind",
				CycleTicks:  2,
				CycleInputs: []shared.Amount{{Resource: "grain", Quantity: 2}},
				Outputs:     []shared.Amount{{Resource: "flour", Quantity: 1}},
				MinVolume:   1,
				MaxVolume:   3,
			},
		},
		RetailProcesses: []catalog.RetailProcess{
			{ID: "sell_flour", Resource: "flour"},
		},
		ProcurementProcesses: []catalog.ProcurementProcess{
			{ID: "buy_grain", Resource: "grain"},
			{ID: "buy_flour", Resource: "flour"},
		},
		EntityTypes: []catalog.EntityType{
			{ID: "farm", Storable: []string{"grain"}, LineCapacity: 1, Production: []string{"grow"}},
			{ID: "mill", Storable: []string{"grain", "flour"}, LineCapacity: 2, Production: []string{"grind"}, Procurement: []string{"buy_grain"}},
			{ID: "shop", Storable: []string{"flour"}, Retail: []string{"sell_flour"}, Procurement: []string{"buy_flour"}},
		},
		Locations: []catalog.Location{
			{ID: "A", LocalTransport: 1},
			{ID: "B"},
			{ID: "C", LocalTransport: 1, BaseDemand: map[string]float64{"flour": 3}},
		},
		Corridors: []catalog.Corridor{
			{From: "A", To: "B", Cost: 2, Type: "road"},
			{From: "B", To: "C", Cost: 3, Type: "road"},
		},
		Pricing: catalog.Pricing{
			Base:               map[string]float64{"grain": 2, "flour": 6},
			Retail:             map[string]float64{"flour": 10},
			StorageCostPerUnit: 0.01,
		},
		Contracts: catalog.ContractDefaults{
			WaitTicks:             2,
			PenaltyRate:           0.5,
			CancellationThreshold: 0.25,
			DeliveryInterval:      5,
			Deliveries:            4,
		},
		AI: catalog.Tuning{
			OverstockThreshold: 50,
			ReorderThreshold:   10,
			ReorderQuantity:    20,
			EmergencyThreshold: 3,
			EmergencyQuantity:  5,
			ContractUnits:      10,
			ContractPremium:    0.1,
		},
		Scenario: catalog.Scenario{
			Name: "chain",
			Seed: 7,
			Entities: []catalog.EntitySeed{
				{ID: "farm", Type: "farm", Location: "A", Money: 100, Inventory: map[string]float64{"grain": 20}},
				{ID: "mill", Type: "mill", Location: "B", Money: 100, Suppliers: map[string][]string{"grain": {"farm"}}},
				{ID: "shop", Type: "shop", Location: "C", Money: 100, Suppliers: map[string][]string{"flour": {"mill"}}},
			},
		},
	}
}

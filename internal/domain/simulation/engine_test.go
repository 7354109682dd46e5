package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
	"github.com/andrescamacho/supplychain-go/internal/domain/order"
	"github.com/andrescamacho/supplychain-go/internal/domain/policy"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation/simtest"
)

func newChain(t *testing.T, mutate func(*catalog.Config), opts ...simulation.Option) (*simulation.Engine, *simulation.State) {
	t.Helper()
	engine, state, err := simtest.Chain(mutate, opts...)
	require.NoError(t, err)
	return engine, state
}

func step(t *testing.T, engine *simulation.Engine, s *simulation.State, actions ...simulation.Action) (*simulation.State, *simulation.Report) {
	t.Helper()
	next, report, err := engine.Step(s, actions)
	require.NoError(t, err)
	require.NoError(t, engine.CheckInvariants(next))
	return next, report
}

func idle(t *testing.T, engine *simulation.Engine, s *simulation.State, ticks int) *simulation.State {
	t.Helper()
	for i := 0; i < ticks; i++ {
		s, _ = step(t, engine, s)
	}
	return s
}

func buy(buyer, seller, resource string, quantity, price float64) simulation.Action {
	a := simtest.Act(buyer, simulation.ActionPlaceOrder, resource, quantity)
	a.Counterparty = seller
	a.Price = price
	return a
}

func propose(buyer, seller, resource string, units, price float64) simulation.Action {
	a := simtest.Act(buyer, simulation.ActionProposeContract, resource, units)
	a.Counterparty = seller
	a.Price = price
	return a
}

var manual = simtest.Combine(simtest.PlayerControlled, simtest.Quiet)

func TestStep_LeavesInputUntouched(t *testing.T) {
	engine, s0 := newChain(t, nil)

	s1, _ := step(t, engine, s0)

	assert.Equal(t, 0, s0.Tick)
	assert.Equal(t, 1, s1.Tick)
	assert.Equal(t, 20.0, s0.Entities["farm"].Inventory.Get("grain"))
	assert.Empty(t, s0.Orders)
	assert.Empty(t, s0.Lines)
	assert.NotEmpty(t, s1.Orders)
}

func TestNewState_DefaultEntityIsPlayerControlled(t *testing.T) {
	_, s := newChain(t, func(cfg *catalog.Config) { cfg.Scenario.DefaultEntity = "mill" })

	assert.Equal(t, catalog.PlayerController, s.Entities["mill"].Controller)
	assert.False(t, s.Entities["farm"].IsPlayerControlled())
}

func TestStep_SpotOrderLifecycle(t *testing.T) {
	engine, s := newChain(t, manual)

	s, report := step(t, engine, s, buy("mill", "farm", "grain", 10, 2))
	require.Len(t, s.Orders, 1)
	o := s.Orders[0]
	assert.Equal(t, order.StatusAccepted, o.Status)
	assert.Equal(t, 1, report.Orders.Accepted)
	assert.Equal(t, 10.0, s.Entities["farm"].Committed.Get("grain"), "accepted stock waits a tick before leaving")
	assert.Equal(t, 20.0, s.Entities["farm"].Inventory.Get("grain"))

	s, report = step(t, engine, s)
	assert.Equal(t, order.StatusInTransit, s.Orders[0].Status)
	assert.Equal(t, 1, report.Orders.Departed)
	assert.Equal(t, 10.0, s.Entities["farm"].Inventory.Get("grain"))
	assert.Equal(t, 0.0, s.Entities["farm"].Committed.Get("grain"))
	require.Len(t, s.Deliveries, 1)
	assert.Equal(t, 3, s.Deliveries[0].RemainingTicks)
	assert.Equal(t, []string{"A", "B"}, s.Deliveries[0].Route)

	s = idle(t, engine, s, 2)
	assert.Equal(t, order.StatusInTransit, s.Orders[0].Status)
	assert.Equal(t, 0.0, s.Entities["mill"].Inventory.Get("grain"))

	s, report = step(t, engine, s)
	assert.Equal(t, 5, s.Tick)
	assert.Equal(t, order.StatusDelivered, s.Orders[0].Status)
	assert.Empty(t, s.Deliveries)
	assert.Equal(t, 10.0, s.Entities["mill"].Inventory.Get("grain"))
	assert.Equal(t, 80.0, s.Entities["mill"].Money)
	assert.Equal(t, 120.0, s.Entities["farm"].Money)
	require.Len(t, report.Postings, 2)
	assert.Equal(t, ledger.TransactionTypeOrderPayment, report.Postings[0].Type)
	assert.Equal(t, ledger.TransactionTypeOrderReceipt, report.Postings[1].Type)
}

func TestStep_AcceptancePrefersHigherPrice(t *testing.T) {
	engine, s := newChain(t, simtest.Combine(manual, func(cfg *catalog.Config) {
		cfg.Scenario.Entities[0].Inventory["grain"] = 10
	}))

	s, report := step(t, engine, s,
		buy("mill", "farm", "grain", 10, 5),
		buy("mill", "farm", "grain", 10, 7),
	)

	cheap, _ := s.Order("O000001")
	rich, _ := s.Order("O000002")
	assert.Equal(t, order.StatusDeclined, cheap.Status)
	assert.Equal(t, order.ReasonNoStock, cheap.DeclineReason)
	assert.Equal(t, order.StatusAccepted, rich.Status)
	assert.Equal(t, 10.0, rich.Fulfilled)
	assert.Equal(t, 1, report.Orders.Declined)
}

func TestStep_SwappedFulfillmentPolicy(t *testing.T) {
	engine, s := newChain(t, simtest.Combine(manual, func(cfg *catalog.Config) {
		cfg.Scenario.Entities[0].Inventory["grain"] = 10
	}), simulation.WithPolicies(policy.Set{Fulfillment: policy.NewArrivalOrderFulfillment()}))

	s, _ = step(t, engine, s,
		buy("mill", "farm", "grain", 10, 5),
		buy("mill", "farm", "grain", 10, 7),
	)

	first, _ := s.Order("O000001")
	assert.Equal(t, order.StatusAccepted, first.Status)
}

func TestStep_PartialFulfilment(t *testing.T) {
	engine, s := newChain(t, manual)

	s, report := step(t, engine, s, buy("mill", "farm", "grain", 50, 2))

	o := s.Orders[0]
	assert.Equal(t, 20.0, o.Fulfilled)
	assert.True(t, o.Partial)
	assert.Equal(t, 1, report.Orders.Partial)
}

func TestStep_DeclinesOrdersBelowCostFloor(t *testing.T) {
	engine, s := newChain(t, simtest.Combine(manual, func(cfg *catalog.Config) {
		cfg.Scenario.Entities[1].Inventory = map[string]float64{"flour": 10}
	}))

	s, _ = step(t, engine, s, buy("shop", "mill", "flour", 5, 3))

	assert.Equal(t, order.StatusDeclined, s.Orders[0].Status)
	assert.Equal(t, order.ReasonBelowCostFloor, s.Orders[0].DeclineReason)
	assert.Equal(t, 0.0, s.Entities["mill"].Committed.Get("flour"))
}

func TestStep_ContractPenaltyThenCancellation(t *testing.T) {
	engine, s := newChain(t, manual)

	s, _ = step(t, engine, s, propose("shop", "mill", "flour", 10, 4))
	c, ok := s.Contract("C000001")
	require.True(t, ok)
	assert.Equal(t, contract.StatusProposed, c.Status())

	s, report := step(t, engine, s, simtest.Act("mill", simulation.ActionAcceptContract, "C000001", 0))
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, simulation.RejectProposalTooYoung, report.Rejected[0].Reason)

	s, _ = step(t, engine, s, simtest.Act("mill", simulation.ActionAcceptContract, "C000001", 0))
	c, _ = s.Contract("C000001")
	require.Equal(t, contract.StatusActive, c.Status())
	assert.Equal(t, 8, c.NextDeliveryTick())

	s = idle(t, engine, s, 4)
	s, report = step(t, engine, s)
	assert.Equal(t, 8, s.Tick)
	c, _ = s.Contract("C000001")
	assert.Equal(t, 10.0, c.UnitsMissed())
	assert.Equal(t, 13, c.NextDeliveryTick())
	assert.Equal(t, contract.StatusActive, c.Status(), "a quarter missed is not above the threshold")
	assert.Equal(t, 20.0, report.Contracts.Penalties)
	assert.Equal(t, 80.0, s.Entities["mill"].Money)
	assert.Equal(t, 120.0, s.Entities["shop"].Money)

	s = idle(t, engine, s, 4)
	s, report = step(t, engine, s)
	c, _ = s.Contract("C000001")
	assert.Equal(t, contract.StatusCancelled, c.Status())
	assert.Equal(t, contract.ReasonMissedThreshold, c.Reason())
	assert.Equal(t, 1, report.Contracts.Cancelled)
	assert.Contains(t, report.ChangedContracts, "C000001")
	assert.Equal(t, 60.0, s.Entities["mill"].Money)
}

// declineAll turns down every proposal it is shown, whatever its age
type declineAll struct{}

func (declineAll) Propose(*entity.Entity, catalog.EntityType, policy.View) []policy.ProposalIntent {
	return nil
}

func (declineAll) Evaluate(e *entity.Entity, _ catalog.EntityType, view policy.View) []policy.EvaluationDecision {
	var decisions []policy.EvaluationDecision
	for _, c := range view.ProposalsFor(e.ID) {
		decisions = append(decisions, policy.EvaluationDecision{ContractID: c.ID(), Reason: "not interested"})
	}
	return decisions
}

func TestStep_ProposalsAreNotEvaluatedBeforeTheWait(t *testing.T) {
	t.Run("decline action", func(t *testing.T) {
		engine, s := newChain(t, manual)
		decline := simtest.Act("mill", simulation.ActionDeclineContract, "C000001", 0)

		s, _ = step(t, engine, s, propose("shop", "mill", "flour", 10, 4))
		s, report := step(t, engine, s, decline)
		require.Len(t, report.Rejected, 1)
		assert.Equal(t, simulation.RejectProposalTooYoung, report.Rejected[0].Reason)
		c, _ := s.Contract("C000001")
		assert.Equal(t, contract.StatusProposed, c.Status())

		s, report = step(t, engine, s, decline)
		assert.Empty(t, report.Rejected)
		c, _ = s.Contract("C000001")
		assert.Equal(t, contract.StatusCancelled, c.Status())
		assert.Equal(t, contract.ReasonDeclinedByOwner, c.Reason())
	})

	t.Run("decision module", func(t *testing.T) {
		engine, s := newChain(t, simtest.Combine(manual, func(cfg *catalog.Config) {
			cfg.Scenario.Entities[1].Controller = ""
		}), simulation.WithPolicies(policy.Set{Contract: declineAll{}}))

		s, _ = step(t, engine, s, propose("shop", "mill", "flour", 10, 4))
		s, report := step(t, engine, s)
		assert.Zero(t, report.Contracts.Declined)
		c, _ := s.Contract("C000001")
		assert.Equal(t, contract.StatusProposed, c.Status())

		s, report = step(t, engine, s)
		assert.Equal(t, 1, report.Contracts.Declined)
		c, _ = s.Contract("C000001")
		assert.Equal(t, contract.StatusCancelled, c.Status())
		assert.Equal(t, "not interested", c.Reason())
	})
}

func TestStep_ManualAcceptFollowsEvaluationRules(t *testing.T) {
	secondShop := func(cfg *catalog.Config) {
		cfg.Scenario.Entities = append(cfg.Scenario.Entities, catalog.EntitySeed{
			ID: "shop2", Type: "shop", Location: "C", Money: 100,
		})
	}
	accept := func(id string) simulation.Action {
		return simtest.Act("mill", simulation.ActionAcceptContract, id, 0)
	}

	t.Run("below cost floor", func(t *testing.T) {
		engine, s := newChain(t, manual)

		s, _ = step(t, engine, s, propose("shop", "mill", "flour", 10, 0.01))
		s = idle(t, engine, s, 1)
		s, report := step(t, engine, s, accept("C000001"))

		require.Len(t, report.Rejected, 1)
		assert.Equal(t, simulation.RejectBelowCostFloor, report.Rejected[0].Reason)
		c, _ := s.Contract("C000001")
		assert.Equal(t, contract.StatusProposed, c.Status())
	})

	t.Run("one acceptance per resource and tick", func(t *testing.T) {
		engine, s := newChain(t, simtest.Combine(secondShop, manual))

		s, _ = step(t, engine, s,
			propose("shop", "mill", "flour", 10, 5),
			propose("shop2", "mill", "flour", 10, 6),
		)
		s = idle(t, engine, s, 1)
		s, report := step(t, engine, s, accept("C000002"), accept("C000001"))

		require.Len(t, report.Rejected, 1)
		assert.Equal(t, "C000001", report.Rejected[0].Action.Target)
		assert.Equal(t, simulation.RejectAlreadyAccepted, report.Rejected[0].Reason)
		first, _ := s.Contract("C000001")
		second, _ := s.Contract("C000002")
		assert.Equal(t, contract.StatusProposed, first.Status())
		assert.Equal(t, contract.StatusActive, second.Status())

		s, report = step(t, engine, s, accept("C000001"))
		assert.Empty(t, report.Rejected)
		first, _ = s.Contract("C000001")
		assert.Equal(t, contract.StatusActive, first.Status())
	})
}

func TestStep_ContractDeliveryShipsStock(t *testing.T) {
	engine, s := newChain(t, simtest.Combine(manual, func(cfg *catalog.Config) {
		cfg.Scenario.Entities[1].Inventory = map[string]float64{"flour": 30}
	}))

	s, _ = step(t, engine, s, propose("shop", "mill", "flour", 10, 4))
	s = idle(t, engine, s, 1)
	s, _ = step(t, engine, s, simtest.Act("mill", simulation.ActionAcceptContract, "C000001", 0))
	s = idle(t, engine, s, 4)

	s, report := step(t, engine, s)
	assert.Equal(t, 1, report.Contracts.Deliveries)
	var injected *order.Order
	for _, o := range s.Orders {
		if o.ContractID == "C000001" {
			injected = o
		}
	}
	require.NotNil(t, injected)
	assert.Equal(t, order.StatusAccepted, injected.Status)
	assert.Equal(t, 4.0, injected.Price)
	assert.Equal(t, 10.0, s.Entities["mill"].Committed.Get("flour"))

	s = idle(t, engine, s, 5)
	assert.Equal(t, 13, s.Tick)
	assert.Equal(t, order.StatusAccepted, injected.Status, "earlier states are never mutated")
	delivered, _ := s.Order(injected.ID)
	assert.Equal(t, order.StatusDelivered, delivered.Status)
	assert.Equal(t, 10.0, s.Entities["shop"].Inventory.Get("flour"))
	assert.Equal(t, 60.0, s.Entities["shop"].Money)
	c, _ := s.Contract("C000001")
	assert.Equal(t, 20.0, c.UnitsShipped(), "the second delivery fell due on tick 13")
}

func TestStep_RejectsInvalidActions(t *testing.T) {
	withParty := func(a simulation.Action, party string) simulation.Action {
		a.Party = party
		return a
	}
	tests := []struct {
		name   string
		action simulation.Action
		reason string
	}{
		{"unknown entity", simtest.Act("ghost", simulation.ActionStartLine, "grow", 1), simulation.RejectUnknownEntity},
		{"foreign party", withParty(simtest.Act("farm", simulation.ActionStartLine, "grow", 1), "intruder"), simulation.RejectNotController},
		{"ineligible process", simtest.Act("farm", simulation.ActionStartLine, "grind", 1), simulation.RejectNotEligible},
		{"unknown process", simtest.Act("farm", simulation.ActionStartLine, "bake", 1), simulation.RejectUnknownTarget},
		{"volume too high", simtest.Act("farm", simulation.ActionStartLine, "grow", 9), simulation.RejectOutOfBounds},
		{"unknown line", simtest.Act("farm", simulation.ActionStopLine, "L999999", 0), simulation.RejectUnknownTarget},
		{"unknown resource", simtest.Act("mill", simulation.ActionPlaceOrder, "water", 1), simulation.RejectUnknownTarget},
		{"zero quantity", simtest.Act("mill", simulation.ActionPlaceOrder, "grain", 0), simulation.RejectOutOfBounds},
		{"buyer cannot store", buy("farm", "mill", "flour", 1, 6), simulation.RejectNotEligible},
		{"no supplier", simtest.Act("farm", simulation.ActionPlaceOrder, "grain", 1), simulation.RejectNoSupplier},
		{"unknown contract", simtest.Act("mill", simulation.ActionAcceptContract, "C999999", 0), simulation.RejectUnknownTarget},
		{"unknown kind", simtest.Act("mill", simulation.ActionKind("teleport"), "x", 0), simulation.RejectUnknownTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, s := newChain(t, manual)

			next, report := step(t, engine, s, tt.action)

			require.Len(t, report.Rejected, 1)
			assert.Equal(t, tt.reason, report.Rejected[0].Reason)
			assert.Empty(t, next.Lines)
			assert.Empty(t, next.Orders)
			assert.Empty(t, next.Contracts)
		})
	}
}

func TestStep_AutonomousEntitiesIgnorePlayerActions(t *testing.T) {
	engine, s := newChain(t, nil)

	_, report := step(t, engine, s, simtest.Act("farm", simulation.ActionStartLine, "grow", 1))

	require.Len(t, report.Rejected, 1)
	assert.Equal(t, simulation.RejectNotController, report.Rejected[0].Reason)
}

func TestStep_LineActions(t *testing.T) {
	engine, s := newChain(t, manual)

	s, _ = step(t, engine, s, simtest.Act("farm", simulation.ActionStartLine, "grow", 2))
	require.Len(t, s.Lines, 1)
	line := s.Lines[0]
	assert.Equal(t, "L000001", line.ID)
	assert.Equal(t, production.PhaseRunning, line.Phase)
	assert.Equal(t, 20.0, s.Entities["farm"].Inventory.Get("grain"))

	s, report := step(t, engine, s, simtest.Act("farm", simulation.ActionSetVolume, "L000001", 3))
	assert.Equal(t, 24.0, s.Entities["farm"].Inventory.Get("grain"))
	assert.Equal(t, 1, report.LineOutcomes[production.OutcomeCycleCompleted])

	s, _ = step(t, engine, s,
		simtest.Act("farm", simulation.ActionStopLine, "L000001", 0),
		simtest.Act("farm", simulation.ActionStartLine, "grow", 1),
	)
	assert.Equal(t, 30.0, s.Entities["farm"].Inventory.Get("grain"))
	require.Len(t, s.Lines, 1, "the freed slot was reused")
	assert.Equal(t, "L000002", s.Lines[0].ID)

	s, report = step(t, engine, s,
		simtest.Act("farm", simulation.ActionStartLine, "grow", 1),
	)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, simulation.RejectCapacity, report.Rejected[0].Reason)
	assert.Equal(t, 32.0, s.Entities["farm"].Inventory.Get("grain"))
}

func TestStep_NegativeBalanceOnlyWarns(t *testing.T) {
	engine, s := newChain(t, func(cfg *catalog.Config) {
		cfg.Scenario.Entities[0].Money = 0
		cfg.Pricing.StorageCostPerUnit = 1
	})

	s, report := step(t, engine, s)

	assert.Less(t, s.Entities["farm"].Money, 0.0)
	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, "farm", report.Warnings[0].EntityID)

	s, report = step(t, engine, s)
	assert.Equal(t, 2, s.Tick, "an insolvent entity does not stop the run")
	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, "farm", report.Warnings[0].EntityID)
	assert.Less(t, report.Warnings[0].Balance, 0.0)
}

func TestStep_PrunesTerminalRecords(t *testing.T) {
	engine, s := newChain(t, manual, simulation.WithRetention(2))

	s, _ = step(t, engine, s, buy("shop", "mill", "flour", 5, 6))
	require.Equal(t, order.StatusDeclined, s.Orders[0].Status)

	s = idle(t, engine, s, 1)
	assert.Len(t, s.Orders, 1)
	s = idle(t, engine, s, 1)
	assert.Empty(t, s.Orders)
}

func totals(s *simulation.State) shared.Stock {
	total := shared.Stock{}
	for _, e := range s.Entities {
		for r, q := range e.Inventory {
			total.Add(r, q)
		}
	}
	for _, d := range s.Deliveries {
		total.Add(d.Resource, d.Quantity)
	}
	return total
}

func money(s *simulation.State) float64 {
	sum := 0.0
	for _, e := range s.Entities {
		sum += e.Money
	}
	return sum
}

func TestStep_AutonomousChainConservesMassAndMoney(t *testing.T) {
	engine, s := newChain(t, nil)
	sold := 0.0
	activated := 0

	for i := 0; i < 60; i++ {
		next, report := step(t, engine, s)

		before, after := totals(s), totals(next)
		for _, r := range []string{"grain", "flour"} {
			expected := before.Get(r) + report.Produced.Get(r) - report.Consumed.Get(r) - report.Sold.Get(r)
			assert.InDelta(t, expected, after.Get(r), 1e-6, "tick %d resource %s", next.Tick, r)
		}

		external := 0.0
		for _, p := range report.Postings {
			if p.Type == ledger.TransactionTypeRetailSale || p.Type == ledger.TransactionTypeStorageCost {
				external += p.Amount
			}
		}
		assert.InDelta(t, money(s)+external, money(next), 1e-6, "tick %d", next.Tick)

		sold += report.Sold.Get("flour")
		activated += report.Contracts.Activated
		s = next
	}

	assert.Greater(t, sold, 0.0, "flour reaches the shop and sells")
	assert.Greater(t, activated, 0)
}

func TestStep_Deterministic(t *testing.T) {
	engine, s := newChain(t, func(cfg *catalog.Config) {
		cfg.Locations[2].Variance = 0.3
		cfg.Locations[2].Phases = []catalog.DemandPhase{
			{Name: "low", Ticks: 3, Multiplier: 0.5},
			{Name: "high", Ticks: 2, Multiplier: 2},
		}
	})

	a, _, err := simtest.Run(engine, s, 40)
	require.NoError(t, err)
	b, _, err := simtest.Run(engine, s, 40)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func retailSetup(cfg *catalog.Config) {
	simtest.PlayerControlled(cfg)
	cfg.Pricing.StorageCostPerUnit = 0.5
	cfg.Scenario.Entities = append(cfg.Scenario.Entities, catalog.EntitySeed{
		ID: "shop2", Type: "shop", Location: "C", Money: 100,
	})
}

func postedBy(report *simulation.Report, entityID string, typ ledger.TransactionType) float64 {
	var total float64
	for _, p := range report.Postings {
		if p.EntityID == entityID && p.Type == typ {
			total += p.Amount
		}
	}
	return total
}

func TestStep_RetailSellsOnlyAvailableStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     float64
		committed float64
		sold      float64
	}{
		{name: "demand exceeds stock", stock: 2, sold: 2},
		{name: "stock exceeds demand", stock: 5, sold: 3},
		{name: "committed stock is held back", stock: 5, committed: 4, sold: 1},
		{name: "everything committed", stock: 4, committed: 4, sold: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, s := newChain(t, retailSetup)
			shop := s.Entities["shop"]
			shop.Inventory.Add("flour", tt.stock)
			shop.Committed.Add("flour", tt.committed)

			s, report := step(t, engine, s)

			assert.InDelta(t, tt.sold, report.Sold.Get("flour"), 1e-9)
			assert.InDelta(t, tt.stock-tt.sold, s.Entities["shop"].Inventory.Get("flour"), 1e-9)
			assert.InDelta(t, tt.committed, s.Entities["shop"].Committed.Get("flour"), 1e-9)
			assert.InDelta(t, tt.sold*10, postedBy(report, "shop", ledger.TransactionTypeRetailSale), 1e-9)
		})
	}
}

func TestStep_StorageChargesHeldStockIncludingCommitted(t *testing.T) {
	engine, s := newChain(t, retailSetup)
	mill := s.Entities["mill"]
	mill.Inventory.Add("grain", 6)
	mill.Inventory.Add("flour", 4)
	mill.Committed.Add("flour", 3)

	s, report := step(t, engine, s)

	assert.InDelta(t, -0.5*10, postedBy(report, "mill", ledger.TransactionTypeStorageCost), 1e-9)
	assert.InDelta(t, -0.5*20, postedBy(report, "farm", ledger.TransactionTypeStorageCost), 1e-9)
	assert.Zero(t, postedBy(report, "shop", ledger.TransactionTypeStorageCost), "nothing held, nothing charged")
	assert.InDelta(t, 95.0, s.Entities["mill"].Money, 1e-9)
}

func TestStep_RetailersShareLocationDemand(t *testing.T) {
	tests := []struct {
		name        string
		shop, shop2 float64
		sold, sold2 float64
	}{
		{name: "first retailer covers demand", shop: 5, shop2: 5, sold: 3, sold2: 0},
		{name: "second retailer serves the rest", shop: 2, shop2: 5, sold: 2, sold2: 1},
		{name: "only the second retailer has stock", shop: 0, shop2: 5, sold: 0, sold2: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, s := newChain(t, retailSetup)
			s.Entities["shop"].Inventory.Add("flour", tt.shop)
			s.Entities["shop2"].Inventory.Add("flour", tt.shop2)

			s, report := step(t, engine, s)

			assert.InDelta(t, tt.sold+tt.sold2, report.Sold.Get("flour"), 1e-9)
			assert.InDelta(t, tt.shop-tt.sold, s.Entities["shop"].Inventory.Get("flour"), 1e-9)
			assert.InDelta(t, tt.shop2-tt.sold2, s.Entities["shop2"].Inventory.Get("flour"), 1e-9)
			for i := 1; i < len(report.Sales); i++ {
				assert.Less(t, report.Sales[i-1].EntityID, report.Sales[i].EntityID)
			}
		})
	}
}

func TestStep_ArrivalsAreSoldInTheSameTick(t *testing.T) {
	engine, s := newChain(t, simtest.Combine(simtest.PlayerControlled, func(cfg *catalog.Config) {
		cfg.Pricing.StorageCostPerUnit = 0
		cfg.Scenario.Entities[1].Inventory = map[string]float64{"flour": 5}
	}))

	s, _ = step(t, engine, s, buy("shop", "mill", "flour", 5, 6))

	var report *simulation.Report
	for i := 0; i < 10; i++ {
		s, report = step(t, engine, s)
		if report.Orders.Delivered > 0 {
			break
		}
		require.Zero(t, report.Sold.Get("flour"), "tick %d sold before anything arrived", s.Tick)
	}

	require.Equal(t, 1, report.Orders.Delivered)
	assert.Equal(t, 3.0, report.Sold.Get("flour"))
	assert.Equal(t, 2.0, s.Entities["shop"].Inventory.Get("flour"))
	assert.InDelta(t, 100.0, s.Entities["shop"].Money, 1e-9, "paid 30 for the order, earned 30 at retail")
}

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation/simtest"
)

func handmadeTick() (*simulation.State, *simulation.Report) {
	state := &simulation.State{
		Tick: 3,
		Entities: map[string]*entity.Entity{
			"mill": {ID: "mill", Inventory: shared.Stock{"flour": 12}, Committed: shared.Stock{}, Money: 250},
			"shop": {ID: "shop", Inventory: shared.Stock{"bread": 4}, Committed: shared.Stock{}, Money: -5},
		},
	}
	report := &simulation.Report{
		Tick:         3,
		LineOutcomes: map[production.Outcome]int{production.OutcomeAdvanced: 2, production.OutcomeStalled: 1},
		Orders:       simulation.OrderCounters{Placed: 2, Accepted: 1, Declined: 1},
		Contracts:    simulation.ContractCounters{Misses: 1, MissedUnits: 5, Penalties: 7.5},
		Sales: []simulation.Sale{
			{EntityID: "shop", LocationID: "town", Resource: "bread", Quantity: 3, Revenue: 18},
		},
		Rejected: []simulation.Rejection{
			{Action: simulation.Action{Kind: simulation.ActionPlaceOrder}, Reason: "unknown seller"},
		},
		Warnings: []simulation.Warning{{EntityID: "shop", Message: "negative balance", Balance: -5}},
	}
	return state, report
}

func TestSimulationMetrics_RecordTick(t *testing.T) {
	InitRegistry()
	defer func() { Registry = nil }()

	c := NewSimulationMetricsCollector()
	require.NoError(t, c.Register())

	state, report := handmadeTick()
	c.RecordTick("run-1", state, report, 2*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.currentTick.WithLabelValues("run-1")))
	assert.Equal(t, 250.0, testutil.ToFloat64(c.entityBalance.WithLabelValues("mill")))
	assert.Equal(t, -5.0, testutil.ToFloat64(c.entityBalance.WithLabelValues("shop")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.entityInventory.WithLabelValues("mill", "flour")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ordersTotal.WithLabelValues("placed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ordersTotal.WithLabelValues("declined")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lineOutcomes.WithLabelValues("advanced")))
	assert.Equal(t, 18.0, testutil.ToFloat64(c.retailRevenue.WithLabelValues("town", "bread")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejectedActions.WithLabelValues("place_order")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.warningsTotal))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.contractMissedUnits))
	assert.Equal(t, 7.5, testutil.ToFloat64(c.contractPenalties))
	assert.Equal(t, 1, testutil.CollectAndCount(c.tickDuration))

	// counters accumulate across ticks
	c.RecordTick("run-1", state, report, time.Millisecond)
	assert.Equal(t, 4.0, testutil.ToFloat64(c.ordersTotal.WithLabelValues("placed")))
	assert.Equal(t, 15.0, testutil.ToFloat64(c.contractPenalties))
}

func TestSimulationMetrics_FollowsEngine(t *testing.T) {
	c := NewSimulationMetricsCollector()

	engine, state, err := simtest.Chain(nil)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		next, report, err := engine.Step(state, nil)
		require.NoError(t, err)
		c.RecordTick("run-2", next, report, time.Microsecond)
		state = next
	}

	assert.Equal(t, 25.0, testutil.ToFloat64(c.currentTick.WithLabelValues("run-2")))
	for id, e := range state.Entities {
		assert.InDelta(t, e.Money, testutil.ToFloat64(c.entityBalance.WithLabelValues(id)), 1e-9, id)
	}

	total := 0.0
	for _, status := range []string{"proposed", "active", "completed", "cancelled"} {
		total += testutil.ToFloat64(c.contractsByStatus.WithLabelValues(status))
	}
	assert.Equal(t, float64(len(state.Contracts)), total)
}

func TestRegister_WithoutRegistryIsNoOp(t *testing.T) {
	Registry = nil
	assert.NoError(t, NewSimulationMetricsCollector().Register())
	assert.NoError(t, NewCommandMetricsCollector().Register())
	assert.False(t, IsEnabled())
}

type pingQuery struct{}

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	collector := NewCommandMetricsCollector()
	m := mediator.NewMediator()
	m.Use(PrometheusMiddleware(collector))

	calls := 0
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, mediator.HandlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			calls++
			switch calls {
			case 1:
				assert.Equal(t, 1.0, testutil.ToFloat64(collector.inFlight))
				return "pong", nil
			case 2:
				return nil, errors.New("boom")
			default:
				return nil, fmt.Errorf("aborted: %w", context.Canceled)
			}
		})))

	resp, err := m.Send(context.Background(), &pingQuery{})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp)

	_, err = m.Send(context.Background(), &pingQuery{})
	require.Error(t, err)
	_, err = m.Send(context.Background(), &pingQuery{})
	require.Error(t, err)

	for _, outcome := range []string{"success", "error", "cancelled"} {
		assert.Equal(t, 1.0, testutil.ToFloat64(collector.total.WithLabelValues("pingQuery", outcome)), outcome)
	}
	assert.Zero(t, testutil.ToFloat64(collector.inFlight))
}

func TestServe_RequiresRegistry(t *testing.T) {
	Registry = nil
	err := Serve(context.Background(), "localhost:0", "/metrics")
	assert.ErrorContains(t, err, "not initialized")
}

package simulation_test

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/supplychain-go/internal/domain/order"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation/simtest"
)

var statusRank = map[order.Status]int{
	order.StatusPending:   0,
	order.StatusAccepted:  1,
	order.StatusInTransit: 2,
	order.StatusDelivered: 3,
	order.StatusDeclined:  3,
}

type tickContext struct {
	engine  *simulation.Engine
	state   *simulation.State
	pending []simulation.Action
	last    *simulation.Report

	massErrors      []string
	invariantErrors []string
	regressions     []string
	ranks           map[string]int
	sold            map[string]float64
}

func (c *tickContext) reset() {
	c.engine = nil
	c.state = nil
	c.pending = nil
	c.last = nil
	c.massErrors = nil
	c.invariantErrors = nil
	c.regressions = nil
	c.ranks = make(map[string]int)
	c.sold = make(map[string]float64)
}

func (c *tickContext) aManualSupplyChain() error {
	engine, state, err := simtest.Chain(manual)
	if err != nil {
		return err
	}
	c.engine, c.state = engine, state
	return nil
}

func (c *tickContext) anAutonomousSupplyChain() error {
	engine, state, err := simtest.Chain(nil)
	if err != nil {
		return err
	}
	c.engine, c.state = engine, state
	return nil
}

func (c *tickContext) entityHolds(entityID string, quantity float64, resource string) error {
	e, ok := c.state.Entities[entityID]
	if !ok {
		return fmt.Errorf("unknown entity %s", entityID)
	}
	e.Inventory[resource] = quantity
	return nil
}

func (c *tickContext) entityOrders(buyer string, quantity float64, resource, seller string, price float64) error {
	c.pending = append(c.pending, buy(buyer, seller, resource, quantity, price))
	return nil
}

func (c *tickContext) entityProposes(buyer string, units float64, resource, seller string, price float64) error {
	c.pending = append(c.pending, propose(buyer, seller, resource, units, price))
	return nil
}

func (c *tickContext) entityAcceptsContract(entityID, contractID string) error {
	c.pending = append(c.pending, simtest.Act(entityID, simulation.ActionAcceptContract, contractID, 0))
	return nil
}

func (c *tickContext) entityDeclinesContract(entityID, contractID string) error {
	c.pending = append(c.pending, simtest.Act(entityID, simulation.ActionDeclineContract, contractID, 0))
	return nil
}

func (c *tickContext) entityStartsLine(entityID, processID string, volume float64) error {
	c.pending = append(c.pending, simtest.Act(entityID, simulation.ActionStartLine, processID, volume))
	return nil
}

func (c *tickContext) ticksPass(n int) error {
	for i := 0; i < n; i++ {
		next, report, err := c.engine.Step(c.state, c.pending)
		if err != nil {
			return err
		}
		c.pending = nil
		c.observe(c.state, next, report)
		c.state, c.last = next, report
	}
	return nil
}

func (c *tickContext) observe(prev, next *simulation.State, report *simulation.Report) {
	before, after := totals(prev), totals(next)
	for _, r := range c.engine.Config().Resources {
		expected := before.Get(r.ID) + report.Produced.Get(r.ID) - report.Consumed.Get(r.ID) - report.Sold.Get(r.ID)
		if math.Abs(expected-after.Get(r.ID)) > 1e-6 {
			c.massErrors = append(c.massErrors, fmt.Sprintf("tick %d %s: expected %.4f, got %.4f", next.Tick, r.ID, expected, after.Get(r.ID)))
		}
	}

	if err := c.engine.CheckInvariants(next); err != nil {
		c.invariantErrors = append(c.invariantErrors, err.Error())
	}

	for _, o := range next.Orders {
		rank := statusRank[o.Status]
		if previous, seen := c.ranks[o.ID]; seen && rank < previous {
			c.regressions = append(c.regressions, fmt.Sprintf("tick %d order %s moved back to %s", next.Tick, o.ID, o.Status))
		}
		c.ranks[o.ID] = rank
	}

	for _, sale := range report.Sales {
		c.sold[sale.EntityID+"/"+sale.Resource] += sale.Quantity
	}
}

func (c *tickContext) orderIs(id, status string) error {
	o, ok := c.state.Order(id)
	if !ok {
		return fmt.Errorf("order %s not found", id)
	}
	if string(o.Status) != status {
		return fmt.Errorf("order %s is %s, expected %s", id, o.Status, status)
	}
	return nil
}

func (c *tickContext) orderWasDeclinedWith(id, reason string) error {
	if err := c.orderIs(id, string(order.StatusDeclined)); err != nil {
		return err
	}
	o, _ := c.state.Order(id)
	if o.DeclineReason != reason {
		return fmt.Errorf("order %s declined with %q, expected %q", id, o.DeclineReason, reason)
	}
	return nil
}

func (c *tickContext) entityHasInStock(entityID string, quantity float64, resource string) error {
	got := c.state.Entities[entityID].Inventory.Get(resource)
	if math.Abs(got-quantity) > 1e-9 {
		return fmt.Errorf("%s holds %.4f %s, expected %.4f", entityID, got, resource, quantity)
	}
	return nil
}

func (c *tickContext) entityHasCommitted(entityID string, quantity float64, resource string) error {
	got := c.state.Entities[entityID].Committed.Get(resource)
	if math.Abs(got-quantity) > 1e-9 {
		return fmt.Errorf("%s committed %.4f %s, expected %.4f", entityID, got, resource, quantity)
	}
	return nil
}

func (c *tickContext) entityHasBalance(entityID string, amount float64) error {
	got := c.state.Entities[entityID].Money
	if math.Abs(got-amount) > 1e-9 {
		return fmt.Errorf("%s has a balance of %.4f, expected %.4f", entityID, got, amount)
	}
	return nil
}

// balancesAre checks every | entity | balance | row
func (c *tickContext) balancesAre(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		entityID := cellValue(table, row, "entity")
		amount, err := strconv.ParseFloat(cellValue(table, row, "balance"), 64)
		if err != nil {
			return fmt.Errorf("balance for %s: %w", entityID, err)
		}
		if err := c.entityHasBalance(entityID, amount); err != nil {
			return err
		}
	}
	return nil
}

// cellValue looks a cell up by the header in the first table row
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (c *tickContext) contractIs(id, status string) error {
	k, ok := c.state.Contract(id)
	if !ok {
		return fmt.Errorf("contract %s not found", id)
	}
	if string(k.Status()) != status {
		return fmt.Errorf("contract %s is %s, expected %s", id, k.Status(), status)
	}
	return nil
}

func (c *tickContext) lastTickChargedPenalties(amount float64) error {
	if math.Abs(c.last.Contracts.Penalties-amount) > 1e-9 {
		return fmt.Errorf("penalties were %.4f, expected %.4f", c.last.Contracts.Penalties, amount)
	}
	return nil
}

func (c *tickContext) lastTickRejected(reason string) error {
	for _, r := range c.last.Rejected {
		if r.Reason == reason {
			return nil
		}
	}
	return fmt.Errorf("no action rejected with %q: %v", reason, c.last.Rejected)
}

func (c *tickContext) lineMadeNoProgress(id string) error {
	line, ok := c.state.Line(id)
	if !ok {
		return fmt.Errorf("line %s not found", id)
	}
	if line.Progress != 0 {
		return fmt.Errorf("line %s progressed to %d", id, line.Progress)
	}
	return nil
}

func (c *tickContext) everyTickConservedMass() error {
	if len(c.massErrors) > 0 {
		return fmt.Errorf("mass not conserved: %s", strings.Join(c.massErrors, "; "))
	}
	return nil
}

func (c *tickContext) committedNeverExceededInventory() error {
	if len(c.invariantErrors) > 0 {
		return fmt.Errorf("invariants broken: %s", strings.Join(c.invariantErrors, "; "))
	}
	return nil
}

func (c *tickContext) noOrderMovedBackwards() error {
	if len(c.regressions) > 0 {
		return fmt.Errorf("%s", strings.Join(c.regressions, "; "))
	}
	return nil
}

func (c *tickContext) entitySoldSome(entityID, resource string) error {
	if c.sold[entityID+"/"+resource] <= 0 {
		return fmt.Errorf("%s sold no %s", entityID, resource)
	}
	return nil
}

func (c *tickContext) routeTakes(from, to string, ticks int, path string) error {
	route, err := c.engine.Route(from, to)
	if err != nil {
		return err
	}
	if route.Ticks != ticks {
		return fmt.Errorf("route takes %d ticks, expected %d", route.Ticks, ticks)
	}
	if got := strings.Join(route.Path, ","); got != path {
		return fmt.Errorf("route goes via %s, expected %s", got, path)
	}
	return nil
}

// InitializeTickScenario registers the tick engine step definitions
func InitializeTickScenario(ctx *godog.ScenarioContext) {
	tickCtx := &tickContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tickCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^a manual supply chain$`, tickCtx.aManualSupplyChain)
	ctx.Step(`^an autonomous supply chain$`, tickCtx.anAutonomousSupplyChain)
	ctx.Step(`^"([^"]*)" holds (\d+(?:\.\d+)?) "([^"]*)"$`, tickCtx.entityHolds)
	ctx.Step(`^"([^"]*)" orders (\d+(?:\.\d+)?) "([^"]*)" from "([^"]*)" at (\d+(?:\.\d+)?)$`, tickCtx.entityOrders)
	ctx.Step(`^"([^"]*)" proposes (\d+(?:\.\d+)?) "([^"]*)" per delivery from "([^"]*)" at (\d+(?:\.\d+)?)$`, tickCtx.entityProposes)
	ctx.Step(`^"([^"]*)" accepts contract "([^"]*)"$`, tickCtx.entityAcceptsContract)
	ctx.Step(`^"([^"]*)" declines contract "([^"]*)"$`, tickCtx.entityDeclinesContract)
	ctx.Step(`^"([^"]*)" starts line "([^"]*)" at volume (\d+(?:\.\d+)?)$`, tickCtx.entityStartsLine)
	ctx.Step(`^(\d+) ticks? pass(?:es)?$`, tickCtx.ticksPass)
	ctx.Step(`^order "([^"]*)" is "([^"]*)"$`, tickCtx.orderIs)
	ctx.Step(`^order "([^"]*)" was declined with "([^"]*)"$`, tickCtx.orderWasDeclinedWith)
	ctx.Step(`^"([^"]*)" has (\d+(?:\.\d+)?) "([^"]*)" in stock$`, tickCtx.entityHasInStock)
	ctx.Step(`^"([^"]*)" has (\d+(?:\.\d+)?) "([^"]*)" committed$`, tickCtx.entityHasCommitted)
	ctx.Step(`^"([^"]*)" has a balance of (\d+(?:\.\d+)?)$`, tickCtx.entityHasBalance)
	ctx.Step(`^the balances are:$`, tickCtx.balancesAre)
	ctx.Step(`^contract "([^"]*)" is "([^"]*)"$`, tickCtx.contractIs)
	ctx.Step(`^the last tick charged (\d+(?:\.\d+)?) in penalties$`, tickCtx.lastTickChargedPenalties)
	ctx.Step(`^the last tick rejected an action with "([^"]*)"$`, tickCtx.lastTickRejected)
	ctx.Step(`^line "([^"]*)" has made no progress$`, tickCtx.lineMadeNoProgress)
	ctx.Step(`^every tick conserved mass$`, tickCtx.everyTickConservedMass)
	ctx.Step(`^committed stock never exceeded inventory$`, tickCtx.committedNeverExceededInventory)
	ctx.Step(`^no order ever moved backwards$`, tickCtx.noOrderMovedBackwards)
	ctx.Step(`^"([^"]*)" sold some "([^"]*)"$`, tickCtx.entitySoldSome)
	ctx.Step(`^the route from "([^"]*)" to "([^"]*)" takes (\d+) ticks via "([^"]*)"$`, tickCtx.routeTakes)
}

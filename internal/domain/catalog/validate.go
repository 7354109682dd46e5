package catalog

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Validate indexes the configuration and rejects dangling references and
// numeric ranges the engine cannot simulate. Every problem found is reported,
// joined into a single error. Network connectivity is checked separately by
// the routing package when the all-pairs table is built.
func (c *Config) Validate() error {
	var errs []error
	fail := func(section, ref, format string, args ...any) {
		errs = append(errs, shared.NewConfigurationError(section, ref, fmt.Sprintf(format, args...)))
	}

	c.resources = make(map[string]Resource, len(c.Resources))
	for _, r := range c.Resources {
		if _, dup := c.resources[r.ID]; dup {
			fail("resource", r.ID, "duplicate id")
		}
		c.resources[r.ID] = r
	}
	knownResource := func(section, ref, resource string) {
		if _, ok := c.resources[resource]; !ok {
			fail(section, ref, "unknown resource %q", resource)
		}
	}

	c.processes = make(map[string]ProcessDefinition, len(c.Processes))
	for _, p := range c.Processes {
		if _, dup := c.processes[p.ID]; dup {
			fail("process", p.ID, "duplicate id")
		}
		c.processes[p.ID] = p
		if p.CycleTicks < 1 {
			fail("process", p.ID, "cycle_ticks must be at least 1")
		}
		if p.StartupTicks < 0 {
			fail("process", p.ID, "startup_ticks cannot be negative")
		}
		if p.MinVolume <= 0 || p.MaxVolume < p.MinVolume {
			fail("process", p.ID, "volume bounds [%g, %g] are invalid", p.MinVolume, p.MaxVolume)
		}
		if len(p.Outputs) == 0 {
			fail("process", p.ID, "at least one output is required")
		}
		for _, list := range [][]shared.Amount{p.StartupInputs, p.CycleInputs, p.TickInputs, p.Outputs} {
			for _, a := range list {
				knownResource("process", p.ID, a.Resource)
				if a.Quantity <= 0 {
					fail("process", p.ID, "quantity of %q must be positive", a.Resource)
				}
			}
		}
	}

	c.retail = make(map[string]RetailProcess, len(c.RetailProcesses))
	for _, p := range c.RetailProcesses {
		c.retail[p.ID] = p
		knownResource("retail process", p.ID, p.Resource)
	}
	c.procurement = make(map[string]ProcurementProcess, len(c.ProcurementProcesses))
	for _, p := range c.ProcurementProcesses {
		c.procurement[p.ID] = p
		knownResource("procurement process", p.ID, p.Resource)
	}

	c.entityTypes = make(map[string]EntityType, len(c.EntityTypes))
	for _, t := range c.EntityTypes {
		if _, dup := c.entityTypes[t.ID]; dup {
			fail("entity type", t.ID, "duplicate id")
		}
		c.entityTypes[t.ID] = t
		if t.LineCapacity < 0 {
			fail("entity type", t.ID, "line_capacity cannot be negative")
		}
		for _, r := range t.Storable {
			knownResource("entity type", t.ID, r)
		}
		for _, pid := range t.Production {
			if _, ok := c.processes[pid]; !ok {
				fail("entity type", t.ID, "unknown production process %q", pid)
			}
		}
		for _, pid := range t.Retail {
			if _, ok := c.retail[pid]; !ok {
				fail("entity type", t.ID, "unknown retail process %q", pid)
			}
		}
		for _, pid := range t.Procurement {
			if _, ok := c.procurement[pid]; !ok {
				fail("entity type", t.ID, "unknown procurement process %q", pid)
			}
		}
	}

	c.locations = make(map[string]Location, len(c.Locations))
	for _, l := range c.Locations {
		if _, dup := c.locations[l.ID]; dup {
			fail("location", l.ID, "duplicate id")
		}
		c.locations[l.ID] = l
		if l.LocalTransport < 0 {
			fail("location", l.ID, "local_transport cannot be negative")
		}
		if l.Variance < 0 || l.Variance > 1 {
			fail("location", l.ID, "variance must be within [0, 1]")
		}
		for r, q := range l.BaseDemand {
			knownResource("location", l.ID, r)
			if q < 0 {
				fail("location", l.ID, "base demand for %q cannot be negative", r)
			}
		}
		for _, ph := range l.Phases {
			if ph.Ticks < 1 || ph.Multiplier < 0 {
				fail("location", l.ID, "phase %q needs ticks >= 1 and multiplier >= 0", ph.Name)
			}
		}
	}

	for i, cor := range c.Corridors {
		ref := fmt.Sprintf("#%d %s-%s", i, cor.From, cor.To)
		if _, ok := c.locations[cor.From]; !ok {
			fail("corridor", ref, "unknown location %q", cor.From)
		}
		if _, ok := c.locations[cor.To]; !ok {
			fail("corridor", ref, "unknown location %q", cor.To)
		}
		if cor.Cost < 0 {
			fail("corridor", ref, "cost cannot be negative")
		}
	}

	for r, p := range c.Pricing.Base {
		knownResource("pricing", "base", r)
		if p < 0 {
			fail("pricing", r, "base price cannot be negative")
		}
	}
	for r := range c.Pricing.Retail {
		knownResource("pricing", "retail", r)
	}
	if c.Pricing.StorageCostPerUnit < 0 {
		fail("pricing", "storage_cost_per_unit", "cannot be negative")
	}

	if c.Contracts.DeliveryInterval < 1 {
		fail("contracts", "delivery_interval", "must be at least 1")
	}
	if c.Contracts.Deliveries < 1 {
		fail("contracts", "deliveries", "must be at least 1")
	}
	if c.Contracts.CancellationThreshold < 0 || c.Contracts.CancellationThreshold > 1 {
		fail("contracts", "cancellation_threshold", "must be within [0, 1]")
	}
	if c.AI.EmergencyThreshold > c.AI.ReorderThreshold {
		fail("ai", "emergency_threshold", "must not exceed reorder_threshold")
	}

	seen := make(map[string]bool, len(c.Scenario.Entities))
	for _, e := range c.Scenario.Entities {
		if seen[e.ID] {
			fail("entity", e.ID, "duplicate id")
		}
		seen[e.ID] = true
	}
	for _, e := range c.Scenario.Entities {
		t, ok := c.entityTypes[e.Type]
		if !ok {
			fail("entity", e.ID, "unknown entity type %q", e.Type)
		}
		if _, ok := c.locations[e.Location]; !ok {
			fail("entity", e.ID, "unknown location %q", e.Location)
		}
		for r, q := range e.Inventory {
			knownResource("entity", e.ID, r)
			if q < 0 {
				fail("entity", e.ID, "initial inventory of %q cannot be negative", r)
			}
			if ok && !t.CanStore(r) {
				fail("entity", e.ID, "type %q cannot store %q", e.Type, r)
			}
		}
		for r, suppliers := range e.Suppliers {
			knownResource("entity", e.ID, r)
			for _, s := range suppliers {
				if !seen[s] {
					fail("entity", e.ID, "unknown supplier %q for %q", s, r)
				}
				if s == e.ID {
					fail("entity", e.ID, "cannot supply itself with %q", r)
				}
			}
		}
	}
	if c.Scenario.DefaultEntity != "" && !seen[c.Scenario.DefaultEntity] {
		fail("scenario", "default_entity", "unknown entity %q", c.Scenario.DefaultEntity)
	}

	return errors.Join(errs...)
}

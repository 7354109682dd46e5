package catalog

// Lookups are only valid after Validate has indexed the configuration.

func (c *Config) Resource(id string) (Resource, bool) {
	r, ok := c.resources[id]
	return r, ok
}

func (c *Config) Process(id string) (ProcessDefinition, bool) {
	p, ok := c.processes[id]
	return p, ok
}

func (c *Config) RetailProcess(id string) (RetailProcess, bool) {
	p, ok := c.retail[id]
	return p, ok
}

func (c *Config) ProcurementProcess(id string) (ProcurementProcess, bool) {
	p, ok := c.procurement[id]
	return p, ok
}

func (c *Config) EntityType(id string) (EntityType, bool) {
	t, ok := c.entityTypes[id]
	return t, ok
}

func (c *Config) Location(id string) (Location, bool) {
	l, ok := c.locations[id]
	return l, ok
}

// BasePrice is the spot price buyers offer for a resource
func (c *Config) BasePrice(resource string) float64 {
	return c.Pricing.Base[resource]
}

// RetailPrice is the price paid by end-customer demand
func (c *Config) RetailPrice(resource string) float64 {
	if p, ok := c.Pricing.Retail[resource]; ok {
		return p
	}
	return c.Pricing.Base[resource]
}

// ProcuredResources lists the resources an entity type buys, in definition order
func (c *Config) ProcuredResources(t EntityType) []string {
	resources := make([]string, 0, len(t.Procurement))
	for _, id := range t.Procurement {
		if p, ok := c.procurement[id]; ok {
			resources = append(resources, p.Resource)
		}
	}
	return resources
}

// RetailedResources lists the resources an entity type sells to demand
func (c *Config) RetailedResources(t EntityType) []string {
	resources := make([]string, 0, len(t.Retail))
	for _, id := range t.Retail {
		if p, ok := c.retail[id]; ok {
			resources = append(resources, p.Resource)
		}
	}
	return resources
}

// CostFloor is the cheapest per-unit input cost at which an entity of the
// given type can produce the resource, valued at base prices. Startup inputs
// are excluded since they are paid once per line. Types that cannot produce
// the resource, and source processes, have a floor of zero.
func (c *Config) CostFloor(entityTypeID, resource string) float64 {
	t, ok := c.entityTypes[entityTypeID]
	if !ok {
		return 0
	}
	best := -1.0
	for _, pid := range t.Production {
		p, ok := c.processes[pid]
		if !ok {
			continue
		}
		out := p.OutputOf(resource)
		if out <= 0 {
			continue
		}
		cost := 0.0
		for _, in := range p.CycleInputs {
			cost += in.Quantity * c.BasePrice(in.Resource)
		}
		for _, in := range p.TickInputs {
			cost += in.Quantity * c.BasePrice(in.Resource) * float64(p.CycleTicks)
		}
		if unit := cost / out; best < 0 || unit < best {
			best = unit
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

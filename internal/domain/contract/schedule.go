package contract

// ScheduledDelivery is one expected contract delivery in the order book
type ScheduledDelivery struct {
	ContractID string
	Tick       int
	BuyerID    string
	SellerID   string
	Resource   string
	Units      float64
	Value      float64
}

// Schedule projects the contract's remaining deliveries due within
// (fromTick, fromTick+horizon]. Nothing is recorded on the contract.
func (c *Contract) Schedule(fromTick, horizon int) []ScheduledDelivery {
	if c.status != StatusActive || horizon <= 0 {
		return nil
	}
	var out []ScheduledDelivery
	remaining := c.RemainingUnits()
	tick := c.nextDeliveryTick
	// A due delivery that has not been processed yet belongs to the next tick
	if tick <= fromTick {
		tick = fromTick + 1
	}
	for ; tick <= fromTick+horizon && remaining > 0; tick += c.terms.DeliveryInterval {
		units := min(c.terms.UnitsPerDelivery, remaining)
		out = append(out, ScheduledDelivery{
			ContractID: c.id,
			Tick:       tick,
			BuyerID:    c.buyerID,
			SellerID:   c.sellerID,
			Resource:   c.resource,
			Units:      units,
			Value:      units * c.terms.Price,
		})
		remaining -= units
	}
	return out
}

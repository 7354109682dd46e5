package order

import "slices"

// Delivery is goods in transit for an order. It exists from departure until
// arrival; the quantity is held by neither party meanwhile.
type Delivery struct {
	OrderID        string
	FromEntity     string
	ToEntity       string
	FromLocation   string
	ToLocation     string
	Resource       string
	Quantity       float64
	Price          float64
	RemainingTicks int
	DepartedTick   int
	Route          []string
}

// NewDelivery dispatches an accepted order along a resolved route
func NewDelivery(o *Order, fromLocation, toLocation string, ticks int, route []string, tick int) *Delivery {
	return &Delivery{
		OrderID:        o.ID,
		FromEntity:     o.SellerID,
		ToEntity:       o.BuyerID,
		FromLocation:   fromLocation,
		ToLocation:     toLocation,
		Resource:       o.Resource,
		Quantity:       o.Fulfilled,
		Price:          o.Price,
		RemainingTicks: ticks,
		DepartedTick:   tick,
		Route:          slices.Clone(route),
	}
}

// Tick counts down one tick of transit and reports whether the goods arrived
func (d *Delivery) Tick() bool {
	d.RemainingTicks--
	return d.RemainingTicks <= 0
}

// Value is the payment due on arrival
func (d *Delivery) Value() float64 {
	return d.Quantity * d.Price
}

// Clone returns a deep copy
func (d *Delivery) Clone() *Delivery {
	c := *d
	c.Route = slices.Clone(d.Route)
	return &c
}

package policy

import (
	"cmp"
	"slices"
)

// PriceFirstFulfillment serves the highest offered price first, then the
// closest buyer, then the oldest order
type PriceFirstFulfillment struct{}

func NewPriceFirstFulfillment() *PriceFirstFulfillment {
	return &PriceFirstFulfillment{}
}

func (p *PriceFirstFulfillment) Rank(candidates []OrderCandidate) []OrderCandidate {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b OrderCandidate) int {
		if c := cmp.Compare(b.Order.Price, a.Order.Price); c != 0 {
			return c
		}
		if c := cmp.Compare(a.TransportTicks, b.TransportTicks); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Order.PlacedTick, b.Order.PlacedTick); c != 0 {
			return c
		}
		return cmp.Compare(a.Order.ID, b.Order.ID)
	})
	return ranked
}

// ArrivalOrderFulfillment serves orders strictly in placement order
type ArrivalOrderFulfillment struct{}

func NewArrivalOrderFulfillment() *ArrivalOrderFulfillment {
	return &ArrivalOrderFulfillment{}
}

func (p *ArrivalOrderFulfillment) Rank(candidates []OrderCandidate) []OrderCandidate {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b OrderCandidate) int {
		if c := cmp.Compare(a.Order.PlacedTick, b.Order.PlacedTick); c != 0 {
			return c
		}
		return cmp.Compare(a.Order.ID, b.Order.ID)
	})
	return ranked
}

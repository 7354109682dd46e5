package shared

import (
	"maps"
	"slices"
)

// Epsilon absorbs float drift when volume scaled quantities are compared
const Epsilon = 1e-9

// Amount is a quantity of a single resource
type Amount struct {
	Resource string  `yaml:"resource" validate:"required"`
	Quantity float64 `yaml:"quantity" validate:"gt=0"`
}

// MergeAmounts sums lists of amounts per resource, sorted by resource id
func MergeAmounts(lists ...[]Amount) []Amount {
	totals := make(map[string]float64)
	for _, list := range lists {
		for _, a := range list {
			totals[a.Resource] += a.Quantity
		}
	}
	merged := make([]Amount, 0, len(totals))
	for _, r := range slices.Sorted(maps.Keys(totals)) {
		merged = append(merged, Amount{Resource: r, Quantity: totals[r]})
	}
	return merged
}

// Stock maps resource ids to held quantities. Zero entries are removed so
// that equality and totals stay stable across clones.
type Stock map[string]float64

// Get returns the quantity held for a resource
func (s Stock) Get(resource string) float64 {
	return s[resource]
}

// Add increases the held quantity
func (s Stock) Add(resource string, quantity float64) {
	if quantity == 0 {
		return
	}
	s.set(resource, s[resource]+quantity)
}

// Take decreases the held quantity, never below zero
func (s Stock) Take(resource string, quantity float64) {
	s.set(resource, s[resource]-quantity)
}

func (s Stock) set(resource string, quantity float64) {
	if quantity < Epsilon {
		delete(s, resource)
		return
	}
	s[resource] = quantity
}

// Total returns the sum of all held quantities
func (s Stock) Total() float64 {
	total := 0.0
	for _, q := range s {
		total += q
	}
	return total
}

// Resources returns the held resource ids in sorted order
func (s Stock) Resources() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy
func (s Stock) Clone() Stock {
	if s == nil {
		return Stock{}
	}
	return maps.Clone(s)
}

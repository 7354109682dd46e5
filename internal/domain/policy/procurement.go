package policy

import (
	"cmp"
	"slices"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
)

// ReorderProcurement tops up procured resources when projected stock runs low.
// A resource already covered by an active contract only triggers the smaller
// emergency order.
type ReorderProcurement struct{}

func NewReorderProcurement() *ReorderProcurement {
	return &ReorderProcurement{}
}

func (p *ReorderProcurement) Decide(e *entity.Entity, t catalog.EntityType, view View) []OrderIntent {
	cfg := view.Config()
	var intents []OrderIntent
	for _, r := range cfg.ProcuredResources(t) {
		threshold, quantity := cfg.AI.ReorderThreshold, cfg.AI.ReorderQuantity
		if view.ActiveContractFor(e.ID, r) {
			threshold, quantity = cfg.AI.EmergencyThreshold, cfg.AI.EmergencyQuantity
		}
		if quantity <= 0 || e.Inventory.Get(r)+view.Inbound(e.ID, r) >= threshold {
			continue
		}
		seller := SelectSupplier(e, r, view)
		if seller == "" {
			continue
		}
		intents = append(intents, OrderIntent{
			BuyerID:  e.ID,
			SellerID: seller,
			Resource: r,
			Quantity: quantity,
			Price:    cfg.BasePrice(r),
		})
	}
	return intents
}

// SelectSupplier picks the buyer's best eligible seller of a resource:
// sellers with available stock first, then shortest transport time, then id.
// Returns "" when the buyer has no known supplier.
func SelectSupplier(buyer *entity.Entity, resource string, view View) string {
	type option struct {
		id        string
		available bool
		ticks     int
	}
	var options []option
	for _, id := range buyer.SuppliersFor(resource) {
		s, ok := view.Entity(id)
		if !ok {
			continue
		}
		ticks, ok := view.TransportTime(id, buyer.ID)
		if !ok {
			continue
		}
		options = append(options, option{id: id, available: s.Available(resource) > 0, ticks: ticks})
	}
	if len(options) == 0 {
		return ""
	}
	best := slices.MinFunc(options, func(a, b option) int {
		if a.available != b.available {
			if a.available {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.ticks, b.ticks); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return best.id
}

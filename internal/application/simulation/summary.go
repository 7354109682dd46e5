package simulation

import (
	"time"

	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// NewTickSummary digests a completed tick
func NewTickSummary(runID string, s *simulation.State, r *simulation.Report, at time.Time) *TickSummary {
	sum := &TickSummary{
		RunID:           runID,
		Tick:            r.Tick,
		OrdersPlaced:    r.Orders.Placed,
		OrdersAccepted:  r.Orders.Accepted,
		OrdersDeclined:  r.Orders.Declined,
		OrdersDelivered: r.Orders.Delivered,
		ContractMisses:  r.Contracts.Misses,
		MissedUnits:     r.Contracts.MissedUnits,
		Penalties:       r.Contracts.Penalties,
		Produced:        total(r.Produced),
		Consumed:        total(r.Consumed),
		Sold:            total(r.Sold),
		Rejected:        len(r.Rejected),
		Warnings:        len(r.Warnings),
		RecordedAt:      at,
	}

	for _, p := range r.Postings {
		switch p.Type {
		case ledger.TransactionTypeRetailSale:
			sum.RetailRevenue += p.Amount
		case ledger.TransactionTypeStorageCost:
			sum.StorageCosts -= p.Amount
		}
	}
	for _, e := range s.Entities {
		sum.TotalMoney += e.Money
		sum.TotalInventory += total(e.Inventory)
	}
	for _, d := range s.Deliveries {
		sum.InTransitQuantity += d.Quantity
	}
	for _, c := range s.Contracts {
		if c.Status() == contract.StatusActive {
			sum.ContractsActive++
		}
	}
	return sum
}

func total(stock shared.Stock) float64 {
	sum := 0.0
	for _, q := range stock {
		sum += q
	}
	return sum
}

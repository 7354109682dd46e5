package simulation

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Report describes everything observable that happened during one tick
type Report struct {
	Tick     int
	Postings []ledger.Posting
	Sales    []Sale
	// LineOutcomes counts lines per production outcome
	LineOutcomes map[production.Outcome]int
	// Produced, Consumed and Sold track resource mass entering or leaving the world
	Produced shared.Stock
	Consumed shared.Stock
	Sold     shared.Stock

	Orders    OrderCounters
	Contracts ContractCounters

	// ChangedContracts lists every contract created or modified this tick
	ChangedContracts []string
	Rejected         []Rejection
	Warnings         []Warning
}

// Sale is one retail sale to location demand
type Sale struct {
	EntityID   string
	LocationID string
	Resource   string
	Quantity   float64
	Revenue    float64
}

// OrderCounters tallies order transitions
type OrderCounters struct {
	Placed    int
	Accepted  int
	Partial   int
	Declined  int
	Departed  int
	Delivered int
}

// ContractCounters tallies contract events
type ContractCounters struct {
	Proposed    int
	Activated   int
	Declined    int
	Completed   int
	Cancelled   int
	Deliveries  int
	Misses      int
	MissedUnits float64
	Penalties   float64
}

// Warning flags a legitimate but noteworthy state, such as insolvency
type Warning struct {
	EntityID string
	Message  string
	Balance  float64
}

func newReport(tick int) *Report {
	return &Report{
		Tick:         tick,
		LineOutcomes: make(map[production.Outcome]int),
		Produced:     shared.Stock{},
		Consumed:     shared.Stock{},
		Sold:         shared.Stock{},
	}
}

func (r *Report) post(p ledger.Posting) {
	r.Postings = append(r.Postings, p)
}

func (r *Report) reject(a Action, reason string) {
	r.Rejected = append(r.Rejected, Rejection{Action: a, Reason: reason})
}

func (r *Report) touch(contractID string) {
	for _, id := range r.ChangedContracts {
		if id == contractID {
			return
		}
	}
	r.ChangedContracts = append(r.ChangedContracts, contractID)
}

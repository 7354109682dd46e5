// Package policy holds the swappable decision modules that drive autonomous
// entities. Every policy is a pure function of the entity, its type, a
// read-only view of the world and the configuration; it returns intents and
// never mutates anything. The tick engine alone commits intents to state.
package policy

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/order"
	"github.com/andrescamacho/supplychain-go/internal/domain/production"
)

// View is the read-only slice of simulation state policies may inspect.
// Returned pointers must not be modified.
type View interface {
	Tick() int
	Config() *catalog.Config
	Entity(id string) (*entity.Entity, bool)
	LinesFor(entityID string) []production.Line
	// Inbound is the quantity of a resource already ordered by the buyer and not yet received
	Inbound(buyerID, resource string) float64
	// TransportTime between two entities' locations
	TransportTime(fromEntity, toEntity string) (int, bool)
	// ActiveContractFor reports whether the buyer has an active contract for the resource
	ActiveContractFor(buyerID, resource string) bool
	// OpenContractFor reports whether the buyer has a proposed or active contract for the resource
	OpenContractFor(buyerID, resource string) bool
	// ProposalsFor lists contracts in proposed status where the entity is the seller
	ProposalsFor(sellerID string) []*contract.Contract
}

// LineIntent asks the engine to start one line of a process or stop all of them
type LineIntent struct {
	EntityID  string
	ProcessID string
	Start     bool
	Volume    float64
}

// OrderIntent asks the engine to place a spot order
type OrderIntent struct {
	BuyerID  string
	SellerID string
	Resource string
	Quantity float64
	Price    float64
}

// ProposalIntent asks the engine to record a contract proposal
type ProposalIntent struct {
	BuyerID  string
	SellerID string
	Resource string
	Terms    contract.Terms
}

// EvaluationDecision is a seller's verdict on one proposal
type EvaluationDecision struct {
	ContractID string
	Accept     bool
	Reason     string
}

// OrderCandidate is a pending order with the transport time to its buyer
type OrderCandidate struct {
	Order          *order.Order
	TransportTicks int
}

// ProductionPolicy decides which lines an entity starts or stops
type ProductionPolicy interface {
	Decide(e *entity.Entity, t catalog.EntityType, view View) []LineIntent
}

// ProcurementPolicy decides which spot orders an entity places
type ProcurementPolicy interface {
	Decide(e *entity.Entity, t catalog.EntityType, view View) []OrderIntent
}

// ContractPolicy covers both sides of a contract: buyers propose, sellers evaluate
type ContractPolicy interface {
	Propose(e *entity.Entity, t catalog.EntityType, view View) []ProposalIntent
	Evaluate(e *entity.Entity, t catalog.EntityType, view View) []EvaluationDecision
}

// FulfillmentPolicy orders one seller's pending orders for acceptance
type FulfillmentPolicy interface {
	Rank(candidates []OrderCandidate) []OrderCandidate
}

// Set bundles one implementation per policy family
type Set struct {
	Production  ProductionPolicy
	Procurement ProcurementPolicy
	Contract    ContractPolicy
	Fulfillment FulfillmentPolicy
}

// Defaults returns the price-aware, contract-capable policy set
func Defaults() Set {
	return Set{
		Production:  NewThresholdProduction(),
		Procurement: NewReorderProcurement(),
		Contract:    NewPriceContracts(),
		Fulfillment: NewPriceFirstFulfillment(),
	}
}

package persistence

import (
	"time"
)

// RunModel represents the runs table
type RunModel struct {
	ID        string    `gorm:"column:id;primaryKey;not null"`
	Scenario  string    `gorm:"column:scenario;not null"`
	Seed      int64     `gorm:"column:seed;not null"`
	Status    string    `gorm:"column:status;not null"`
	Tick      int       `gorm:"column:tick;not null;default:0"`
	StartedAt time.Time `gorm:"column:started_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (RunModel) TableName() string {
	return "runs"
}

// TickSummaryModel represents the tick_summaries table
type TickSummaryModel struct {
	RunID             string    `gorm:"column:run_id;primaryKey;not null"`
	Run               *RunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tick              int       `gorm:"column:tick;primaryKey;not null"`
	OrdersPlaced      int       `gorm:"column:orders_placed;not null;default:0"`
	OrdersAccepted    int       `gorm:"column:orders_accepted;not null;default:0"`
	OrdersDeclined    int       `gorm:"column:orders_declined;not null;default:0"`
	OrdersDelivered   int       `gorm:"column:orders_delivered;not null;default:0"`
	ContractsActive   int       `gorm:"column:contracts_active;not null;default:0"`
	ContractMisses    int       `gorm:"column:contract_misses;not null;default:0"`
	MissedUnits       float64   `gorm:"column:missed_units;not null;default:0"`
	Penalties         float64   `gorm:"column:penalties;not null;default:0"`
	RetailRevenue     float64   `gorm:"column:retail_revenue;not null;default:0"`
	StorageCosts      float64   `gorm:"column:storage_costs;not null;default:0"`
	Produced          float64   `gorm:"column:produced;not null;default:0"`
	Consumed          float64   `gorm:"column:consumed;not null;default:0"`
	Sold              float64   `gorm:"column:sold;not null;default:0"`
	Rejected          int       `gorm:"column:rejected;not null;default:0"`
	Warnings          int       `gorm:"column:warnings;not null;default:0"`
	TotalMoney        float64   `gorm:"column:total_money;not null"`
	TotalInventory    float64   `gorm:"column:total_inventory;not null"`
	InTransitQuantity float64   `gorm:"column:in_transit_quantity;not null;default:0"`
	RecordedAt        time.Time `gorm:"column:recorded_at;not null"`
}

func (TickSummaryModel) TableName() string {
	return "tick_summaries"
}

// TransactionModel represents the transactions table
type TransactionModel struct {
	ID                string    `gorm:"column:id;primaryKey;not null"`
	RunID             string    `gorm:"column:run_id;not null;index:idx_run_entity_tick"`
	EntityID          string    `gorm:"column:entity_id;not null;index:idx_run_entity_tick"`
	Tick              int       `gorm:"column:tick;not null;index:idx_run_entity_tick"`
	Timestamp         time.Time `gorm:"column:timestamp;not null"`
	TransactionType   string    `gorm:"column:transaction_type;not null"`
	Category          string    `gorm:"column:category;not null;index"`
	Amount            float64   `gorm:"column:amount;not null"`
	BalanceBefore     float64   `gorm:"column:balance_before;not null"`
	BalanceAfter      float64   `gorm:"column:balance_after;not null"`
	Description       string    `gorm:"column:description;type:text"`
	Metadata          string    `gorm:"column:metadata;type:text"` // JSON as text
	RelatedEntityType string    `gorm:"column:related_entity_type"`
	RelatedEntityID   string    `gorm:"column:related_entity_id"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// ContractModel represents the contracts table. One row per contract per
// run, overwritten with the latest snapshot.
type ContractModel struct {
	ID                    string  `gorm:"column:id;primaryKey;not null"`
	RunID                 string  `gorm:"column:run_id;primaryKey;not null"`
	BuyerID               string  `gorm:"column:buyer_id;not null"`
	SellerID              string  `gorm:"column:seller_id;not null"`
	Resource              string  `gorm:"column:resource;not null"`
	Status                string  `gorm:"column:status;not null;index"`
	Price                 float64 `gorm:"column:price;not null"`
	UnitsPerDelivery      float64 `gorm:"column:units_per_delivery;not null"`
	DeliveryInterval      int     `gorm:"column:delivery_interval;not null"`
	TotalUnits            float64 `gorm:"column:total_units;not null"`
	PenaltyRate           float64 `gorm:"column:penalty_rate;not null"`
	CancellationThreshold float64 `gorm:"column:cancellation_threshold;not null"`
	ProposedTick          int     `gorm:"column:proposed_tick;not null"`
	ActivatedTick         int     `gorm:"column:activated_tick;not null;default:0"`
	ClosedTick            int     `gorm:"column:closed_tick;not null;default:0"`
	NextDeliveryTick      int     `gorm:"column:next_delivery_tick;not null;default:0"`
	UnitsShipped          float64 `gorm:"column:units_shipped;not null;default:0"`
	UnitsMissed           float64 `gorm:"column:units_missed;not null;default:0"`
	PenaltiesCharged      float64 `gorm:"column:penalties_charged;not null;default:0"`
	Reason                string  `gorm:"column:reason"`
	LastUpdated           string  `gorm:"column:last_updated;not null"` // ISO timestamp
}

func (ContractModel) TableName() string {
	return "contracts"
}

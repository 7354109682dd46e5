package persistence

import (
	"context"
	"fmt"

	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"gorm.io/gorm"
)

// GormTickSummaryRepository implements TickSummaryRepository using GORM
type GormTickSummaryRepository struct {
	db *gorm.DB
}

// NewGormTickSummaryRepository creates a new GORM tick summary repository
func NewGormTickSummaryRepository(db *gorm.DB) *GormTickSummaryRepository {
	return &GormTickSummaryRepository{db: db}
}

// Save upserts the summary of one tick
func (r *GormTickSummaryRepository) Save(ctx context.Context, summary *appSim.TickSummary) error {
	model := summaryToModel(summary)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save tick %d of run %s: %w", summary.Tick, summary.RunID, err)
	}
	return nil
}

// FindByRun returns the summaries of a run within [fromTick, toTick] in tick
// order. A non-positive toTick leaves the range open.
func (r *GormTickSummaryRepository) FindByRun(ctx context.Context, runID string, fromTick, toTick int) ([]*appSim.TickSummary, error) {
	query := r.db.WithContext(ctx).Where("run_id = ? AND tick >= ?", runID, fromTick)
	if toTick > 0 {
		query = query.Where("tick <= ?", toTick)
	}

	var models []TickSummaryModel
	if err := query.Order("tick ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find tick summaries: %w", err)
	}

	summaries := make([]*appSim.TickSummary, len(models))
	for i := range models {
		summaries[i] = modelToSummary(&models[i])
	}
	return summaries, nil
}

func summaryToModel(s *appSim.TickSummary) *TickSummaryModel {
	return &TickSummaryModel{
		RunID:             s.RunID,
		Tick:              s.Tick,
		OrdersPlaced:      s.OrdersPlaced,
		OrdersAccepted:    s.OrdersAccepted,
		OrdersDeclined:    s.OrdersDeclined,
		OrdersDelivered:   s.OrdersDelivered,
		ContractsActive:   s.ContractsActive,
		ContractMisses:    s.ContractMisses,
		MissedUnits:       s.MissedUnits,
		Penalties:         s.Penalties,
		RetailRevenue:     s.RetailRevenue,
		StorageCosts:      s.StorageCosts,
		Produced:          s.Produced,
		Consumed:          s.Consumed,
		Sold:              s.Sold,
		Rejected:          s.Rejected,
		Warnings:          s.Warnings,
		TotalMoney:        s.TotalMoney,
		TotalInventory:    s.TotalInventory,
		InTransitQuantity: s.InTransitQuantity,
		RecordedAt:        s.RecordedAt,
	}
}

func modelToSummary(m *TickSummaryModel) *appSim.TickSummary {
	return &appSim.TickSummary{
		RunID:             m.RunID,
		Tick:              m.Tick,
		OrdersPlaced:      m.OrdersPlaced,
		OrdersAccepted:    m.OrdersAccepted,
		OrdersDeclined:    m.OrdersDeclined,
		OrdersDelivered:   m.OrdersDelivered,
		ContractsActive:   m.ContractsActive,
		ContractMisses:    m.ContractMisses,
		MissedUnits:       m.MissedUnits,
		Penalties:         m.Penalties,
		RetailRevenue:     m.RetailRevenue,
		StorageCosts:      m.StorageCosts,
		Produced:          m.Produced,
		Consumed:          m.Consumed,
		Sold:              m.Sold,
		Rejected:          m.Rejected,
		Warnings:          m.Warnings,
		TotalMoney:        m.TotalMoney,
		TotalInventory:    m.TotalInventory,
		InTransitQuantity: m.InTransitQuantity,
		RecordedAt:        m.RecordedAt,
	}
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"gorm.io/gorm"
)

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewGormContractRepository creates a new GORM contract repository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db, clock: time.Now}
}

// Save upserts the latest snapshot of a contract for a run
func (r *GormContractRepository) Save(ctx context.Context, runID string, c *contract.Contract) error {
	model := r.entityToModel(runID, c)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save contract %s: %w", c.ID(), result.Error)
	}

	return nil
}

// FindByID retrieves a contract by ID within a run
func (r *GormContractRepository) FindByID(ctx context.Context, runID, contractID string) (*contract.Contract, error) {
	var model ContractModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND run_id = ?", contractID, runID).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contract not found: %s", contractID)
		}
		return nil, fmt.Errorf("failed to find contract: %w", result.Error)
	}

	return r.modelToEntity(&model), nil
}

// FindByRun lists the contracts of a run, optionally filtered by status.
// An empty status returns every contract.
func (r *GormContractRepository) FindByRun(ctx context.Context, runID string, status contract.Status) ([]*contract.Contract, error) {
	query := r.db.WithContext(ctx).Where("run_id = ?", runID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var models []ContractModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	contracts := make([]*contract.Contract, len(models))
	for i := range models {
		contracts[i] = r.modelToEntity(&models[i])
	}
	return contracts, nil
}

func (r *GormContractRepository) modelToEntity(model *ContractModel) *contract.Contract {
	return contract.ReconstructContract(contract.Snapshot{
		ID:       model.ID,
		BuyerID:  model.BuyerID,
		SellerID: model.SellerID,
		Resource: model.Resource,
		Terms: contract.Terms{
			Price:                 model.Price,
			UnitsPerDelivery:      model.UnitsPerDelivery,
			DeliveryInterval:      model.DeliveryInterval,
			TotalUnits:            model.TotalUnits,
			PenaltyRate:           model.PenaltyRate,
			CancellationThreshold: model.CancellationThreshold,
		},
		Status:           contract.Status(model.Status),
		ProposedTick:     model.ProposedTick,
		ActivatedTick:    model.ActivatedTick,
		ClosedTick:       model.ClosedTick,
		NextDeliveryTick: model.NextDeliveryTick,
		UnitsShipped:     model.UnitsShipped,
		UnitsMissed:      model.UnitsMissed,
		PenaltiesCharged: model.PenaltiesCharged,
		Reason:           model.Reason,
	})
}

func (r *GormContractRepository) entityToModel(runID string, c *contract.Contract) *ContractModel {
	s := c.Snapshot()
	return &ContractModel{
		ID:                    s.ID,
		RunID:                 runID,
		BuyerID:               s.BuyerID,
		SellerID:              s.SellerID,
		Resource:              s.Resource,
		Status:                string(s.Status),
		Price:                 s.Terms.Price,
		UnitsPerDelivery:      s.Terms.UnitsPerDelivery,
		DeliveryInterval:      s.Terms.DeliveryInterval,
		TotalUnits:            s.Terms.TotalUnits,
		PenaltyRate:           s.Terms.PenaltyRate,
		CancellationThreshold: s.Terms.CancellationThreshold,
		ProposedTick:          s.ProposedTick,
		ActivatedTick:         s.ActivatedTick,
		ClosedTick:            s.ClosedTick,
		NextDeliveryTick:      s.NextDeliveryTick,
		UnitsShipped:          s.UnitsShipped,
		UnitsMissed:           s.UnitsMissed,
		PenaltiesCharged:      s.PenaltiesCharged,
		Reason:                s.Reason,
		LastUpdated:           r.clock().UTC().Format(time.RFC3339),
	}
}

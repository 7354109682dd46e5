package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"gorm.io/gorm"
)

// GormRunRepository implements RunRepository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GORM run repository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Create inserts a new run record
func (r *GormRunRepository) Create(ctx context.Context, run *appSim.RunRecord) error {
	model := &RunModel{
		ID:        run.ID,
		Scenario:  run.Scenario,
		Seed:      run.Seed,
		Status:    run.Status,
		Tick:      run.Tick,
		StartedAt: run.StartedAt,
		UpdatedAt: run.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create run %s: %w", run.ID, err)
	}
	return nil
}

// UpdateProgress records the latest tick and status of a run
func (r *GormRunRepository) UpdateProgress(ctx context.Context, runID string, tick int, status string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&RunModel{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"tick":       tick,
			"status":     status,
			"updated_at": at,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update run %s: %w", runID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// FindByID retrieves a run record
func (r *GormRunRepository) FindByID(ctx context.Context, runID string) (*appSim.RunRecord, error) {
	var model RunModel
	result := r.db.WithContext(ctx).Where("id = ?", runID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to find run: %w", result.Error)
	}
	return modelToRun(&model), nil
}

// List returns the most recently started runs first
func (r *GormRunRepository) List(ctx context.Context, limit int) ([]*appSim.RunRecord, error) {
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []RunModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*appSim.RunRecord, len(models))
	for i := range models {
		runs[i] = modelToRun(&models[i])
	}
	return runs, nil
}

func modelToRun(model *RunModel) *appSim.RunRecord {
	return &appSim.RunRecord{
		ID:        model.ID,
		Scenario:  model.Scenario,
		Seed:      model.Seed,
		Status:    model.Status,
		Tick:      model.Tick,
		StartedAt: model.StartedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

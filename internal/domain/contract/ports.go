package contract

import "context"

// ContractRepository persists contract snapshots per simulation run
type ContractRepository interface {
	Save(ctx context.Context, runID string, contract *Contract) error
	FindByID(ctx context.Context, runID, contractID string) (*Contract, error)
	FindByRun(ctx context.Context, runID string, status Status) ([]*Contract, error)
}

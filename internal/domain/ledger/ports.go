package ledger

import (
	"context"
)

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	// Create persists a new transaction
	Create(ctx context.Context, transaction *Transaction) error

	// CreateBatch persists all transactions of one tick atomically
	CreateBatch(ctx context.Context, transactions []*Transaction) error

	// FindByID retrieves a transaction by its ID
	FindByID(ctx context.Context, id TransactionID, runID string) (*Transaction, error)

	// FindByEntity retrieves transactions for an entity with optional filtering
	FindByEntity(ctx context.Context, runID, entityID string, opts QueryOptions) ([]*Transaction, error)

	// CountByEntity returns the count of transactions matching the criteria
	CountByEntity(ctx context.Context, runID, entityID string, opts QueryOptions) (int, error)
}

// QueryOptions defines filtering and pagination options for transaction queries
type QueryOptions struct {
	// Tick range filtering (inclusive)
	StartTick *int
	EndTick   *int

	// Category filtering
	Category *Category

	// Transaction type filtering
	TransactionType *TransactionType

	// Related entity filtering
	RelatedEntityType *string
	RelatedEntityID   *string

	// Pagination
	Limit  int
	Offset int

	// Sorting
	// OrderBy is "tick|amount asc|desc"; empty sorts newest first
	OrderBy string
}

package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
)

// batchSize bounds the rows per INSERT when a tick journals many postings
const batchSize = 200

// transactionOrderings maps accepted OrderBy values to SQL
var transactionOrderings = map[string]string{
	"tick asc":    "tick ASC",
	"tick desc":   "tick DESC",
	"amount asc":  "amount ASC",
	"amount desc": "amount DESC",
}

// GormTransactionRepository journals ledger transactions with GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM transaction repository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create persists a single transaction
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *ledger.Transaction) error {
	model, err := transactionToModel(transaction)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch persists all transactions of one tick in a single database transaction
func (r *GormTransactionRepository) CreateBatch(ctx context.Context, transactions []*ledger.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	models := make([]*TransactionModel, 0, len(transactions))
	for _, tx := range transactions {
		model, err := transactionToModel(tx)
		if err != nil {
			return err
		}
		models = append(models, model)
	}

	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.CreateInBatches(models, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create %d transactions: %w", len(models), err)
		}
		return nil
	})
}

// FindByID retrieves one transaction of a run
func (r *GormTransactionRepository) FindByID(ctx context.Context, id ledger.TransactionID, runID string) (*ledger.Transaction, error) {
	var model TransactionModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND run_id = ?", id.String(), runID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ledger.ErrTransactionNotFound{ID: id.String(), RunID: runID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return modelToTransaction(&model)
}

// FindByEntity pages through the transactions of one entity
func (r *GormTransactionRepository) FindByEntity(ctx context.Context, runID, entityID string, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	orderBy, err := transactionOrder(opts.OrderBy)
	if err != nil {
		return nil, err
	}

	var models []TransactionModel
	err = r.db.WithContext(ctx).
		Scopes(entityScope(runID, entityID), filterScope(opts), pageScope(opts.Limit, opts.Offset)).
		Order(orderBy).
		Order("timestamp ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}

	transactions := make([]*ledger.Transaction, 0, len(models))
	for i := range models {
		tx, err := modelToTransaction(&models[i])
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// CountByEntity counts the transactions matching the filters, ignoring paging
func (r *GormTransactionRepository) CountByEntity(ctx context.Context, runID, entityID string, opts ledger.QueryOptions) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&TransactionModel{}).
		Scopes(entityScope(runID, entityID), filterScope(opts)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return int(count), nil
}

func entityScope(runID, entityID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("run_id = ? AND entity_id = ?", runID, entityID)
	}
}

func filterScope(opts ledger.QueryOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if opts.StartTick != nil {
			db = db.Where("tick >= ?", *opts.StartTick)
		}
		if opts.EndTick != nil {
			db = db.Where("tick <= ?", *opts.EndTick)
		}
		if opts.Category != nil {
			db = db.Where("category = ?", opts.Category.String())
		}
		if opts.TransactionType != nil {
			db = db.Where("transaction_type = ?", opts.TransactionType.String())
		}
		if opts.RelatedEntityType != nil {
			db = db.Where("related_entity_type = ?", *opts.RelatedEntityType)
		}
		if opts.RelatedEntityID != nil {
			db = db.Where("related_entity_id = ?", *opts.RelatedEntityID)
		}
		return db
	}
}

func pageScope(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}

// transactionOrder resolves OrderBy against the accepted orderings; empty means newest first
func transactionOrder(orderBy string) (string, error) {
	if orderBy == "" {
		return "tick DESC", nil
	}
	sql, ok := transactionOrderings[strings.ToLower(strings.Join(strings.Fields(orderBy), " "))]
	if !ok {
		return "", fmt.Errorf("unsupported order %q", orderBy)
	}
	return sql, nil
}

func modelToTransaction(model *TransactionModel) (*ledger.Transaction, error) {
	id, err := ledger.ParseTransactionID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID in database: %w", err)
	}
	typ, err := ledger.ParseTransactionType(model.TransactionType)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction type in database: %w", err)
	}
	category, err := ledger.ParseCategory(model.Category)
	if err != nil {
		return nil, fmt.Errorf("invalid category in database: %w", err)
	}

	var metadata map[string]interface{}
	if model.Metadata != "" {
		if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("invalid metadata for transaction %s: %w", model.ID, err)
		}
	}

	posting := ledger.Posting{
		EntityID:          model.EntityID,
		Tick:              model.Tick,
		Type:              typ,
		Amount:            model.Amount,
		BalanceBefore:     model.BalanceBefore,
		BalanceAfter:      model.BalanceAfter,
		Description:       model.Description,
		RelatedEntityType: model.RelatedEntityType,
		RelatedEntityID:   model.RelatedEntityID,
	}
	return ledger.ReconstructTransaction(id, model.RunID, posting, category, model.Timestamp, metadata), nil
}

func transactionToModel(tx *ledger.Transaction) (*TransactionModel, error) {
	var metadata string
	if m := tx.Metadata(); m != nil {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata of transaction %s: %w", tx.ID(), err)
		}
		metadata = string(data)
	}

	p := tx.Posting()
	return &TransactionModel{
		ID:                tx.ID().String(),
		RunID:             tx.RunID(),
		EntityID:          p.EntityID,
		Tick:              p.Tick,
		Timestamp:         tx.Timestamp(),
		TransactionType:   p.Type.String(),
		Category:          tx.Category().String(),
		Amount:            p.Amount,
		BalanceBefore:     p.BalanceBefore,
		BalanceAfter:      p.BalanceAfter,
		Description:       p.Description,
		Metadata:          metadata,
		RelatedEntityType: p.RelatedEntityType,
		RelatedEntityID:   p.RelatedEntityID,
	}, nil
}

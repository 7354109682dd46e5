package ledger

import (
	"fmt"
	"maps"
	"math"
	"time"
)

// balanceTolerance absorbs float rounding when checking the balance invariant
const balanceTolerance = 1e-6

// Transaction is a posting journaled under a run. It is immutable once built.
type Transaction struct {
	id        TransactionID
	runID     string
	timestamp time.Time
	category  Category
	posting   Posting
	metadata  map[string]interface{}
}

// NewTransaction assigns an ID to a posting of the run and checks its invariants
func NewTransaction(runID string, p Posting, timestamp time.Time, metadata map[string]interface{}) (*Transaction, error) {
	if runID == "" {
		return nil, &ErrInvalidTransaction{Field: "run_id", Reason: "run_id cannot be empty"}
	}
	if p.EntityID == "" {
		return nil, &ErrInvalidTransaction{Field: "entity_id", Reason: "entity_id cannot be empty"}
	}
	category, err := p.Type.ToCategory()
	if err != nil {
		return nil, &ErrInvalidTransaction{Field: "transaction_type", Reason: err.Error()}
	}

	t := &Transaction{
		id:        NewTransactionID(),
		runID:     runID,
		timestamp: timestamp,
		category:  category,
		posting:   p,
		metadata:  metadata,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ReconstructTransaction rebuilds a stored transaction without validation
func ReconstructTransaction(id TransactionID, runID string, p Posting, category Category, timestamp time.Time, metadata map[string]interface{}) *Transaction {
	return &Transaction{
		id:        id,
		runID:     runID,
		timestamp: timestamp,
		category:  category,
		posting:   p,
		metadata:  metadata,
	}
}

// Validate checks the posting moves the balance by exactly its amount
func (t *Transaction) Validate() error {
	p := t.posting
	switch {
	case p.Amount == 0:
		return &ErrInvalidTransaction{Field: "amount", Reason: "amount cannot be zero"}
	case p.Tick < 0:
		return &ErrInvalidTransaction{Field: "tick", Reason: "tick cannot be negative"}
	}

	expected := p.BalanceBefore + p.Amount
	if math.Abs(p.BalanceAfter-expected) > balanceTolerance {
		return &ErrBalanceInvariantViolation{
			BalanceBefore: p.BalanceBefore,
			Amount:        p.Amount,
			BalanceAfter:  p.BalanceAfter,
			Expected:      expected,
		}
	}
	return nil
}

func (t *Transaction) ID() TransactionID                { return t.id }
func (t *Transaction) RunID() string                    { return t.runID }
func (t *Transaction) Timestamp() time.Time             { return t.timestamp }
func (t *Transaction) Category() Category               { return t.category }
func (t *Transaction) Posting() Posting                 { return t.posting }
func (t *Transaction) EntityID() string                 { return t.posting.EntityID }
func (t *Transaction) Tick() int                        { return t.posting.Tick }
func (t *Transaction) TransactionType() TransactionType { return t.posting.Type }
func (t *Transaction) Amount() float64                  { return t.posting.Amount }
func (t *Transaction) BalanceBefore() float64           { return t.posting.BalanceBefore }
func (t *Transaction) BalanceAfter() float64            { return t.posting.BalanceAfter }
func (t *Transaction) Description() string              { return t.posting.Description }
func (t *Transaction) RelatedEntityType() string        { return t.posting.RelatedEntityType }
func (t *Transaction) RelatedEntityID() string          { return t.posting.RelatedEntityID }

// Metadata returns a copy of the free-form attributes
func (t *Transaction) Metadata() map[string]interface{} {
	if t.metadata == nil {
		return nil
	}
	return maps.Clone(t.metadata)
}

// IsIncome reports money flowing in
func (t *Transaction) IsIncome() bool { return t.posting.Amount > 0 }

// IsExpense reports money flowing out
func (t *Transaction) IsExpense() bool { return t.posting.Amount < 0 }

func (t *Transaction) String() string {
	p := t.posting
	return fmt.Sprintf("Transaction[%s, entity=%s, tick=%d, type=%s, amount=%.2f, balance=%.2f->%.2f]",
		t.id, p.EntityID, p.Tick, p.Type, p.Amount, p.BalanceBefore, p.BalanceAfter)
}

package ledger

import (
	"fmt"
	"time"
)

// Posting is a money movement recorded by the tick engine. It carries no
// identity or wall-clock time so that replays produce identical reports;
// the journal turns postings into Transactions.
type Posting struct {
	EntityID          string
	Tick              int
	Type              TransactionType
	Amount            float64
	BalanceBefore     float64
	BalanceAfter      float64
	Description       string
	RelatedEntityType string
	RelatedEntityID   string
}

// Apply moves a balance by amount and returns the matching posting
func Apply(balance *float64, entityID string, tick int, typ TransactionType, amount float64, description, relatedType, relatedID string) Posting {
	before := *balance
	*balance = before + amount
	return Posting{
		EntityID:          entityID,
		Tick:              tick,
		Type:              typ,
		Amount:            amount,
		BalanceBefore:     before,
		BalanceAfter:      *balance,
		Description:       description,
		RelatedEntityType: relatedType,
		RelatedEntityID:   relatedID,
	}
}

// ToTransaction journals the posting under a run. The related entity, if
// any, is repeated in the metadata so exported rows stay self-describing.
func (p Posting) ToTransaction(runID string, timestamp time.Time) (*Transaction, error) {
	var metadata map[string]interface{}
	if p.RelatedEntityType != "" {
		metadata = map[string]interface{}{p.RelatedEntityType: p.RelatedEntityID}
	}
	t, err := NewTransaction(runID, p, timestamp, metadata)
	if err != nil {
		return nil, fmt.Errorf("posting for %s at tick %d: %w", p.EntityID, p.Tick, err)
	}
	return t, nil
}

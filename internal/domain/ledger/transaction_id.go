package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionID identifies a journaled transaction across runs
type TransactionID struct {
	value string
}

// NewTransactionID generates a random ID
func NewTransactionID() TransactionID {
	return TransactionID{value: uuid.New().String()}
}

// ParseTransactionID reads a stored ID
func ParseTransactionID(s string) (TransactionID, error) {
	if s == "" {
		return TransactionID{}, fmt.Errorf("transaction_id cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction_id %q: %w", s, err)
	}
	return TransactionID{value: s}, nil
}

func (t TransactionID) String() string { return t.value }

// IsZero reports an unset ID
func (t TransactionID) IsZero() bool { return t.value == "" }

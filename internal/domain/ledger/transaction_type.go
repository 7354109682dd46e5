package ledger

import "fmt"

// TransactionType represents the type of money movement
type TransactionType string

const (
	// TransactionTypeRetailSale represents revenue from end-customer demand
	TransactionTypeRetailSale TransactionType = "RETAIL_SALE"

	// TransactionTypeStorageCost represents the per-tick cost of holding inventory
	TransactionTypeStorageCost TransactionType = "STORAGE_COST"

	// TransactionTypeOrderPayment represents a buyer paying for a delivered order
	TransactionTypeOrderPayment TransactionType = "ORDER_PAYMENT"

	// TransactionTypeOrderReceipt represents a seller being paid for a delivered order
	TransactionTypeOrderReceipt TransactionType = "ORDER_RECEIPT"

	// TransactionTypeContractPenalty represents a seller charged for missed contract units
	TransactionTypeContractPenalty TransactionType = "CONTRACT_PENALTY"

	// TransactionTypePenaltyReceipt represents a buyer compensated for missed contract units
	TransactionTypePenaltyReceipt TransactionType = "PENALTY_RECEIPT"
)

// AllTransactionTypes returns all valid transaction types
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypeRetailSale,
		TransactionTypeStorageCost,
		TransactionTypeOrderPayment,
		TransactionTypeOrderReceipt,
		TransactionTypeContractPenalty,
		TransactionTypePenaltyReceipt,
	}
}

// String returns the string representation of the TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	_, ok := TypeToCategoryMap[t]
	return ok
}

// ToCategory maps the transaction type to its category
func (t TransactionType) ToCategory() (Category, error) {
	category, exists := TypeToCategoryMap[t]
	if !exists {
		return "", fmt.Errorf("unknown transaction type: %s", t)
	}
	return category, nil
}

// ParseTransactionType parses a string into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid transaction type: %s", s)
	}
	return t, nil
}

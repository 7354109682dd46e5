package ledger

import "fmt"

// Category represents the cash flow category for financial reporting
type Category string

const (
	// CategoryRetailRevenue represents income from retail sales
	CategoryRetailRevenue Category = "RETAIL_REVENUE"

	// CategoryTradingRevenue represents income from orders delivered to other entities
	CategoryTradingRevenue Category = "TRADING_REVENUE"

	// CategoryTradingCosts represents payments for orders received
	CategoryTradingCosts Category = "TRADING_COSTS"

	// CategoryOperatingCosts represents storage costs
	CategoryOperatingCosts Category = "OPERATING_COSTS"

	// CategoryPenalties represents contract penalties charged
	CategoryPenalties Category = "PENALTIES"

	// CategoryPenaltyIncome represents contract penalties received
	CategoryPenaltyIncome Category = "PENALTY_INCOME"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategoryRetailRevenue,
		CategoryTradingRevenue,
		CategoryTradingCosts,
		CategoryOperatingCosts,
		CategoryPenalties,
		CategoryPenaltyIncome,
	}
}

// TypeToCategoryMap maps transaction types to their categories
var TypeToCategoryMap = map[TransactionType]Category{
	TransactionTypeRetailSale:      CategoryRetailRevenue,
	TransactionTypeStorageCost:     CategoryOperatingCosts,
	TransactionTypeOrderPayment:    CategoryTradingCosts,
	TransactionTypeOrderReceipt:    CategoryTradingRevenue,
	TransactionTypeContractPenalty: CategoryPenalties,
	TransactionTypePenaltyReceipt:  CategoryPenaltyIncome,
}

// String returns the string representation of the Category
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryRetailRevenue,
		CategoryTradingRevenue,
		CategoryTradingCosts,
		CategoryOperatingCosts,
		CategoryPenalties,
		CategoryPenaltyIncome:
		return true
	default:
		return false
	}
}

// IsIncome returns true if the category represents income
func (c Category) IsIncome() bool {
	switch c {
	case CategoryRetailRevenue, CategoryTradingRevenue, CategoryPenaltyIncome:
		return true
	default:
		return false
	}
}

// IsExpense returns true if the category represents an expense
func (c Category) IsExpense() bool {
	return !c.IsIncome()
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}

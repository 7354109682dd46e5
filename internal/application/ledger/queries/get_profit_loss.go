package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
)

// GetProfitLossQuery represents a query to generate a profit & loss statement
// for one entity over an inclusive tick range
type GetProfitLossQuery struct {
	RunID     string
	EntityID  string
	StartTick int
	EndTick   int
}

// GetProfitLossResponse represents the profit & loss statement result
type GetProfitLossResponse struct {
	Period           string
	TotalRevenue     float64
	TotalExpenses    float64
	NetProfit        float64
	RevenueBreakdown map[string]float64 // category -> amount
	ExpenseBreakdown map[string]float64 // category -> amount
}

// GetProfitLossHandler handles the GetProfitLoss query
type GetProfitLossHandler struct {
	transactionRepo ledger.TransactionRepository
}

// NewGetProfitLossHandler creates a new GetProfitLossHandler
func NewGetProfitLossHandler(transactionRepo ledger.TransactionRepository) *GetProfitLossHandler {
	return &GetProfitLossHandler{
		transactionRepo: transactionRepo,
	}
}

// Handle executes the GetProfitLoss query
func (h *GetProfitLossHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetProfitLossQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetProfitLossQuery")
	}

	transactions, err := h.transactionRepo.FindByEntity(ctx, query.RunID, query.EntityID, tickRange(query.StartTick, query.EndTick))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	return h.calculateProfitLoss(query, transactions), nil
}

func (h *GetProfitLossHandler) calculateProfitLoss(
	query *GetProfitLossQuery,
	transactions []*ledger.Transaction,
) *GetProfitLossResponse {
	revenueBreakdown := make(map[string]float64)
	expenseBreakdown := make(map[string]float64)
	totalRevenue := 0.0
	totalExpenses := 0.0

	for _, tx := range transactions {
		category := tx.Category().String()
		amount := tx.Amount()

		if tx.IsIncome() {
			revenueBreakdown[category] += amount
			totalRevenue += amount
		} else {
			expenseBreakdown[category] += -amount
			totalExpenses += -amount
		}
	}

	return &GetProfitLossResponse{
		Period:           period(query.StartTick, query.EndTick),
		TotalRevenue:     totalRevenue,
		TotalExpenses:    totalExpenses,
		NetProfit:        totalRevenue - totalExpenses,
		RevenueBreakdown: revenueBreakdown,
		ExpenseBreakdown: expenseBreakdown,
	}
}

// tickRange builds unpaginated options; an end tick of zero leaves the range open
func tickRange(start, end int) ledger.QueryOptions {
	opts := ledger.QueryOptions{OrderBy: "tick ASC"}
	if start > 0 {
		opts.StartTick = &start
	}
	if end > 0 {
		opts.EndTick = &end
	}
	return opts
}

func period(start, end int) string {
	if end <= 0 {
		return fmt.Sprintf("tick %d onwards", start)
	}
	return fmt.Sprintf("ticks %d to %d", start, end)
}

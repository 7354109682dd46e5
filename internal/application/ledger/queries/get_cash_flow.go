package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
)

// GetCashFlowQuery represents a query to generate a cash flow statement
type GetCashFlowQuery struct {
	RunID     string
	EntityID  string
	StartTick int
	EndTick   int
	GroupBy   string // "category" or "tick"
}

// GetCashFlowResponse represents the cash flow statement result
type GetCashFlowResponse struct {
	Period string
	Groups []*CashFlowGroup
}

// CashFlowGroup represents cash flow for one category or one tick
type CashFlowGroup struct {
	Key          string
	TotalInflow  float64
	TotalOutflow float64
	NetFlow      float64
	Transactions int
}

// GetCashFlowHandler handles the GetCashFlow query
type GetCashFlowHandler struct {
	transactionRepo ledger.TransactionRepository
}

// NewGetCashFlowHandler creates a new GetCashFlowHandler
func NewGetCashFlowHandler(transactionRepo ledger.TransactionRepository) *GetCashFlowHandler {
	return &GetCashFlowHandler{
		transactionRepo: transactionRepo,
	}
}

// Handle executes the GetCashFlow query
func (h *GetCashFlowHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetCashFlowQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetCashFlowQuery")
	}

	if query.GroupBy == "" {
		query.GroupBy = "category"
	}
	if query.GroupBy != "category" && query.GroupBy != "tick" {
		return nil, fmt.Errorf("unsupported grouping: %s", query.GroupBy)
	}

	transactions, err := h.transactionRepo.FindByEntity(ctx, query.RunID, query.EntityID, tickRange(query.StartTick, query.EndTick))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	return h.calculateCashFlow(query, transactions), nil
}

func (h *GetCashFlowHandler) calculateCashFlow(
	query *GetCashFlowQuery,
	transactions []*ledger.Transaction,
) *GetCashFlowResponse {
	groups := make(map[string]*CashFlowGroup)
	order := make(map[string]int)

	for _, tx := range transactions {
		key := tx.Category().String()
		rank := 0
		if query.GroupBy == "tick" {
			key = fmt.Sprintf("%d", tx.Tick())
			rank = tx.Tick()
		}

		flow, ok := groups[key]
		if !ok {
			flow = &CashFlowGroup{Key: key}
			groups[key] = flow
			order[key] = rank
		}
		flow.Transactions++

		if amount := tx.Amount(); amount > 0 {
			flow.TotalInflow += amount
		} else {
			flow.TotalOutflow += -amount
		}
		flow.NetFlow = flow.TotalInflow - flow.TotalOutflow
	}

	result := make([]*CashFlowGroup, 0, len(groups))
	for _, flow := range groups {
		result = append(result, flow)
	}
	sort.Slice(result, func(i, j int) bool {
		if order[result[i].Key] != order[result[j].Key] {
			return order[result[i].Key] < order[result[j].Key]
		}
		return result[i].Key < result[j].Key
	})

	return &GetCashFlowResponse{
		Period: period(query.StartTick, query.EndTick),
		Groups: result,
	}
}

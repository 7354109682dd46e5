package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
)

// defaultPageSize applies when the query leaves Limit at zero
const defaultPageSize = 50

// GetTransactionsQuery pages through an entity's transactions in a run.
// Zero ticks leave that end of the range open; empty strings match anything.
type GetTransactionsQuery struct {
	RunID     string
	EntityID  string
	StartTick int
	EndTick   int
	Category  string
	Type      string
	// Related is "order", "contract:C000001" or similar
	Related string
	Limit   int
	Offset  int
	OrderBy string
}

// GetTransactionsResponse holds one page of transactions
type GetTransactionsResponse struct {
	Transactions []TransactionView
	Total        int
	HasMore      bool
	// PageNet is the sum of the amounts on this page
	PageNet float64
}

// TransactionView is a journaled posting with its identity
type TransactionView struct {
	ID        string
	Timestamp time.Time
	Category  ledger.Category
	ledger.Posting
	Metadata map[string]interface{}
}

// Related renders the related entity as type:id, or "-"
func (v TransactionView) Related() string {
	if v.RelatedEntityID == "" {
		return "-"
	}
	return v.RelatedEntityType + ":" + v.RelatedEntityID
}

// GetTransactionsHandler handles GetTransactionsQuery
type GetTransactionsHandler struct {
	repo ledger.TransactionRepository
}

// NewGetTransactionsHandler creates a new GetTransactionsHandler
func NewGetTransactionsHandler(repo ledger.TransactionRepository) *GetTransactionsHandler {
	return &GetTransactionsHandler{repo: repo}
}

// Handle executes the query
func (h *GetTransactionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTransactionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTransactionsQuery")
	}
	if query.RunID == "" || query.EntityID == "" {
		return nil, fmt.Errorf("run ID and entity ID are required")
	}

	opts, err := queryOptions(query)
	if err != nil {
		return nil, err
	}

	transactions, err := h.repo.FindByEntity(ctx, query.RunID, query.EntityID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	total, err := h.repo.CountByEntity(ctx, query.RunID, query.EntityID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	resp := &GetTransactionsResponse{
		Transactions: make([]TransactionView, 0, len(transactions)),
		Total:        total,
		HasMore:      opts.Offset+len(transactions) < total,
	}
	for _, tx := range transactions {
		resp.Transactions = append(resp.Transactions, TransactionView{
			ID:        tx.ID().String(),
			Timestamp: tx.Timestamp(),
			Category:  tx.Category(),
			Posting:   tx.Posting(),
			Metadata:  tx.Metadata(),
		})
		resp.PageNet += tx.Amount()
	}
	return resp, nil
}

func queryOptions(query *GetTransactionsQuery) (ledger.QueryOptions, error) {
	opts := ledger.QueryOptions{
		Limit:   defaultPageSize,
		Offset:  max(query.Offset, 0),
		OrderBy: query.OrderBy,
	}
	if query.Limit > 0 {
		opts.Limit = query.Limit
	}

	if query.StartTick > 0 {
		start := query.StartTick
		opts.StartTick = &start
	}
	if query.EndTick > 0 {
		if query.EndTick < query.StartTick {
			return opts, fmt.Errorf("end tick %d is before start tick %d", query.EndTick, query.StartTick)
		}
		end := query.EndTick
		opts.EndTick = &end
	}

	if query.Category != "" {
		category, err := ledger.ParseCategory(strings.ToUpper(query.Category))
		if err != nil {
			return opts, err
		}
		opts.Category = &category
	}
	if query.Type != "" {
		typ, err := ledger.ParseTransactionType(strings.ToUpper(query.Type))
		if err != nil {
			return opts, err
		}
		opts.TransactionType = &typ
	}

	if query.Related != "" {
		kind, id, _ := strings.Cut(query.Related, ":")
		opts.RelatedEntityType = &kind
		if id != "" {
			opts.RelatedEntityID = &id
		}
	}
	return opts, nil
}

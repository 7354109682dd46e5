package queries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
)

type stubRepo struct {
	transactions []*ledger.Transaction
	lastOpts     ledger.QueryOptions
}

func (s *stubRepo) Create(ctx context.Context, tx *ledger.Transaction) error { return nil }

func (s *stubRepo) CreateBatch(ctx context.Context, txs []*ledger.Transaction) error { return nil }

func (s *stubRepo) FindByID(ctx context.Context, id ledger.TransactionID, runID string) (*ledger.Transaction, error) {
	return nil, &ledger.ErrTransactionNotFound{ID: id.String(), RunID: runID}
}

func (s *stubRepo) FindByEntity(ctx context.Context, runID, entityID string, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	s.lastOpts = opts
	var out []*ledger.Transaction
	for _, tx := range s.transactions {
		if tx.RunID() == runID && tx.EntityID() == entityID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *stubRepo) CountByEntity(ctx context.Context, runID, entityID string, opts ledger.QueryOptions) (int, error) {
	txs, _ := s.FindByEntity(ctx, runID, entityID, opts)
	return len(txs), nil
}

func millLedger(t *testing.T) *stubRepo {
	t.Helper()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	balance := 100.0
	postings := []ledger.Posting{
		ledger.Apply(&balance, "mill", 3, ledger.TransactionTypeOrderPayment, -20, "grain", "order", "O000001"),
		ledger.Apply(&balance, "mill", 5, ledger.TransactionTypeOrderReceipt, 60, "flour", "order", "O000004"),
		ledger.Apply(&balance, "mill", 5, ledger.TransactionTypeStorageCost, -0.5, "storage", "", ""),
		ledger.Apply(&balance, "mill", 8, ledger.TransactionTypeContractPenalty, -20, "missed", "contract", "C000001"),
	}
	repo := &stubRepo{}
	for _, p := range postings {
		tx, err := p.ToTransaction("run-1", ts)
		require.NoError(t, err)
		repo.transactions = append(repo.transactions, tx)
	}
	return repo
}

func TestGetProfitLoss(t *testing.T) {
	h := NewGetProfitLossHandler(millLedger(t))

	resp, err := h.Handle(context.Background(), &GetProfitLossQuery{RunID: "run-1", EntityID: "mill"})
	require.NoError(t, err)

	pl := resp.(*GetProfitLossResponse)
	assert.InDelta(t, 60.0, pl.TotalRevenue, 1e-9)
	assert.InDelta(t, 40.5, pl.TotalExpenses, 1e-9)
	assert.InDelta(t, 19.5, pl.NetProfit, 1e-9)
	assert.InDelta(t, 20.0, pl.ExpenseBreakdown["PENALTIES"], 1e-9)
	assert.Equal(t, "tick 0 onwards", pl.Period)
}

func TestGetCashFlow_ByTick(t *testing.T) {
	h := NewGetCashFlowHandler(millLedger(t))

	resp, err := h.Handle(context.Background(), &GetCashFlowQuery{RunID: "run-1", EntityID: "mill", GroupBy: "tick"})
	require.NoError(t, err)

	groups := resp.(*GetCashFlowResponse).Groups
	require.Len(t, groups, 3)
	assert.Equal(t, "3", groups[0].Key)
	assert.Equal(t, "5", groups[1].Key)
	assert.Equal(t, 2, groups[1].Transactions)
	assert.InDelta(t, 59.5, groups[1].NetFlow, 1e-9)
	assert.Equal(t, "8", groups[2].Key)
}

func TestGetCashFlow_RejectsUnknownGrouping(t *testing.T) {
	h := NewGetCashFlowHandler(millLedger(t))

	_, err := h.Handle(context.Background(), &GetCashFlowQuery{RunID: "run-1", EntityID: "mill", GroupBy: "week"})

	assert.Error(t, err)
}

func TestGetTransactions_BuildsOptions(t *testing.T) {
	repo := millLedger(t)
	h := NewGetTransactionsHandler(repo)

	resp, err := h.Handle(context.Background(), &GetTransactionsQuery{
		RunID: "run-1", EntityID: "mill", StartTick: 4, Category: "penalties", Related: "contract:C000001", Limit: 10,
	})
	require.NoError(t, err)

	page := resp.(*GetTransactionsResponse)
	assert.Equal(t, 4, page.Total)
	assert.False(t, page.HasMore)
	assert.InDelta(t, 19.5, page.PageNet, 1e-9)
	assert.Equal(t, "order:O000001", page.Transactions[0].Related())
	assert.Equal(t, ledger.CategoryTradingCosts, page.Transactions[0].Category)

	require.NotNil(t, repo.lastOpts.Category)
	assert.Equal(t, ledger.CategoryPenalties, *repo.lastOpts.Category)
	assert.Equal(t, 4, *repo.lastOpts.StartTick)
	assert.Nil(t, repo.lastOpts.EndTick)
	assert.Equal(t, "contract", *repo.lastOpts.RelatedEntityType)
	assert.Equal(t, "C000001", *repo.lastOpts.RelatedEntityID)
	assert.Equal(t, 10, repo.lastOpts.Limit)
}

func TestGetTransactions_RejectsBadFilters(t *testing.T) {
	h := NewGetTransactionsHandler(millLedger(t))

	tests := []struct {
		name  string
		query GetTransactionsQuery
	}{
		{"unknown category", GetTransactionsQuery{Category: "FUEL"}},
		{"unknown type", GetTransactionsQuery{Type: "GIFT"}},
		{"inverted range", GetTransactionsQuery{StartTick: 9, EndTick: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			q.RunID, q.EntityID = "run-1", "mill"
			_, err := h.Handle(context.Background(), &q)
			assert.Error(t, err)
		})
	}
}

func TestGetTransactions_PagesWithLimit(t *testing.T) {
	h := NewGetTransactionsHandler(&pagingRepo{stubRepo: millLedger(t)})

	resp, err := h.Handle(context.Background(), &GetTransactionsQuery{RunID: "run-1", EntityID: "mill", Limit: 2})
	require.NoError(t, err)

	page := resp.(*GetTransactionsResponse)
	assert.Len(t, page.Transactions, 2)
	assert.Equal(t, 4, page.Total)
	assert.True(t, page.HasMore)
}

// pagingRepo honours Limit the way the database does
type pagingRepo struct {
	*stubRepo
}

func (p *pagingRepo) FindByEntity(ctx context.Context, runID, entityID string, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	txs, err := p.stubRepo.FindByEntity(ctx, runID, entityID, opts)
	if opts.Limit > 0 && len(txs) > opts.Limit {
		txs = txs[:opts.Limit]
	}
	return txs, err
}

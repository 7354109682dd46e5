package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/supplychain-go/internal/adapters/persistence"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
	"github.com/andrescamacho/supplychain-go/internal/infrastructure/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createRun(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	err := persistence.NewGormRunRepository(db).Create(context.Background(), &appSim.RunRecord{
		ID:        id,
		Scenario:  "bread-chain",
		Seed:      42,
		Status:    appSim.RunStatusRunning,
		StartedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestRunRepository_CreateUpdateAndList(t *testing.T) {
	db := newTestDB(t)
	repo := persistence.NewGormRunRepository(db)
	ctx := context.Background()

	createRun(t, db, "run-a")
	createRun(t, db, "run-b")

	later := time.Now().UTC().Add(time.Minute).Truncate(time.Second)
	require.NoError(t, repo.UpdateProgress(ctx, "run-a", 17, appSim.RunStatusFinished, later))

	run, err := repo.FindByID(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, 17, run.Tick)
	assert.Equal(t, appSim.RunStatusFinished, run.Status)
	assert.Equal(t, int64(42), run.Seed)
	assert.True(t, run.UpdatedAt.Equal(later))

	runs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunRepository_MissingRun(t *testing.T) {
	db := newTestDB(t)
	repo := persistence.NewGormRunRepository(db)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorContains(t, err, "run not found")

	err = repo.UpdateProgress(context.Background(), "nope", 1, appSim.RunStatusRunning, time.Now())
	assert.ErrorContains(t, err, "run not found")
}

func TestTickSummaryRepository_SaveAndRange(t *testing.T) {
	db := newTestDB(t)
	createRun(t, db, "run-a")
	repo := persistence.NewGormTickSummaryRepository(db)
	ctx := context.Background()

	for tick := 1; tick <= 5; tick++ {
		require.NoError(t, repo.Save(ctx, &appSim.TickSummary{
			RunID:          "run-a",
			Tick:           tick,
			OrdersPlaced:   tick,
			TotalMoney:     1000,
			TotalInventory: float64(100 - tick),
			RecordedAt:     time.Now().UTC(),
		}))
	}

	// saving the same tick again overwrites it
	require.NoError(t, repo.Save(ctx, &appSim.TickSummary{
		RunID: "run-a", Tick: 3, OrdersPlaced: 30, TotalMoney: 1000, RecordedAt: time.Now().UTC(),
	}))

	got, err := repo.FindByRun(ctx, "run-a", 2, 4)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].Tick)
	assert.Equal(t, 30, got[1].OrdersPlaced)
	assert.Equal(t, 4, got[2].Tick)

	all, err := repo.FindByRun(ctx, "run-a", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func postingsTransactions(t *testing.T, runID string) []*ledger.Transaction {
	t.Helper()
	now := time.Now().UTC()
	balance := 100.0
	postings := []ledger.Posting{
		ledger.Apply(&balance, "shop", 1, ledger.TransactionTypeRetailSale, 40, "sold bread", "location", "town"),
		ledger.Apply(&balance, "shop", 1, ledger.TransactionTypeStorageCost, -2, "storage", "", ""),
		ledger.Apply(&balance, "shop", 2, ledger.TransactionTypeOrderPayment, -30, "paid O000001", "order", "O000001"),
		ledger.Apply(&balance, "shop", 3, ledger.TransactionTypePenaltyReceipt, 5, "penalty C000001", "contract", "C000001"),
	}
	txs := make([]*ledger.Transaction, 0, len(postings))
	for _, p := range postings {
		tx, err := p.ToTransaction(runID, now)
		require.NoError(t, err)
		txs = append(txs, tx)
	}
	return txs
}

func TestTransactionRepository_BatchAndFilters(t *testing.T) {
	db := newTestDB(t)
	repo := persistence.NewGormTransactionRepository(db)
	ctx := context.Background()

	txs := postingsTransactions(t, "run-a")
	require.NoError(t, repo.CreateBatch(ctx, txs))
	require.NoError(t, repo.CreateBatch(ctx, nil))

	found, err := repo.FindByID(ctx, txs[0].ID(), "run-a")
	require.NoError(t, err)
	assert.Equal(t, 40.0, found.Amount())
	assert.Equal(t, ledger.CategoryRetailRevenue, found.Category())
	assert.Equal(t, "town", found.RelatedEntityID())

	all, err := repo.FindByEntity(ctx, "run-a", "shop", ledger.QueryOptions{OrderBy: "tick ASC"})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, 1, all[0].Tick())
	assert.Equal(t, 3, all[3].Tick())

	start, end := 2, 3
	ranged, err := repo.FindByEntity(ctx, "run-a", "shop", ledger.QueryOptions{StartTick: &start, EndTick: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	category := ledger.CategoryOperatingCosts
	count, err := repo.CountByEntity(ctx, "run-a", "shop", ledger.QueryOptions{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	other, err := repo.CountByEntity(ctx, "run-b", "shop", ledger.QueryOptions{})
	require.NoError(t, err)
	assert.Zero(t, other)

	byAmount, err := repo.FindByEntity(ctx, "run-a", "shop", ledger.QueryOptions{OrderBy: "amount  desc", Limit: 1})
	require.NoError(t, err)
	require.Len(t, byAmount, 1)
	assert.Equal(t, 40.0, byAmount[0].Amount())
	assert.Equal(t, map[string]interface{}{"location": "town"}, byAmount[0].Metadata())

	_, err = repo.FindByEntity(ctx, "run-a", "shop", ledger.QueryOptions{OrderBy: "tick; DROP TABLE transactions"})
	assert.ErrorContains(t, err, "unsupported order")
}

func TestTransactionRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := persistence.NewGormTransactionRepository(db)

	_, err := repo.FindByID(context.Background(), ledger.NewTransactionID(), "run-a")
	var notFound *ledger.ErrTransactionNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestContractRepository_SaveOverwritesSnapshot(t *testing.T) {
	db := newTestDB(t)
	repo := persistence.NewGormContractRepository(db)
	ctx := context.Background()

	terms := contract.Terms{
		Price:                 3,
		UnitsPerDelivery:      10,
		DeliveryInterval:      4,
		TotalUnits:            40,
		PenaltyRate:           0.5,
		CancellationThreshold: 0.25,
	}
	c, err := contract.NewProposal("C000001", "bakery", "mill", "flour", terms, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "run-a", c))

	proposed, err := repo.FindByRun(ctx, "run-a", contract.StatusProposed)
	require.NoError(t, err)
	require.Len(t, proposed, 1)

	require.NoError(t, c.Activate(5))
	require.NoError(t, c.RecordShipment(10))
	require.NoError(t, repo.Save(ctx, "run-a", c))

	loaded, err := repo.FindByID(ctx, "run-a", "C000001")
	require.NoError(t, err)
	assert.Equal(t, c.Snapshot(), loaded.Snapshot())

	proposed, err = repo.FindByRun(ctx, "run-a", contract.StatusProposed)
	require.NoError(t, err)
	assert.Empty(t, proposed)

	all, err := repo.FindByRun(ctx, "run-a", "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.FindByID(ctx, "run-b", "C000001")
	assert.ErrorContains(t, err, "contract not found")
}

package simulation

import (
	"context"
	"time"

	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// Run statuses
const (
	RunStatusRunning  = "running"
	RunStatusStopped  = "stopped"
	RunStatusFinished = "finished"
	RunStatusFailed   = "failed"
)

// RunRecord describes one simulation run in the journal
type RunRecord struct {
	ID        string
	Scenario  string
	Seed      int64
	Status    string
	Tick      int
	StartedAt time.Time
	UpdatedAt time.Time
}

// RunRepository persists run records
type RunRepository interface {
	Create(ctx context.Context, run *RunRecord) error
	UpdateProgress(ctx context.Context, runID string, tick int, status string, at time.Time) error
	FindByID(ctx context.Context, runID string) (*RunRecord, error)
	List(ctx context.Context, limit int) ([]*RunRecord, error)
}

// TickSummary is the per-tick digest stored in the journal
type TickSummary struct {
	RunID             string
	Tick              int
	OrdersPlaced      int
	OrdersAccepted    int
	OrdersDeclined    int
	OrdersDelivered   int
	ContractsActive   int
	ContractMisses    int
	MissedUnits       float64
	Penalties         float64
	RetailRevenue     float64
	StorageCosts      float64
	Produced          float64
	Consumed          float64
	Sold              float64
	Rejected          int
	Warnings          int
	TotalMoney        float64
	TotalInventory    float64
	InTransitQuantity float64
	RecordedAt        time.Time
}

// TickSummaryRepository persists tick summaries
type TickSummaryRepository interface {
	Save(ctx context.Context, summary *TickSummary) error
	FindByRun(ctx context.Context, runID string, fromTick, toTick int) ([]*TickSummary, error)
}

// MetricsRecorder observes every completed tick
type MetricsRecorder interface {
	RecordTick(runID string, state *simulation.State, report *simulation.Report, duration time.Duration)
}

// Journal groups the optional persistence ports of a run. Nil members are skipped.
type Journal struct {
	Runs         RunRepository
	Ticks        TickSummaryRepository
	Transactions ledger.TransactionRepository
	Contracts    contract.ContractRepository
}

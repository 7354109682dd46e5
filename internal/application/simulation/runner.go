// Package simulation runs a tick engine over time: it queues external
// actions, paces ticks, journals results and answers queries.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/supplychain-go/internal/application/logging"
	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// Runner owns the current state of one run. Actions may be submitted from any
// goroutine; ticks are stepped strictly one after another.
type Runner struct {
	engine *simulation.Engine

	mu    sync.Mutex
	state *simulation.State
	queue []simulation.Action
	last  *simulation.Report

	stepMu sync.Mutex

	runID   string
	limiter *rate.Limiter
	journal Journal
	metrics MetricsRecorder
	clock   shared.Clock
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithJournal persists every tick through the given repositories
func WithJournal(j Journal) RunnerOption {
	return func(r *Runner) { r.journal = j }
}

// WithMetrics reports every tick to a metrics recorder
func WithMetrics(m MetricsRecorder) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithTicksPerSecond paces Run. Zero or less runs as fast as possible.
func WithTicksPerSecond(tps float64) RunnerOption {
	return func(r *Runner) {
		if tps <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(tps), 1)
	}
}

// WithClock overrides the clock used for journal timestamps
func WithClock(c shared.Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithRunID fixes the run identifier instead of generating one
func WithRunID(id string) RunnerOption {
	return func(r *Runner) { r.runID = id }
}

// NewRunner creates a runner starting from the given state
func NewRunner(engine *simulation.Engine, initial *simulation.State, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:  engine,
		state:   initial,
		runID:   uuid.New().String(),
		limiter: rate.NewLimiter(rate.Inf, 1),
		clock:   shared.SystemClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies the run in the journal
func (r *Runner) RunID() string {
	return r.runID
}

// Engine exposes the engine for queries
func (r *Runner) Engine() *simulation.Engine {
	return r.engine
}

// Config returns the definitions the run uses
func (r *Runner) Config() *catalog.Config {
	return r.engine.Config()
}

// State returns the latest state. States are never mutated after a step,
// so the caller may read it freely but must not modify it.
func (r *Runner) State() *simulation.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastReport returns the report of the most recent tick, nil before the first one
func (r *Runner) LastReport() *simulation.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Submit queues an action for the next tick and returns the queue length
func (r *Runner) Submit(a simulation.Action) int {
	if a.Party == "" {
		a.Party = catalog.PlayerController
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, a)
	return len(r.queue)
}

// Pending returns a copy of the queued actions
func (r *Runner) Pending() []simulation.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]simulation.Action(nil), r.queue...)
}

// Begin records the run in the journal
func (r *Runner) Begin(ctx context.Context) error {
	if r.journal.Runs == nil {
		return nil
	}
	cfg := r.engine.Config()
	now := r.clock.Now()
	run := &RunRecord{
		ID:        r.runID,
		Scenario:  cfg.Scenario.Name,
		Seed:      cfg.Scenario.Seed,
		Status:    RunStatusRunning,
		Tick:      r.State().Tick,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := r.journal.Runs.Create(ctx, run); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Finish marks the run with a final status
func (r *Runner) Finish(ctx context.Context, status string) error {
	if r.journal.Runs == nil {
		return nil
	}
	if err := r.journal.Runs.UpdateProgress(ctx, r.runID, r.State().Tick, status, r.clock.Now()); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// Step advances one tick with the queued actions. The state advances even
// when journaling fails; the journal error is returned afterwards.
func (r *Runner) Step(ctx context.Context) (*simulation.Report, error) {
	r.stepMu.Lock()
	defer r.stepMu.Unlock()

	r.mu.Lock()
	prev := r.state
	actions := r.queue
	r.queue = nil
	r.mu.Unlock()

	started := time.Now()
	next, report, err := r.engine.Step(prev, actions)
	if err != nil {
		r.mu.Lock()
		r.queue = append(actions, r.queue...)
		r.mu.Unlock()
		return nil, fmt.Errorf("tick %d: %w", prev.Tick+1, err)
	}
	duration := time.Since(started)

	r.mu.Lock()
	r.state = next
	r.last = report
	r.mu.Unlock()

	r.logReport(ctx, report)
	if r.metrics != nil {
		r.metrics.RecordTick(r.runID, next, report, duration)
	}
	if err := r.record(ctx, next, report); err != nil {
		return report, fmt.Errorf("journal tick %d: %w", report.Tick, err)
	}
	return report, nil
}

// Run steps until the context ends or maxTicks is reached (zero means no limit),
// paced by the configured rate
func (r *Runner) Run(ctx context.Context, maxTicks int) error {
	logger := logging.LoggerFromContext(ctx)
	logger.Log(logging.LevelInfo, "Simulation run started", map[string]interface{}{
		"run_id":    r.runID,
		"max_ticks": maxTicks,
	})

	for maxTicks <= 0 || r.State().Tick < maxTicks {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}
		if _, err := r.Step(ctx); err != nil {
			logger.Log(logging.LevelError, "Simulation tick failed", map[string]interface{}{
				"run_id": r.runID,
				"error":  err.Error(),
			})
			return err
		}
	}

	logger.Log(logging.LevelInfo, "Simulation run stopped", map[string]interface{}{
		"run_id": r.runID,
		"tick":   r.State().Tick,
	})
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (r *Runner) logReport(ctx context.Context, report *simulation.Report) {
	logger := logging.LoggerFromContext(ctx)
	for _, w := range report.Warnings {
		logger.Log(logging.LevelWarn, w.Message, map[string]interface{}{
			"tick":    report.Tick,
			"entity":  w.EntityID,
			"balance": w.Balance,
		})
	}
	for _, rej := range report.Rejected {
		logger.Log(logging.LevelInfo, "Action rejected", map[string]interface{}{
			"tick":   report.Tick,
			"action": rej.Action.String(),
			"reason": rej.Reason,
		})
	}
	logger.Log(logging.LevelDebug, "Tick completed", map[string]interface{}{
		"tick":      report.Tick,
		"postings":  len(report.Postings),
		"accepted":  report.Orders.Accepted,
		"delivered": report.Orders.Delivered,
		"penalties": report.Contracts.Penalties,
	})
}

func (r *Runner) record(ctx context.Context, s *simulation.State, report *simulation.Report) error {
	now := r.clock.Now()

	if r.journal.Transactions != nil && len(report.Postings) > 0 {
		txs := make([]*ledger.Transaction, 0, len(report.Postings))
		for _, p := range report.Postings {
			tx, err := p.ToTransaction(r.runID, now)
			if err != nil {
				return err
			}
			txs = append(txs, tx)
		}
		if err := r.journal.Transactions.CreateBatch(ctx, txs); err != nil {
			return fmt.Errorf("failed to record transactions: %w", err)
		}
	}

	if r.journal.Contracts != nil {
		for _, id := range report.ChangedContracts {
			c, ok := s.Contract(id)
			if !ok {
				continue
			}
			if err := r.journal.Contracts.Save(ctx, r.runID, c); err != nil {
				return fmt.Errorf("failed to save contract %s: %w", id, err)
			}
		}
	}

	if r.journal.Ticks != nil {
		if err := r.journal.Ticks.Save(ctx, NewTickSummary(r.runID, s, report, now)); err != nil {
			return fmt.Errorf("failed to save tick summary: %w", err)
		}
	}

	if r.journal.Runs != nil {
		if err := r.journal.Runs.UpdateProgress(ctx, r.runID, s.Tick, RunStatusRunning, now); err != nil {
			return fmt.Errorf("failed to update run: %w", err)
		}
	}
	return nil
}

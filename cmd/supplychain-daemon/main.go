package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/andrescamacho/supplychain-go/internal/adapters/definitions"
	"github.com/andrescamacho/supplychain-go/internal/adapters/metrics"
	"github.com/andrescamacho/supplychain-go/internal/adapters/persistence"
	"github.com/andrescamacho/supplychain-go/internal/application/logging"
	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	simCommands "github.com/andrescamacho/supplychain-go/internal/application/simulation/commands"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
	"github.com/andrescamacho/supplychain-go/internal/infrastructure/config"
	"github.com/andrescamacho/supplychain-go/internal/infrastructure/database"
	"github.com/andrescamacho/supplychain-go/internal/infrastructure/pidfile"
)

// orderFlags collects repeated -order flags
type orderFlags []string

func (o *orderFlags) String() string     { return strings.Join(*o, ",") }
func (o *orderFlags) Set(v string) error { *o = append(*o, v); return nil }

func main() {
	configPath := flag.String("config", "", "Path to config file (default: search ./, ./configs, /etc/supplychain)")
	definitionsPath := flag.String("definitions", "", "Override the scenario definitions file")
	var orders orderFlags
	flag.Var(&orders, "order", "Order entity:resource:quantity:price:supplier placed by the player on the first tick (repeatable)")
	flag.Parse()

	fmt.Println("Supply Chain Simulation Daemon v0.1.0")
	fmt.Println("=====================================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)
	if *definitionsPath != "" {
		cfg.Simulation.DefinitionsPath = *definitionsPath
	}

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	fmt.Println("PID file lock acquired")

	runErr := run(cfg, orders)
	if err := pf.Release(); err != nil {
		log.Printf("Warning: failed to release PID file: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Fatal error: %v", runErr)
	}
}

func run(cfg *config.Config, orders []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Logger
	logOut, logFile, err := cfg.Logging.Open(os.Stdout)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger, err := logging.NewStdLogger(logOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	ctx = logging.WithLogger(ctx, logger)

	// 2. Scenario definitions
	fmt.Printf("Loading definitions from %s...\n", cfg.Simulation.DefinitionsPath)
	defs, err := definitions.LoadFile(cfg.Simulation.DefinitionsPath)
	if err != nil {
		return err
	}
	fmt.Printf("Scenario %s loaded: %d entities, %d locations\n", defs.Config.Scenario.Name, len(defs.Config.Scenario.Entities), len(defs.Config.Locations))

	engine := simulation.NewEngine(defs.Config, defs.Network)
	runnerOpts := []appSim.RunnerOption{appSim.WithTicksPerSecond(cfg.Simulation.TicksPerSecond)}

	// 3. Journal
	if cfg.Simulation.Journal {
		fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		runnerOpts = append(runnerOpts, appSim.WithJournal(appSim.Journal{
			Runs:         persistence.NewGormRunRepository(db),
			Ticks:        persistence.NewGormTickSummaryRepository(db),
			Transactions: persistence.NewGormTransactionRepository(db),
			Contracts:    persistence.NewGormContractRepository(db),
		}))
		fmt.Println("Journal enabled")
	}

	// 4. Metrics
	med := mediator.NewMediator()
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		simMetrics := metrics.NewSimulationMetricsCollector()
		if err := simMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register simulation metrics: %w", err)
		}
		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		med.Use(metrics.PrometheusMiddleware(commandMetrics))
		runnerOpts = append(runnerOpts, appSim.WithMetrics(simMetrics))

		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Address(), cfg.Metrics.Path); err != nil {
				log.Printf("Warning: metrics server stopped: %v", err)
			}
		}()
		fmt.Printf("Metrics exposed on http://%s%s\n", cfg.Metrics.Address(), cfg.Metrics.Path)
	}

	// 5. Runner and handlers
	runner := appSim.NewRunner(engine, simulation.NewState(defs.Config), runnerOpts...)
	if err := simCommands.RegisterHandlers(med, runner); err != nil {
		return fmt.Errorf("failed to register command handlers: %w", err)
	}

	for _, o := range orders {
		cmd, err := parseOrder(o)
		if err != nil {
			return err
		}
		if _, err := med.Send(ctx, cmd); err != nil {
			return fmt.Errorf("failed to submit order %q: %w", o, err)
		}
	}

	if err := runner.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin run: %w", err)
	}
	fmt.Printf("Run %s started (max ticks %d, %.2f ticks/s)\n", runner.RunID(), cfg.Simulation.MaxTicks, cfg.Simulation.TicksPerSecond)

	runErr := runner.Run(ctx, cfg.Simulation.MaxTicks)

	status := appSim.RunStatusFinished
	switch {
	case runErr != nil:
		status = appSim.RunStatusFailed
	case ctx.Err() != nil:
		status = appSim.RunStatusStopped
		fmt.Println("Shutdown signal received")
	}

	finishCtx, cancel := context.WithTimeout(logging.WithLogger(context.Background(), logger), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if err := runner.Finish(finishCtx, status); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to finish run: %w", err))
	}

	fmt.Printf("Run %s %s at tick %d\n", runner.RunID(), status, runner.State().Tick)
	return runErr
}

// parseOrder reads "entity:resource:quantity:price:supplier"
func parseOrder(s string) (*simCommands.SubmitActionCommand, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 {
		return nil, fmt.Errorf("invalid order %q: want entity:resource:quantity:price:supplier", s)
	}
	quantity, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity in order %q: %w", s, err)
	}
	price, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price in order %q: %w", s, err)
	}
	return &simCommands.SubmitActionCommand{
		EntityID:     parts[0],
		Kind:         string(simulation.ActionPlaceOrder),
		Target:       parts[1],
		Quantity:     quantity,
		Price:        price,
		Counterparty: parts[4],
	}, nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"

	"github.com/andrescamacho/supplychain-go/internal/adapters/definitions"
	"github.com/andrescamacho/supplychain-go/internal/adapters/persistence"
	"github.com/andrescamacho/supplychain-go/internal/application/logging"
	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	simCommands "github.com/andrescamacho/supplychain-go/internal/application/simulation/commands"
	simQueries "github.com/andrescamacho/supplychain-go/internal/application/simulation/queries"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
	"github.com/andrescamacho/supplychain-go/internal/infrastructure/config"
	"github.com/andrescamacho/supplychain-go/internal/infrastructure/database"
)

// session is one in-process simulation wired to the mediator
type session struct {
	cfg      *config.Config
	runner   *appSim.Runner
	mediator mediator.Mediator
	db       *gorm.DB
	logs     io.Closer
	ctx      context.Context
}

type sessionOptions struct {
	journal        bool
	ticksPerSecond float64
}

// loadConfig applies the global flags on top of the loaded configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if definitionsPath != "" {
		cfg.Simulation.DefinitionsPath = definitionsPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the configured logger. Command output goes to stdout, so
// a stdout log destination is redirected to stderr.
func newLogger(cfg config.LoggingConfig) (logging.Logger, io.Closer, error) {
	w, closer, err := cfg.Open(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewStdLogger(w, cfg.Level, cfg.Format)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, nil, err
	}
	return logger, closer, nil
}

func openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	defs, err := definitions.LoadFile(cfg.Simulation.DefinitionsPath)
	if err != nil {
		return nil, err
	}

	logger, logs, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	engine := simulation.NewEngine(defs.Config, defs.Network)
	runnerOpts := []appSim.RunnerOption{appSim.WithTicksPerSecond(opts.ticksPerSecond)}

	s := &session{cfg: cfg, logs: logs, ctx: logging.WithLogger(ctx, logger)}
	if opts.journal {
		db, err := openJournal(cfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.db = db
		runnerOpts = append(runnerOpts, appSim.WithJournal(journalFor(db)))
	}

	s.runner = appSim.NewRunner(engine, simulation.NewState(defs.Config), runnerOpts...)
	s.mediator = mediator.NewMediator()
	if err := simCommands.RegisterHandlers(s.mediator, s.runner); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}
	if err := simQueries.RegisterHandlers(s.mediator, s.runner); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to register queries: %w", err)
	}
	return s, nil
}

func openJournal(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func journalFor(db *gorm.DB) appSim.Journal {
	return appSim.Journal{
		Runs:         persistence.NewGormRunRepository(db),
		Ticks:        persistence.NewGormTickSummaryRepository(db),
		Transactions: persistence.NewGormTransactionRepository(db),
		Contracts:    persistence.NewGormContractRepository(db),
	}
}

// advance steps n autonomous ticks through the mediator
func (s *session) advance(n int) error {
	if n <= 0 {
		return nil
	}
	if _, err := s.mediator.Send(s.ctx, &simCommands.StepTickCommand{Ticks: n}); err != nil {
		return fmt.Errorf("failed to advance %d ticks: %w", n, err)
	}
	return nil
}

func (s *session) Close() {
	if s.db != nil {
		_ = database.Close(s.db)
	}
	if s.logs != nil {
		_ = s.logs.Close()
	}
}

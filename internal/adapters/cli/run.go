package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	simCommands "github.com/andrescamacho/supplychain-go/internal/application/simulation/commands"
	simQueries "github.com/andrescamacho/supplychain-go/internal/application/simulation/queries"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		ticks   int
		tps     float64
		journal bool
		actions []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation for a number of ticks",
		Long: `Run the scenario from its initial state.

Actions given with --action are applied on the first tick. The run is paced
by --tps (0 steps as fast as possible) and stops after --ticks ticks or on
interrupt. With --journal every tick is written to the configured database.

Examples:
  supplychain run --ticks 200
  supplychain run --ticks 0 --tps 2 --journal
  supplychain run --ticks 50 --action "harbour_shop:place_order:bread:10:7:bakery"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ticks") {
				ticks = cfg.Simulation.MaxTicks
			}
			if !cmd.Flags().Changed("tps") {
				tps = cfg.Simulation.TicksPerSecond
			}
			if !cmd.Flags().Changed("journal") {
				journal = cfg.Simulation.Journal
			}
			return runSimulation(cmd, ticks, tps, journal, actions)
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 100, "Number of ticks to run (0 runs until interrupted)")
	cmd.Flags().Float64Var(&tps, "tps", 0, "Ticks per second (0 = unpaced)")
	cmd.Flags().BoolVar(&journal, "journal", false, "Journal the run to the database")
	cmd.Flags().StringArrayVar(&actions, "action", nil, "Action entity:kind:target[:quantity[:price[:counterparty]]] (repeatable)")

	return cmd
}

func runSimulation(cmd *cobra.Command, ticks int, tps float64, journal bool, actions []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, sessionOptions{journal: journal, ticksPerSecond: tps})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.submitActions(actions); err != nil {
		return err
	}
	if err := s.runner.Begin(s.ctx); err != nil {
		return err
	}

	runErr := s.runner.Run(s.ctx, ticks)

	status := appSim.RunStatusFinished
	switch {
	case runErr != nil:
		status = appSim.RunStatusFailed
	case ctx.Err() != nil:
		status = appSim.RunStatusStopped
	}
	// the run context may already be cancelled
	if err := s.runner.Finish(context.Background(), status); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s %s at tick %d\n", s.runner.RunID(), status, s.runner.State().Tick)
	if journal {
		fmt.Fprintf(out, "Journaled to %s database\n", s.cfg.Database.Type)
	}
	return printEntities(s, out)
}

// NewStepCommand creates the step command
func NewStepCommand() *cobra.Command {
	var (
		ticks   int
		actions []string
	)

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Step a few ticks and print each tick report",
		Long: `Step the scenario tick by tick from its initial state and print what
happened in each tick: orders, deliveries, retail sales, contract penalties,
warnings and rejected actions.

Examples:
  supplychain step --ticks 5
  supplychain step --ticks 3 --action "farm_north:stop_line:L000001"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background(), sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.submitActions(actions); err != nil {
				return err
			}

			resp, err := s.mediator.Send(s.ctx, &simCommands.StepTickCommand{Ticks: ticks})
			if err != nil {
				return err
			}
			printReports(cmd.OutOrStdout(), resp.(*simCommands.StepTickResponse).Reports)
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 1, "Number of ticks to step")
	cmd.Flags().StringArrayVar(&actions, "action", nil, "Action entity:kind:target[:quantity[:price[:counterparty]]] (repeatable)")

	return cmd
}

// NewEntitiesCommand creates the entities command
func NewEntitiesCommand() *cobra.Command {
	var after int

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Show money, inventory and commitments of every entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background(), sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.advance(after); err != nil {
				return err
			}
			return printEntities(s, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&after, "after", 0, "Advance this many autonomous ticks first")
	return cmd
}

func printEntities(s *session, out io.Writer) error {
	resp, err := s.mediator.Send(s.ctx, &simQueries.ListEntitiesQuery{})
	if err != nil {
		return err
	}
	displayEntities(out, resp.(*simQueries.ListEntitiesResponse))
	return nil
}

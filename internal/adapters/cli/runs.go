package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/supplychain-go/internal/adapters/persistence"
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/infrastructure/database"
)

// NewRunsCommand creates the runs command with subcommands
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect journaled simulation runs",
		Long: `List journaled runs and show their per-tick summaries and contracts.

Examples:
  supplychain runs list
  supplychain runs ticks <run-id> --from 10 --to 20
  supplychain runs contracts <run-id> --status active`,
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsTicksCommand())
	cmd.AddCommand(newRunsContractsCommand())

	return cmd
}

func newRunsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			runs, err := persistence.NewGormRunRepository(db).List(context.Background(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found")
				return nil
			}
			w := newTable(out)
			fmt.Fprintln(w, "Run\tScenario\tSeed\tStatus\tTick\tStarted\tUpdated")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
					r.ID, r.Scenario, r.Seed, r.Status, r.Tick,
					r.StartedAt.Format("2006-01-02 15:04:05"), r.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func newRunsTicksCommand() *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "ticks <run-id>",
		Short: "Show the per-tick summaries of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			summaries, err := persistence.NewGormTickSummaryRepository(db).FindByRun(context.Background(), args[0], from, to)
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "Tick\tPlaced\tAccepted\tDeclined\tDelivered\tSold\tRevenue\tPenalties\tMoney\tInventory\tIn transit")
			for _, s := range summaries {
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%.1f\t%.2f\t%.2f\t%.2f\t%.1f\t%.1f\n",
					s.Tick, s.OrdersPlaced, s.OrdersAccepted, s.OrdersDeclined, s.OrdersDelivered,
					s.Sold, s.RetailRevenue, s.Penalties, s.TotalMoney, s.TotalInventory, s.InTransitQuantity)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "First tick")
	cmd.Flags().IntVar(&to, "to", 0, "Last tick (0 = open)")
	return cmd
}

func newRunsContractsCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "contracts <run-id>",
		Short: "Show the latest snapshot of every contract of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			contracts, err := persistence.NewGormContractRepository(db).FindByRun(context.Background(), args[0], contract.Status(status))
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "Contract\tSeller\tBuyer\tResource\tPrice\tShipped\tMissed\tPenalties\tStatus\tReason")
			for _, c := range contracts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.1f\t%.1f\t%.2f\t%s\t%s\n",
					c.ID(), c.SellerID(), c.BuyerID(), c.Resource(), c.Price(),
					c.UnitsShipped(), c.UnitsMissed(), c.PenaltiesCharged(), c.Status(), c.Reason())
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (proposed, active, completed, cancelled)")
	return cmd
}

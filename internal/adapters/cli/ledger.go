package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/supplychain-go/internal/adapters/persistence"
	ledgerQueries "github.com/andrescamacho/supplychain-go/internal/application/ledger/queries"
	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	"github.com/andrescamacho/supplychain-go/internal/infrastructure/database"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect journaled money movements",
		Long: `View and analyze the transactions of a journaled run.

Every money movement of an entity is journaled: retail sales, storage costs,
order payments and receipts, contract penalties and penalty receipts.

Examples:
  supplychain ledger list --run <run-id> --entity bakery
  supplychain ledger list --run <run-id> --entity mill --category PENALTIES
  supplychain ledger report profit-loss --run <run-id> --entity bakery --start 1 --end 100
  supplychain ledger report cash-flow --run <run-id> --entity bakery --group-by tick`,
	}

	cmd.AddCommand(newLedgerListCommand())
	cmd.AddCommand(newLedgerReportCommand())

	return cmd
}

// withLedger opens the journal and runs fn with a mediator serving the ledger queries
func withLedger(fn func(ctx context.Context, m mediator.Mediator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	m := mediator.NewMediator()
	if err := ledgerQueries.RegisterHandlers(m, persistence.NewGormTransactionRepository(db)); err != nil {
		return err
	}
	return fn(context.Background(), m)
}

func newLedgerListCommand() *cobra.Command {
	var (
		runID      string
		entityID   string
		start, end int
		category   string
		txType     string
		related    string
		limit      int
		offset     int
		orderBy    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions of an entity",
		Long: `List an entity's transactions in a run with optional filtering.

Categories:
  RETAIL_REVENUE   - Sales to end customers
  TRADING_REVENUE  - Receipts for delivered orders
  TRADING_COSTS    - Payments for delivered orders
  OPERATING_COSTS  - Storage costs
  PENALTIES        - Charged for missed contract units
  PENALTY_INCOME   - Compensation for missed contract units`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := &ledgerQueries.GetTransactionsQuery{
				RunID:     runID,
				EntityID:  entityID,
				StartTick: start,
				EndTick:   end,
				Category:  category,
				Type:      txType,
				Related:   related,
				Limit:     limit,
				Offset:    offset,
				OrderBy:   orderBy,
			}

			return withLedger(func(ctx context.Context, m mediator.Mediator) error {
				resp, err := m.Send(ctx, query)
				if err != nil {
					return fmt.Errorf("failed to query transactions: %w", err)
				}
				displayTransactionList(cmd.OutOrStdout(), resp.(*ledgerQueries.GetTransactionsResponse))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID [required]")
	cmd.Flags().StringVar(&entityID, "entity", "", "Entity ID [required]")
	cmd.Flags().IntVar(&start, "start", 0, "First tick (inclusive)")
	cmd.Flags().IntVar(&end, "end", 0, "Last tick (inclusive, 0 = open)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&txType, "type", "", "Filter by transaction type")
	cmd.Flags().StringVar(&related, "related", "", "Filter by related entity, e.g. order or contract:C000001")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of transactions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")
	cmd.Flags().StringVar(&orderBy, "order-by", "tick DESC", "Sort order: tick or amount, asc or desc")
	_ = cmd.MarkFlagRequired("run")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}

func newLedgerReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate profit & loss and cash flow reports",
	}

	cmd.AddCommand(newLedgerProfitLossCommand())
	cmd.AddCommand(newLedgerCashFlowCommand())

	return cmd
}

func newLedgerProfitLossCommand() *cobra.Command {
	var (
		runID      string
		entityID   string
		start, end int
	)

	cmd := &cobra.Command{
		Use:   "profit-loss",
		Short: "Profit & loss statement of an entity over a tick range",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(func(ctx context.Context, m mediator.Mediator) error {
				resp, err := m.Send(ctx, &ledgerQueries.GetProfitLossQuery{
					RunID: runID, EntityID: entityID, StartTick: start, EndTick: end,
				})
				if err != nil {
					return fmt.Errorf("failed to generate P&L report: %w", err)
				}
				displayProfitLoss(cmd.OutOrStdout(), resp.(*ledgerQueries.GetProfitLossResponse))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID [required]")
	cmd.Flags().StringVar(&entityID, "entity", "", "Entity ID [required]")
	cmd.Flags().IntVar(&start, "start", 0, "First tick (inclusive)")
	cmd.Flags().IntVar(&end, "end", 0, "Last tick (inclusive, 0 = open)")
	_ = cmd.MarkFlagRequired("run")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}

func newLedgerCashFlowCommand() *cobra.Command {
	var (
		runID      string
		entityID   string
		start, end int
		groupBy    string
	)

	cmd := &cobra.Command{
		Use:   "cash-flow",
		Short: "Cash flow statement of an entity grouped by category or tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(func(ctx context.Context, m mediator.Mediator) error {
				resp, err := m.Send(ctx, &ledgerQueries.GetCashFlowQuery{
					RunID: runID, EntityID: entityID, StartTick: start, EndTick: end, GroupBy: groupBy,
				})
				if err != nil {
					return fmt.Errorf("failed to generate cash flow report: %w", err)
				}
				displayCashFlow(cmd.OutOrStdout(), groupBy, resp.(*ledgerQueries.GetCashFlowResponse))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID [required]")
	cmd.Flags().StringVar(&entityID, "entity", "", "Entity ID [required]")
	cmd.Flags().IntVar(&start, "start", 0, "First tick (inclusive)")
	cmd.Flags().IntVar(&end, "end", 0, "Last tick (inclusive, 0 = open)")
	cmd.Flags().StringVar(&groupBy, "group-by", "category", "Group by (category, tick)")
	_ = cmd.MarkFlagRequired("run")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}

func displayTransactionList(out io.Writer, resp *ledgerQueries.GetTransactionsResponse) {
	if len(resp.Transactions) == 0 {
		fmt.Fprintln(out, "No transactions found")
		return
	}

	fmt.Fprintf(out, "\nTRANSACTIONS (Showing %d of %d total)\n%s\n", len(resp.Transactions), resp.Total, rule)
	w := newTable(out)
	fmt.Fprintln(w, "Tick\tType\tCategory\tAmount\tBalance\tRelated")
	for _, tx := range resp.Transactions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\n",
			tx.Tick, tx.Type, tx.Category, formatAmount(tx.Amount), tx.BalanceAfter, tx.Related())
	}
	w.Flush()

	fmt.Fprintf(out, "Page net: %s\n", formatAmount(resp.PageNet))
	if resp.HasMore {
		fmt.Fprintln(out, "More transactions available, use --offset to page")
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func displayProfitLoss(out io.Writer, resp *ledgerQueries.GetProfitLossResponse) {
	fmt.Fprintf(out, "\nPROFIT & LOSS STATEMENT\nPeriod: %s\n%s\n", resp.Period, rule)

	fmt.Fprintln(out, "\nREVENUE")
	for _, category := range sortedKeys(resp.RevenueBreakdown) {
		fmt.Fprintf(out, "  %-25s %12.2f\n", category+":", resp.RevenueBreakdown[category])
	}
	fmt.Fprintf(out, "  %-25s %12.2f\n", "Total Revenue:", resp.TotalRevenue)

	fmt.Fprintln(out, "\nEXPENSES")
	for _, category := range sortedKeys(resp.ExpenseBreakdown) {
		fmt.Fprintf(out, "  %-25s %12.2f\n", category+":", -resp.ExpenseBreakdown[category])
	}
	fmt.Fprintf(out, "  %-25s %12.2f\n", "Total Expenses:", -resp.TotalExpenses)

	fmt.Fprintf(out, "\n%s\nNET PROFIT:               %s\n", rule, formatAmount(resp.NetProfit))
}

func displayCashFlow(out io.Writer, groupBy string, resp *ledgerQueries.GetCashFlowResponse) {
	fmt.Fprintf(out, "\nCASH FLOW STATEMENT (By %s)\nPeriod: %s\n%s\n", groupBy, resp.Period, rule)

	w := newTable(out)
	fmt.Fprintln(w, "Group\tInflow\tOutflow\tNet Flow\tTransactions")

	var inflow, outflow, net float64
	count := 0
	for _, g := range resp.Groups {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\t%d\n", g.Key, g.TotalInflow, -g.TotalOutflow, formatAmount(g.NetFlow), g.Transactions)
		inflow += g.TotalInflow
		outflow += g.TotalOutflow
		net += g.NetFlow
		count += g.Transactions
	}
	fmt.Fprintf(w, "TOTAL\t%.2f\t%.2f\t%s\t%d\n", inflow, -outflow, formatAmount(net), count)
	w.Flush()
}


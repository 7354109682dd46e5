package cli

import (
	"context"

	"github.com/spf13/cobra"

	simQueries "github.com/andrescamacho/supplychain-go/internal/application/simulation/queries"
)

// inspectCommand wraps a query run after advancing --after autonomous ticks
func inspectCommand(use, short, long string, args cobra.PositionalArgs, run func(cmd *cobra.Command, s *session, args []string) error) *cobra.Command {
	var after int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background(), sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.advance(after); err != nil {
				return err
			}
			return run(cmd, s, args)
		},
	}
	cmd.Flags().IntVar(&after, "after", 0, "Advance this many autonomous ticks first")
	return cmd
}

// NewRouteCommand creates the route command
func NewRouteCommand() *cobra.Command {
	cmd := inspectCommand(
		"route <from> <to>",
		"Show the fastest route between two locations or entities",
		`Show transport time and path between two locations. Entity ids are
resolved to their locations. The time includes local transport at both ends.

Example:
  supplychain route bakery harbour_shop`,
		cobra.ExactArgs(2),
		func(cmd *cobra.Command, s *session, args []string) error {
			resp, err := s.mediator.Send(s.ctx, &simQueries.GetRouteQuery{From: args[0], To: args[1]})
			if err != nil {
				return err
			}
			displayRoute(cmd.OutOrStdout(), resp.(*simQueries.GetRouteResponse))
			return nil
		},
	)
	return cmd
}

// NewOrderBookCommand creates the orderbook command
func NewOrderBookCommand() *cobra.Command {
	var horizon int
	cmd := inspectCommand(
		"orderbook <entity>",
		"Show scheduled contract deliveries of an entity",
		`List the contract deliveries an entity will send or receive within the
horizon, ordered by due tick.

Example:
  supplychain orderbook mill --after 40 --horizon 30`,
		cobra.ExactArgs(1),
		func(cmd *cobra.Command, s *session, args []string) error {
			h := horizon
			if !cmd.Flags().Changed("horizon") {
				h = s.cfg.Simulation.OrderBookHorizon
			}
			resp, err := s.mediator.Send(s.ctx, &simQueries.GetOrderBookQuery{EntityID: args[0], Horizon: h})
			if err != nil {
				return err
			}
			displayOrderBook(cmd.OutOrStdout(), args[0], resp.(*simQueries.GetOrderBookResponse))
			return nil
		},
	)
	cmd.Flags().IntVar(&horizon, "horizon", simQueries.DefaultOrderBookHorizon, "Ticks to look ahead")
	return cmd
}

// NewSuppliersCommand creates the suppliers command
func NewSuppliersCommand() *cobra.Command {
	cmd := inspectCommand(
		"suppliers <buyer> <resource>",
		"List eligible suppliers of a resource for a buyer",
		`List the buyer's eligible sellers for a resource with their live
available stock and transport time, best first.

Example:
  supplychain suppliers bakery flour --after 10`,
		cobra.ExactArgs(2),
		func(cmd *cobra.Command, s *session, args []string) error {
			resp, err := s.mediator.Send(s.ctx, &simQueries.ListSuppliersQuery{BuyerID: args[0], Resource: args[1]})
			if err != nil {
				return err
			}
			displaySuppliers(cmd.OutOrStdout(), args[0], args[1], resp.(*simQueries.ListSuppliersResponse))
			return nil
		},
	)
	return cmd
}

// NewActivityCommand creates the activity command
func NewActivityCommand() *cobra.Command {
	cmd := inspectCommand(
		"activity <entity>",
		"Show lines, orders, deliveries and contracts of an entity",
		`Show everything an entity is involved in at the current tick.

Example:
  supplychain activity harbour_shop --after 25`,
		cobra.ExactArgs(1),
		func(cmd *cobra.Command, s *session, args []string) error {
			resp, err := s.mediator.Send(s.ctx, &simQueries.GetEntityActivityQuery{EntityID: args[0]})
			if err != nil {
				return err
			}
			displayActivity(cmd.OutOrStdout(), resp.(*simQueries.GetEntityActivityResponse))
			return nil
		},
	)
	return cmd
}

// NewDemandCommand creates the demand command
func NewDemandCommand() *cobra.Command {
	cmd := inspectCommand(
		"demand",
		"Show the demand phase of every location",
		`Show the current phase, progress and multiplier of each location's
demand cycle.

Example:
  supplychain demand --after 12`,
		cobra.NoArgs,
		func(cmd *cobra.Command, s *session, args []string) error {
			resp, err := s.mediator.Send(s.ctx, &simQueries.GetDemandPhasesQuery{})
			if err != nil {
				return err
			}
			displayDemand(cmd.OutOrStdout(), resp.(*simQueries.GetDemandPhasesResponse))
			return nil
		},
	)
	return cmd
}

package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	simQueries "github.com/andrescamacho/supplychain-go/internal/application/simulation/queries"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

const rule = "─────────────────────────────────────────────────────────────────────────────"

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

// formatAmount renders a signed money movement
func formatAmount(amount float64) string {
	if amount >= 0 {
		return fmt.Sprintf("+%.2f", amount)
	}
	return fmt.Sprintf("%.2f", amount)
}

// formatStock renders a resource map in name order
func formatStock(stock map[string]float64) string {
	if len(stock) == 0 {
		return "-"
	}
	names := make([]string, 0, len(stock))
	for name := range stock {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.1f", name, stock[name]))
	}
	return strings.Join(parts, " ")
}

func displayEntities(out io.Writer, resp *simQueries.ListEntitiesResponse) {
	fmt.Fprintf(out, "\nENTITIES (tick %d)\n%s\n", resp.Tick, rule)
	w := newTable(out)
	fmt.Fprintln(w, "Entity\tType\tLocation\tController\tMoney\tInventory\tCommitted\tLines")
	for _, e := range resp.Entities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\t%d\n",
			e.ID, e.Type, e.Location, e.Controller, e.Money,
			formatStock(e.Inventory), formatStock(e.Committed), e.Lines)
	}
	w.Flush()
}

func printReports(out io.Writer, reports []*simulation.Report) {
	for _, r := range reports {
		fmt.Fprintf(out, "\nTICK %d\n%s\n", r.Tick, rule)
		fmt.Fprintf(out, "Orders:    placed %d, accepted %d (partial %d), declined %d, departed %d, delivered %d\n",
			r.Orders.Placed, r.Orders.Accepted, r.Orders.Partial, r.Orders.Declined, r.Orders.Departed, r.Orders.Delivered)
		fmt.Fprintf(out, "Contracts: proposed %d, activated %d, deliveries %d, misses %d (%.1f units, penalties %.2f)\n",
			r.Contracts.Proposed, r.Contracts.Activated, r.Contracts.Deliveries, r.Contracts.Misses,
			r.Contracts.MissedUnits, r.Contracts.Penalties)
		fmt.Fprintf(out, "Produced:  %s\n", formatStock(r.Produced))
		fmt.Fprintf(out, "Consumed:  %s\n", formatStock(r.Consumed))
		fmt.Fprintf(out, "Sold:      %s\n", formatStock(r.Sold))
		for _, w := range r.Warnings {
			fmt.Fprintf(out, "WARNING   %s: %s (balance %.2f)\n", w.EntityID, w.Message, w.Balance)
		}
		for _, rej := range r.Rejected {
			fmt.Fprintf(out, "REJECTED  %s: %s\n", rej.Action, rej.Reason)
		}
	}
}

func displayRoute(out io.Writer, resp *simQueries.GetRouteResponse) {
	route := resp.Route
	fmt.Fprintf(out, "Route %s -> %s: %d ticks\n", route.From, route.To, route.Ticks)
	fmt.Fprintf(out, "Path:  %s\n", strings.Join(route.Path, " -> "))
}

func displayOrderBook(out io.Writer, entityID string, resp *simQueries.GetOrderBookResponse) {
	fmt.Fprintf(out, "\nORDER BOOK %s (ticks %d to %d)\n%s\n", entityID, resp.Tick+1, resp.Tick+resp.Horizon, rule)
	if len(resp.Deliveries) == 0 {
		fmt.Fprintln(out, "No scheduled deliveries")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, "Tick\tContract\tSeller\tBuyer\tResource\tUnits\tValue")
	for _, d := range resp.Deliveries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.1f\t%.2f\n",
			d.Tick, d.ContractID, d.SellerID, d.BuyerID, d.Resource, d.Units, d.Value)
	}
	w.Flush()
}

func displaySuppliers(out io.Writer, buyerID, resource string, resp *simQueries.ListSuppliersResponse) {
	fmt.Fprintf(out, "\nSUPPLIERS of %s for %s\n%s\n", resource, buyerID, rule)
	if len(resp.Suppliers) == 0 {
		fmt.Fprintln(out, "No eligible suppliers")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, "Seller\tLocation\tAvailable\tTransport")
	for _, s := range resp.Suppliers {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\n", s.EntityID, s.LocationID, s.Available, s.TransportTicks)
	}
	w.Flush()
}

func displayActivity(out io.Writer, resp *simQueries.GetEntityActivityResponse) {
	a := resp.Activity
	e := a.Entity
	fmt.Fprintf(out, "\n%s (%s at %s, tick %d)\n%s\n", e.ID, e.TypeID, e.LocationID, resp.Tick, rule)
	fmt.Fprintf(out, "Money:     %.2f\n", e.Money)
	fmt.Fprintf(out, "Inventory: %s\n", formatStock(e.Inventory))
	fmt.Fprintf(out, "Committed: %s\n", formatStock(e.Committed))

	w := newTable(out)
	fmt.Fprintln(w, "\nLINES\t\t\t\t")
	for _, l := range a.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\tprogress %d\tvolume %.2f\n", l.ID, l.ProcessID, l.Phase, l.Progress, l.Volume)
	}
	fmt.Fprintln(w, "\nORDERS\t\t\t\t")
	for _, o := range a.Orders {
		fmt.Fprintf(w, "%s\t%s -> %s\t%s %.1f/%.1f @ %.2f\t%s\n",
			o.ID, o.SellerID, o.BuyerID, o.Resource, o.Fulfilled, o.Requested, o.Price, o.Status)
	}
	fmt.Fprintln(w, "\nDELIVERIES\t\t\t\t")
	for _, d := range a.Deliveries {
		fmt.Fprintf(w, "%s\t%s -> %s\t%s %.1f\t%d ticks left\n",
			d.OrderID, d.FromEntity, d.ToEntity, d.Resource, d.Quantity, d.RemainingTicks)
	}
	fmt.Fprintln(w, "\nCONTRACTS\t\t\t\t")
	for _, c := range a.Contracts {
		fmt.Fprintf(w, "%s\t%s -> %s\t%s %.1f shipped, %.1f missed\t%s\n",
			c.ID(), c.SellerID(), c.BuyerID(), c.Resource(), c.UnitsShipped(), c.UnitsMissed(), c.Status())
	}
	w.Flush()
}

func displayDemand(out io.Writer, resp *simQueries.GetDemandPhasesResponse) {
	fmt.Fprintf(out, "\nDEMAND (tick %d)\n%s\n", resp.Tick, rule)
	w := newTable(out)
	fmt.Fprintln(w, "Location\tPhase\tProgress\tMultiplier")
	for _, p := range resp.Phases {
		name := p.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%.2f\n", p.Location, name, p.Progress*100, p.Multiplier)
	}
	w.Flush()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// SimulationMetricsCollector exports the outcome of every tick
type SimulationMetricsCollector struct {
	currentTick  *prometheus.GaugeVec
	tickDuration prometheus.Histogram

	entityBalance   *prometheus.GaugeVec
	entityInventory *prometheus.GaugeVec
	inTransit       prometheus.Gauge

	ordersTotal     *prometheus.CounterVec
	lineOutcomes    *prometheus.CounterVec
	retailUnits     *prometheus.CounterVec
	retailRevenue   *prometheus.CounterVec
	rejectedActions *prometheus.CounterVec
	warningsTotal   prometheus.Counter

	contractsByStatus   *prometheus.GaugeVec
	contractMissedUnits prometheus.Counter
	contractPenalties   prometheus.Counter
}

// NewSimulationMetricsCollector creates the tick collector
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		currentTick: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick",
				Help:      "Last completed tick per run",
			},
			[]string{"run_id"},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Wall time spent computing one tick",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		entityBalance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "entity_balance",
				Help:      "Money held by each entity",
			},
			[]string{"entity"},
		),
		entityInventory: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "entity_inventory",
				Help:      "Units held by each entity per resource",
			},
			[]string{"entity", "resource"},
		),
		inTransit: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "in_transit_units",
				Help:      "Units currently travelling between entities",
			},
		),
		ordersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_total",
				Help:      "Order lifecycle events by outcome",
			},
			[]string{"outcome"},
		),
		lineOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "line_outcomes_total",
				Help:      "Production line tick outcomes",
			},
			[]string{"outcome"},
		),
		retailUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "retail_units_total",
				Help:      "Units sold to end customers",
			},
			[]string{"location", "resource"},
		),
		retailRevenue: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "retail_revenue_total",
				Help:      "Revenue from end-customer sales",
			},
			[]string{"location", "resource"},
		),
		rejectedActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rejected_actions_total",
				Help:      "Submitted actions that were invalid at their tick",
			},
			[]string{"kind"},
		),
		warningsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "warnings_total",
				Help:      "Warnings raised by the engine, such as negative balances",
			},
		),
		contractsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "contracts",
				Help:      "Contracts held in state by status",
			},
			[]string{"status"},
		),
		contractMissedUnits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "contract_missed_units_total",
				Help:      "Contract units that were due but not shipped",
			},
		),
		contractPenalties: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "contract_penalties_total",
				Help:      "Money charged to sellers for missed contract units",
			},
		),
	}
}

// Register registers all simulation metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	return register(
		c.currentTick,
		c.tickDuration,
		c.entityBalance,
		c.entityInventory,
		c.inTransit,
		c.ordersTotal,
		c.lineOutcomes,
		c.retailUnits,
		c.retailRevenue,
		c.rejectedActions,
		c.warningsTotal,
		c.contractsByStatus,
		c.contractMissedUnits,
		c.contractPenalties,
	)
}

// RecordTick implements the runner's MetricsRecorder
func (c *SimulationMetricsCollector) RecordTick(runID string, state *simulation.State, report *simulation.Report, duration time.Duration) {
	c.currentTick.WithLabelValues(runID).Set(float64(report.Tick))
	c.tickDuration.Observe(duration.Seconds())

	c.entityInventory.Reset()
	for id, e := range state.Entities {
		c.entityBalance.WithLabelValues(id).Set(e.Money)
		for resource, qty := range e.Inventory {
			c.entityInventory.WithLabelValues(id, resource).Set(qty)
		}
	}

	transit := 0.0
	for _, d := range state.Deliveries {
		transit += d.Quantity
	}
	c.inTransit.Set(transit)

	orders := report.Orders
	for outcome, n := range map[string]int{
		"placed":    orders.Placed,
		"accepted":  orders.Accepted,
		"partial":   orders.Partial,
		"declined":  orders.Declined,
		"departed":  orders.Departed,
		"delivered": orders.Delivered,
	} {
		if n > 0 {
			c.ordersTotal.WithLabelValues(outcome).Add(float64(n))
		}
	}

	for outcome, n := range report.LineOutcomes {
		c.lineOutcomes.WithLabelValues(string(outcome)).Add(float64(n))
	}

	for _, sale := range report.Sales {
		c.retailUnits.WithLabelValues(sale.LocationID, sale.Resource).Add(sale.Quantity)
		c.retailRevenue.WithLabelValues(sale.LocationID, sale.Resource).Add(sale.Revenue)
	}

	for _, r := range report.Rejected {
		c.rejectedActions.WithLabelValues(string(r.Action.Kind)).Inc()
	}
	c.warningsTotal.Add(float64(len(report.Warnings)))

	counts := map[contract.Status]int{
		contract.StatusProposed:  0,
		contract.StatusActive:    0,
		contract.StatusCompleted: 0,
		contract.StatusCancelled: 0,
	}
	for _, k := range state.Contracts {
		counts[k.Status()]++
	}
	for status, n := range counts {
		c.contractsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}

	c.contractMissedUnits.Add(report.Contracts.MissedUnits)
	c.contractPenalties.Add(report.Contracts.Penalties)
}

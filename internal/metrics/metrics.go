// Package metrics provides Prometheus metrics collection for the dashboard.
// It instruments the agent gateway, the synchronization loop and the last
// published snapshot, exposed via the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeAbsent  = "absent"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	// Gateway metrics
	FetchesTotal  *prometheus.CounterVec   // Fetches per resource and outcome
	FetchDuration *prometheus.HistogramVec // Fetch latency per resource

	// Synchronizer metrics
	SyncCycles        prometheus.Counter   // Completed synchronization cycles
	SyncDiscarded     prometheus.Counter   // Cycles discarded as stale or after stop
	SyncDuration      prometheus.Histogram // Duration of a full cycle
	APIConnected      prometheus.Gauge     // 1 when the portfolio resource was present
	LastUpdate        prometheus.Gauge     // Unix time of the last published snapshot
	PortfolioValue    prometheus.Gauge     // Total portfolio value of the last snapshot
	OpenPositions     prometheus.Gauge     // Positions in the last snapshot
	ProfitablePosFrac prometheus.Gauge     // Share of positions with positive pnl

	// Dashboard metrics
	WSClients prometheus.Gauge // Connected websocket clients
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agent_fetches_total",
			Help: "Total number of agent resource fetches by outcome",
		}, []string{"resource", "outcome"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agent_fetch_duration_seconds",
			Help:    "Agent resource fetch latency in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"resource"}),
		SyncCycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "sync_cycles_total",
			Help: "Total number of published synchronization cycles",
		}),
		SyncDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "sync_discarded_total",
			Help: "Total number of synchronization cycles discarded without publishing",
		}),
		SyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of a synchronization cycle in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		APIConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agent_connected",
			Help: "1 when the portfolio resource was present in the last cycle",
		}),
		LastUpdate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "snapshot_last_update_timestamp_seconds",
			Help: "Unix time of the last published snapshot",
		}),
		PortfolioValue: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portfolio_total_value",
			Help: "Total portfolio value of the last snapshot",
		}),
		OpenPositions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "open_positions",
			Help: "Number of open positions in the last snapshot",
		}),
		ProfitablePosFrac: factory.NewGauge(prometheus.GaugeOpts{
			Name: "profitable_positions_ratio",
			Help: "Share of open positions with positive pnl",
		}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_ws_clients",
			Help: "Number of connected dashboard websocket clients",
		}),
	}
}

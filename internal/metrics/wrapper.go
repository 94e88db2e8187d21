package metrics

import (
	"tradeforge-dashboard/internal/model"
	"tradeforge-dashboard/internal/stats"
)

// Interfaces consumed by the gateway, synchronizer and dashboard so they can
// be tested without a registry.
type FetchRecorder interface {
	ObserveFetch(resource string, ok bool, seconds float64)
}

type SyncRecorder interface {
	ObserveCycle(s model.Snapshot, seconds float64)
	SyncDiscardedInc()
}

type ClientGauge interface {
	SetWSClients(n int)
}

// MetricsWrapper adapts Metrics to the recorder interfaces
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

func (w *MetricsWrapper) ObserveFetch(resource string, ok bool, seconds float64) {
	outcome := OutcomeAbsent
	if ok {
		outcome = OutcomeSuccess
	}
	w.m.FetchesTotal.WithLabelValues(resource, outcome).Inc()
	w.m.FetchDuration.WithLabelValues(resource).Observe(seconds)
}

func (w *MetricsWrapper) ObserveCycle(s model.Snapshot, seconds float64) {
	w.m.SyncCycles.Inc()
	w.m.SyncDuration.Observe(seconds)

	if s.APIConnected {
		w.m.APIConnected.Set(1)
	} else {
		w.m.APIConnected.Set(0)
	}
	w.m.LastUpdate.Set(float64(s.LastUpdate.Unix()))
	w.m.PortfolioValue.Set(s.Portfolio.TotalValue)
	w.m.OpenPositions.Set(float64(len(s.Positions)))

	if len(s.Positions) == 0 {
		w.m.ProfitablePosFrac.Set(0)
		return
	}
	w.m.ProfitablePosFrac.Set(float64(stats.ProfitablePositionCount(s)) / float64(len(s.Positions)))
}

func (w *MetricsWrapper) SyncDiscardedInc() {
	w.m.SyncDiscarded.Inc()
}

func (w *MetricsWrapper) SetWSClients(n int) {
	w.m.WSClients.Set(float64(n))
}

// Nop discards every observation
type Nop struct{}

func (Nop) ObserveFetch(string, bool, float64)   {}
func (Nop) ObserveCycle(model.Snapshot, float64) {}
func (Nop) SyncDiscardedInc()                    {}
func (Nop) SetWSClients(int)                     {}

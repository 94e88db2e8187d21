// Package model defines the read model published by the synchronizer: the
// Snapshot and the six agent resources it is merged from.
//
// JSON field names follow the agent API so the published snapshot has the
// same shape the agent serves. Agent payloads are read with the tolerant
// decoders in decode.go rather than encoding/json.
package model

import "time"

// Portfolio is the account summary reported by the agent.
type Portfolio struct {
	TotalValue       float64 `json:"totalValue"`
	DayChange        float64 `json:"dayChange"`
	DayChangePercent float64 `json:"dayChangePercent"`
	TotalReturn      float64 `json:"totalReturn"`
	OpenPositions    int     `json:"openPositions"`
	ClosedToday      int     `json:"closedToday"`
	InitialCapital   float64 `json:"initialCapital"`
}

// BaselinePortfolio is substituted when the portfolio resource is absent.
func BaselinePortfolio(value float64) Portfolio {
	return Portfolio{
		TotalValue:     value,
		InitialCapital: value,
	}
}

// Position is one open position held by the agent.
type Position struct {
	ID           int64   `json:"id"`
	Ticker       string  `json:"ticker"`
	Type         string  `json:"type"` // buy/sell or LONG/SHORT style
	Strategy     string  `json:"strategy"`
	EntryPrice   float64 `json:"entry"`
	CurrentPrice float64 `json:"current"`
	Leverage     float64 `json:"leverage"`
	PnL          float64 `json:"pnl"` // percent
	Confidence   float64 `json:"confidence"`
}

// IsShort reports whether the position profits from falling prices.
func (p Position) IsShort() bool {
	switch p.Type {
	case "SHORT", "short", "PUT", "put", "SELL", "sell":
		return true
	}
	return false
}

const (
	TradeStatusOpen   = "open"
	TradeStatusClosed = "closed"

	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"
)

// Trade is one of today's trades. PnL is nil while the trade is still open.
type Trade struct {
	Time     string   `json:"time,omitempty"`
	Ticker   string   `json:"ticker"`
	Type     string   `json:"type"`
	Strategy string   `json:"strategy,omitempty"`
	Price    float64  `json:"price"`
	PnL      *float64 `json:"pnl"`
	Status   string   `json:"status"`
}

// Closed reports whether the trade has been closed.
func (t Trade) Closed() bool {
	return t.Status == TradeStatusClosed
}

type WatchlistItem struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"` // percent
}

type StrategyStat struct {
	Name      string  `json:"name"`
	Trades    int     `json:"trades"`
	WinRate   float64 `json:"winRate"`   // percent
	AvgReturn float64 `json:"avgReturn"` // percent
}

type PerformancePoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Snapshot is the complete state produced by one synchronization cycle.
// Collections are never nil; Portfolio is always concrete.
type Snapshot struct {
	Portfolio     Portfolio          `json:"portfolio"`
	Positions     []Position         `json:"positions"`
	TodayTrades   []Trade            `json:"todayTrades"`
	Watchlist     []WatchlistItem    `json:"watchlist"`
	StrategyStats []StrategyStat     `json:"strategyStats"`
	Performance   []PerformancePoint `json:"performance"`
	APIConnected  bool               `json:"apiConnected"`
	LastUpdate    time.Time          `json:"lastUpdate"`
	Loaded        bool               `json:"loaded"`
}

// NewSnapshot returns the default state held before the first cycle completes.
func NewSnapshot(baseline float64, now time.Time) Snapshot {
	return Snapshot{
		Portfolio:     BaselinePortfolio(baseline),
		Positions:     []Position{},
		TodayTrades:   []Trade{},
		Watchlist:     []WatchlistItem{},
		StrategyStats: []StrategyStat{},
		Performance:   []PerformancePoint{},
		LastUpdate:    now,
	}
}
